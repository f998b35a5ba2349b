package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextAndTags(t *testing.T) {
	d := Parse(`Adds two numbers.

More detail here.
@param a [Integer] the first
  continues here
@param [Integer, nil] b
@return [Hash{Symbol => Array<String>}] the result
@see Other`)

	assert.Equal(t, "Adds two numbers.\n\nMore detail here.", d.Text)
	require.Len(t, d.Tags, 4)

	a := d.ParamTag("a")
	require.NotNil(t, a)
	assert.Equal(t, []string{"Integer"}, a.Types)
	assert.Equal(t, "the first\ncontinues here", a.Text)

	b := d.ParamTag("b")
	require.NotNil(t, b)
	assert.Equal(t, []string{"Integer", "nil"}, b.Types)
	assert.Empty(t, b.Text)

	ret := d.Tag("return")
	require.NotNil(t, ret)
	assert.Equal(t, []string{"Hash{Symbol => Array<String>}"}, ret.Types)
	assert.Equal(t, "the result", ret.Text)

	see := d.Tag("see")
	require.NotNil(t, see)
	assert.Nil(t, see.Types)
	assert.Equal(t, "Other", see.Text)
	assert.Nil(t, d.Tag("raise"))
}

func TestParseDropsDirectives(t *testing.T) {
	d := Parse("Text\n@!macro thing\n  body line\n@return [String]")
	assert.Equal(t, "Text", d.Text)
	require.Len(t, d.Tags, 1)
	assert.Equal(t, "return", d.Tags[0].Name)
}

func TestToRawRoundTrip(t *testing.T) {
	raw := "Summary\n@param [String] name the name\n  second line\n@return [void]"
	assert.Equal(t, raw, Parse(raw).ToRaw())
}

func TestToRawEmpty(t *testing.T) {
	assert.Equal(t, "", Parse("").ToRaw())
	d := &Docstring{}
	d.AddTag(Tag{Name: "abstract"})
	assert.Equal(t, "@abstract", d.ToRaw())
}

func TestRemoveTags(t *testing.T) {
	d := Parse("@param [A] a\n@param [B] b\n@return [C]")
	d.RemoveTags(func(tag Tag) bool { return tag.Name == "param" && tag.ParamName == "a" })
	assert.Equal(t, "@param [B] b\n@return [C]", d.ToRaw())
	assert.True(t, d.HasTag("return"))
	assert.False(t, d.HasTag("abstract"))
}

func TestSplitTypes(t *testing.T) {
	assert.Equal(t, []string{"A", "Array<B, C>", "Hash{K => V}"}, SplitTypes("A, Array<B, C>, Hash{K => V}"))
	assert.Empty(t, SplitTypes(""))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "First sentence.", Parse("First sentence. Second one.").Summary())
	assert.Equal(t, "Wrapped line continues", Parse("Wrapped line\ncontinues\n\nNext para").Summary())
	assert.Equal(t, "", Parse("@return [X]").Summary())
}

func TestExtractDirectives(t *testing.T) {
	raw := "Builds it\n@!visibility private\n@!macro [attach] thing\n  $1 body\n@param [A] a"
	d, directives := ExtractDirectives(raw)
	assert.Equal(t, []string{"@!visibility private", "@!macro [attach] thing\n  $1 body"}, directives)
	assert.Equal(t, "Builds it", d.Text)
	require.Len(t, d.Tags, 1)

	out := AddDirectives(d.ToRaw(), directives)
	assert.Equal(t, "Builds it\n@param [A] a\n@!visibility private\n@!macro [attach] thing\n  $1 body", out)
}

func TestAddDirectivesToEmpty(t *testing.T) {
	assert.Equal(t, "@!visibility private", AddDirectives("", []string{"@!visibility private"}))
	assert.Equal(t, "text", AddDirectives("text", nil))
}
