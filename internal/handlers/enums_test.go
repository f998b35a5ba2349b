package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rbdoc/internal/docdb"
)

func TestEnumsRegistersConstantsInOrder(t *testing.T) {
	db, p := runFixture(t, "suit.rb")
	assert.Empty(t, errorsOf(p.Diagnostics()))

	suit := lookup(t, db, "Suit")
	assert.Equal(t, docdb.KindClass, suit.Kind)
	assert.Equal(t, "Playing card suits", suit.Docstring)
	assert.Equal(t, "T::Enum", suit.Superclass)

	var names []string
	for _, c := range suit.Children {
		if c.Kind == docdb.KindConstant {
			names = append(names, c.Name)
		}
	}
	assert.Equal(t, []string{"Spades", "Hearts", "Clubs", "Diamonds"}, names)
}

func TestEnumsDocstringsAndValues(t *testing.T) {
	db, _ := runFixture(t, "suit.rb")

	spades := lookup(t, db, "Suit::Spades")
	assert.Equal(t, "The spades suit\n@see https://en.wikipedia.org/wiki/Spades_(suit)", spades.Docstring)
	assert.Equal(t, "new", spades.Value)
	assert.Equal(t, "Spades = new", spades.Source)

	assert.Equal(t, "The hearts suit", lookup(t, db, "Suit::Hearts").Docstring)

	clubs := lookup(t, db, "Suit::Clubs")
	assert.Empty(t, clubs.Docstring)
	assert.Equal(t, "new('Clubs')", clubs.Value)

	assert.Empty(t, lookup(t, db, "Suit::Diamonds").Docstring)
}

func TestEnumsSkipsNonAssignments(t *testing.T) {
	db, _ := run(t, Options{}, `class Color < T::Enum
  enums do
    puts "ignored"
    Red = new
    helper = 1
  end
end
`)
	suit := lookup(t, db, "Color")
	require.Len(t, suit.Children, 1)
	assert.Equal(t, "Red", suit.Children[0].Name)
}

func TestEnumsWithoutBlockIsIgnored(t *testing.T) {
	db, p := run(t, Options{}, "class Color < T::Enum\n  enums\nend\n")
	assert.Empty(t, lookup(t, db, "Color").Children)
	assert.Empty(t, errorsOf(p.Diagnostics()))
}
