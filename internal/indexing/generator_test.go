package indexing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
	"github.com/standardbeagle/rbdoc/internal/handlers"
)

const pointSource = `module Geometry
  # A point on the plane
  class Point < T::Struct
    # Horizontal position
    const :x, Integer
    prop :y, Integer, default: 0
  end
end
`

const pointExtension = `module Geometry
  class Point < T::Struct
    prop :label, T.nilable(String)
  end
end
`

func TestGeneratorRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lib/geometry/point.rb":       pointSource,
		"lib/geometry/point_label.rb": pointExtension,
		"lib/suit.rb": `class Suit < T::Enum
  enums do
    Spades = new
    Hearts = new
  end
end
`,
	})

	result, err := NewGenerator(testConfig(root)).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.HasErrors())
	assert.Equal(t, 3, result.Stats.FilesParsed)
	assert.Zero(t, result.Stats.FilesSkipped)

	ctor, ok := result.DB.Lookup("Geometry::Point#initialize")
	require.True(t, ok, "have %v", result.DB.Paths())
	names := make([]string, len(ctor.Parameters))
	for i, p := range ctor.Parameters {
		names[i] = p.Name
	}
	// point.rb sorts before point_label.rb
	assert.Equal(t, []string{"x:", "y:", "label:"}, names)
	require.NotNil(t, ctor.Parameters[2].Default)
	assert.Equal(t, "nil", *ctor.Parameters[2].Default)

	_, ok = result.DB.Lookup("Suit::Hearts")
	assert.True(t, ok)
	_, ok = result.DB.Lookup("Geometry::Point#y=")
	assert.True(t, ok)
	_, ok = result.DB.Lookup("Geometry::Point#x=")
	assert.False(t, ok)
}

func TestGeneratorOutputIsStable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.rb": pointSource,
		"b.rb": pointExtension,
	})

	cfg := testConfig(root)
	cfg.Performance.MaxWorkers = 8
	first, err := NewGenerator(cfg).Run(context.Background())
	require.NoError(t, err)
	second, err := NewGenerator(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.DB.Paths(), second.DB.Paths())
}

func TestGeneratorReportsUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.rb": pointSource})

	gen := NewGenerator(testConfig(root))
	missing := filepath.Join(root, "missing.rb")
	result, err := gen.Build(context.Background(), []string{filepath.Join(root, "a.rb"), missing})
	require.NoError(t, err)

	assert.True(t, result.HasErrors())
	assert.Equal(t, 1, result.Stats.FilesParsed)
	assert.Equal(t, 1, result.Stats.FilesSkipped)
	require.Len(t, result.Errors.Errors, 1)

	var fileErr *rberrors.FileError
	require.True(t, errors.As(result.Errors.Errors[0], &fileErr))
	assert.Equal(t, missing, fileErr.Path)
}

func TestGeneratorSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.rb":    pointSource,
		"blob.rb": "\x7fELF\x02\x01\x01\x00\x00\x00",
	})

	result, err := NewGenerator(testConfig(root)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.FilesParsed)
	require.Len(t, result.Errors.Errors, 1)

	var fileErr *rberrors.FileError
	require.True(t, errors.As(result.Errors.Errors[0], &fileErr))
	assert.Equal(t, rberrors.ErrorTypeBinaryFile, fileErr.Type)
	assert.Equal(t, filepath.Join(root, "blob.rb"), fileErr.Path)
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary(nil))
	assert.False(t, isBinary([]byte("class A\n\tdef b; end\r\nend\n")))
	assert.True(t, isBinary([]byte("class A\x00")))
	assert.True(t, isBinary([]byte{1, 2, 3, 'a'}))
}

func TestGeneratorRecoversFromSyntaxErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"broken.rb": "class Broken\n  def oops(\nend\n",
		"good.rb":   "class Good\nend\n",
	})

	result, err := NewGenerator(testConfig(root)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.ParseErrors)
	_, ok := result.DB.Lookup("Good")
	assert.True(t, ok)

	var parserWarnings int
	for _, d := range result.Diagnostics {
		if d.Handler == "parser" {
			parserWarnings++
			assert.Equal(t, handlers.SeverityWarning, d.Severity)
		}
	}
	assert.Equal(t, 1, parserWarnings)
}

func TestGeneratorStrictDuplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"dup.rb": "class Dup < T::Struct\n  const :a, String\n  const :a, Integer\nend\n",
	})

	cfg := testConfig(root)
	result, err := NewGenerator(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.HasErrors())

	cfg.Handlers.StrictDuplicateFields = true
	result, err = NewGenerator(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.HasErrors())
}

func TestGeneratorChanged(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.rb": pointSource,
		"b.rb": pointExtension,
	})
	a := filepath.Join(root, "a.rb")
	b := filepath.Join(root, "b.rb")
	c := filepath.Join(root, "c.rb")

	gen := NewGenerator(testConfig(root))
	_, err := gen.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, gen.Changed([]string{a, b}))

	require.NoError(t, os.WriteFile(a, []byte(pointSource+"\n# trailing\n"), 0o644))
	require.NoError(t, os.Remove(b))
	writeTree(t, root, map[string]string{"c.rb": "class C; end\n"})
	assert.Equal(t, []string{a, b, c}, gen.Changed([]string{a, b, c}))

	gen.Forget(b)
	assert.Empty(t, gen.Changed([]string{b}))
}

func TestGeneratorReusesUnchangedParses(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.rb": pointSource,
		"b.rb": pointExtension,
	})

	gen := NewGenerator(testConfig(root))
	first, err := gen.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, first.Stats.CacheHits)

	require.NoError(t, os.WriteFile(filepath.Join(root, "b.rb"), []byte(pointExtension+"\n"), 0o644))
	second, err := gen.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Stats.CacheHits)
	assert.Equal(t, first.DB.Paths(), second.DB.Paths())

	stats := gen.CacheStats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
	assert.InDelta(t, 0.25, stats.HitRate(), 0.001)
}

func TestGeneratorCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.rb": pointSource})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator(testConfig(root)).Build(ctx, []string{filepath.Join(root, "a.rb")})
	assert.ErrorIs(t, err, context.Canceled)
}
