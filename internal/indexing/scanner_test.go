package indexing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rbdoc/internal/config"
	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
)

// writeTree creates files under root; content defaults to a tiny class.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Performance.MaxWorkers = 2
	cfg.Watch.DebounceMs = 50
	return cfg
}

func relativeAll(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, _ := filepath.Rel(root, p)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestScanSelectsRubySources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lib/a.rb":                 "class A; end\n",
		"lib/nested/b.rb":          "class B; end\n",
		"sorbet/rbi/shims.rbi":     "class C; end\n",
		"sorbet/rbi/gems/rake.rbi": "class Rake; end\n",
		"vendor/bundle/gem/x.rb":   "class X; end\n",
		"README.md":                "# readme\n",
		"generated/out.rb":         "class G; end\n",
		".gitignore":               "generated/\n*.tmp.rb\n",
		"lib/scratch.tmp.rb":       "class S; end\n",
	})

	scan, err := NewFileScanner(testConfig(root)).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"lib/a.rb",
		"lib/nested/b.rb",
		"sorbet/rbi/shims.rbi",
	}, relativeAll(root, scan.Files))
	assert.Empty(t, scan.Skipped)
}

func TestScanWithoutGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lib/a.rb":         "class A; end\n",
		"generated/out.rb": "class G; end\n",
		".gitignore":       "generated/\n",
	})

	cfg := testConfig(root)
	cfg.Index.RespectGitignore = false
	scan, err := NewFileScanner(cfg).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"generated/out.rb", "lib/a.rb"}, relativeAll(root, scan.Files))
}

func TestScanSkipsLargeFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"small.rb": "class Small; end\n",
		"large.rb": "# " + strings.Repeat("x", 200) + "\nclass Large; end\n",
	})

	cfg := testConfig(root)
	cfg.Index.MaxFileSize = 100
	scan, err := NewFileScanner(cfg).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"small.rb"}, relativeAll(root, scan.Files))
	require.Len(t, scan.Skipped, 1)

	var fileErr *rberrors.FileError
	require.True(t, errors.As(scan.Skipped[0], &fileErr))
	assert.Equal(t, rberrors.ErrorTypeFileTooLarge, fileErr.Type)
	assert.Equal(t, filepath.Join(root, "large.rb"), fileErr.Path)
}

func TestScanHonorsFileCount(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.rb": "class A; end\n",
		"b.rb": "class B; end\n",
		"c.rb": "class C; end\n",
	})

	cfg := testConfig(root)
	cfg.Index.MaxFileCount = 2
	scan, err := NewFileScanner(cfg).Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, scan.Files, 2)
}

func TestScanCustomIncludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/models/user.rb": "class User; end\n",
		"lib/tasks/x.rb":     "class X; end\n",
	})

	cfg := testConfig(root)
	cfg.Include = []string{"app/**/*.rb"}
	scan, err := NewFileScanner(cfg).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app/models/user.rb"}, relativeAll(root, scan.Files))
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.rb": "class A; end\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileScanner(testConfig(root)).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShouldProcessPath(t *testing.T) {
	root := t.TempDir()
	s := NewFileScanner(testConfig(root))

	tests := []struct {
		path string
		want bool
	}{
		{"lib/a.rb", true},
		{"a.rbi", true},
		{"lib/a.py", false},
		{"vendor/a.rb", false},
		{"lib/.git/hooks/a.rb", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ShouldProcessPath(filepath.Join(root, filepath.FromSlash(tt.path))))
		})
	}

	assert.False(t, s.ShouldProcessPath(filepath.Join(filepath.Dir(root), "outside.rb")))
}
