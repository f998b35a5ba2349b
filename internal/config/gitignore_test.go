package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitignoreShouldIgnore(t *testing.T) {
	gp := NewGitignoreParser()
	require.NoError(t, gp.Read(strings.NewReader(`
# comment
*.log
/build
tmp/
lib/generated/*.rb
!keep.log
`)))

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"app.log", false, true},
		{"nested/deep/app.log", false, true},
		{"keep.log", false, false},
		{"build", true, true},
		{"build/out.rb", false, true},
		{"src/build/out.rb", false, false},
		{"tmp", true, true},
		{"a/tmp/cache.rb", false, true},
		{"lib/generated/model.rb", false, true},
		{"other/lib/generated/model.rb", false, false},
		{"lib/models/user.rb", false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gp.ShouldIgnore(tt.path, tt.isDir), tt.path)
	}
}

func TestLoadGitignoreMissingFile(t *testing.T) {
	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(t.TempDir()))
	assert.False(t, gp.ShouldIgnore("anything.rb", false))
}

func TestLoadGitignoreFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("vendor/\n"), 0o644))
	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))
	assert.True(t, gp.ShouldIgnore("vendor/gems/x.rb", false))
}
