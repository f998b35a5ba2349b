package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/rbdoc/internal/indexing"
	"github.com/standardbeagle/rbdoc/internal/version"
)

const personSource = `module People
  # A person
  class Person < T::Struct
    # Full name
    const :name, String
    prop :age, T.nilable(Integer)
  end
end
`

func setupTestProject(t *testing.T, files map[string]string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// run executes the CLI in process and returns stdout, stderr and the error.
func run(t *testing.T, root string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr)
	argv := append([]string{"rbdoc", "--root", root}, args...)
	err := app.Run(argv)
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	if exitErr, ok := err.(cli.ExitCoder); ok {
		return exitErr.ExitCode()
	}
	return -1
}

func TestGenerateJSON(t *testing.T) {
	root := setupTestProject(t, map[string]string{"lib/person.rb": personSource})

	stdout, _, err := run(t, root, "generate", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Objects []struct {
			Path       string `json:"path"`
			File       string `json:"file"`
			Parameters []struct {
				Name    string  `json:"name"`
				Default *string `json:"default"`
			} `json:"parameters"`
		} `json:"objects"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	var found bool
	for _, obj := range doc.Objects {
		if obj.Path != "People::Person#initialize" {
			continue
		}
		found = true
		assert.Equal(t, "lib/person.rb", obj.File)
		require.Len(t, obj.Parameters, 2)
		assert.Equal(t, "name:", obj.Parameters[0].Name)
		require.NotNil(t, obj.Parameters[1].Default)
		assert.Equal(t, "nil", *obj.Parameters[1].Default)
	}
	assert.True(t, found, "constructor missing from %s", stdout)
}

func TestGenerateTextToFile(t *testing.T) {
	root := setupTestProject(t, map[string]string{"lib/person.rb": personSource})
	out := filepath.Join(t.TempDir(), "docs.txt")

	stdout, _, err := run(t, root, "generate", "--output", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Class: People::Person\n")
	assert.Contains(t, string(content), "#initialize(name:, age: nil) ⇒ People::Person")
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	root := setupTestProject(t, map[string]string{"lib/person.rb": personSource})
	_, _, err := run(t, root, "generate", "--format", "xml")
	assert.Error(t, err)
}

func TestGenerateStrict(t *testing.T) {
	root := setupTestProject(t, map[string]string{
		"dup.rb": "class Dup < T::Struct\n  const :a, String\n  const :a, Integer\nend\n",
	})

	_, stderr, err := run(t, root, "generate", "--strict")
	require.NoError(t, err, "duplicates only warn by default")
	assert.Contains(t, stderr, "declared more than once")

	_, stderr, err = run(t, root, "--strict-fields", "generate", "--strict")
	require.Error(t, err)
	assert.Equal(t, exitFailed, exitCode(err))
	assert.Contains(t, stderr, "already declared")
}

func TestQuietHidesWarnings(t *testing.T) {
	root := setupTestProject(t, map[string]string{
		"dup.rb": "class Dup < T::Struct\n  const :a, String\n  const :a, Integer\nend\n",
	})
	_, stderr, err := run(t, root, "--quiet", "generate")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "declared more than once")
}

func TestShow(t *testing.T) {
	root := setupTestProject(t, map[string]string{"lib/person.rb": personSource})

	stdout, _, err := run(t, root, "show", "People::Person#name")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Method: People::Person#name\n")
	assert.Contains(t, stdout, "Full name")

	_, _, err = run(t, root, "show", "People::Persn")
	require.Error(t, err)
	assert.Equal(t, exitNotFound, exitCode(err))
	assert.Contains(t, err.Error(), "Did you mean:")
	assert.Contains(t, err.Error(), "People::Person")
}

func TestSearch(t *testing.T) {
	root := setupTestProject(t, map[string]string{"lib/person.rb": personSource})

	stdout, _, err := run(t, root, "search", "names")
	require.NoError(t, err)
	assert.Contains(t, stdout, "People::Person#name (method)")

	_, _, err = run(t, root, "search", "spaceship")
	assert.Equal(t, exitNotFound, exitCode(err))
}

func TestStats(t *testing.T) {
	root := setupTestProject(t, map[string]string{"lib/person.rb": personSource})

	stdout, _, err := run(t, root, "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Objects: 6\n")
	assert.Contains(t, stdout, "Undocumented objects:\n  People\n")
	assert.Contains(t, stdout, "Files: 1 parsed, 0 skipped")
}

func TestConfigValidate(t *testing.T) {
	root := setupTestProject(t, map[string]string{
		".rbdoc.kdl": "output {\n  format \"yaml\"\n}\n",
	})

	stdout, _, err := run(t, root, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "format:  yaml\n")

	require.NoError(t, os.WriteFile(filepath.Join(root, ".rbdoc.kdl"), []byte("output {\n  format \"xml\"\n}\n"), 0o644))
	_, _, err = run(t, root, "config", "validate")
	assert.Equal(t, exitFailed, exitCode(err))
}

func TestVersion(t *testing.T) {
	root := setupTestProject(t, nil)
	stdout, _, err := run(t, root, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rbdoc "+version.Version+" (commit: ")
	assert.Contains(t, stdout, "build: "+version.BuildID()+"\n")
}

func TestReporterWatchUpdate(t *testing.T) {
	var buf bytes.Buffer
	rep := newReporter(&buf, false, "/project")
	rep.watchUpdate(indexing.WatchUpdate{
		Result:  &indexing.Result{Stats: indexing.Stats{Objects: 7}},
		Changed: []string{"/project/lib/a.rb"},
		Watch:   indexing.WatchStats{EventsProcessed: 3, Batches: 1, IsActive: true},
		Cache:   indexing.CacheStats{Entries: 2, Hits: 1, Misses: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "documentation updated")
	assert.Contains(t, out, "objects=7")
	assert.Contains(t, out, "changed=1")
	assert.Contains(t, out, "batches=1")
	assert.Contains(t, out, "cached=2")
	assert.Contains(t, out, "50%")
	assert.NotContains(t, out, "watch_errors")
}
