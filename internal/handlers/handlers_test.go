package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rbdoc/internal/docdb"
	"github.com/standardbeagle/rbdoc/internal/parser"
)

// run processes each source as its own file and finishes the run.
func run(t *testing.T, opts Options, sources ...string) (*docdb.Database, *Processor) {
	t.Helper()
	db := docdb.New()
	p := NewProcessor(db, opts)
	for i, src := range sources {
		f, err := parser.ParseString(fmt.Sprintf("file%d.rb", i), src)
		require.NoError(t, err)
		p.ProcessFile(f)
	}
	p.Finish()
	return db, p
}

func runFixture(t *testing.T, name string) (*docdb.Database, *Processor) {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return run(t, Options{}, string(src))
}

func lookup(t *testing.T, db *docdb.Database, path string) *docdb.Object {
	t.Helper()
	obj, ok := db.Lookup(path)
	require.True(t, ok, "expected %s to be registered, have %v", path, db.Paths())
	return obj
}

func paramNames(params []docdb.Parameter) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func defaultOf(t *testing.T, params []docdb.Parameter, name string) *string {
	t.Helper()
	for _, p := range params {
		if p.Name == name {
			return p.Default
		}
	}
	t.Fatalf("no parameter %s in %v", name, paramNames(params))
	return nil
}

func errorsOf(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}
