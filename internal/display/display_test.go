package display

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rbdoc/internal/docdb"
	"github.com/standardbeagle/rbdoc/internal/handlers"
	"github.com/standardbeagle/rbdoc/internal/parser"
)

func shopDB(t *testing.T) *docdb.Database {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("testdata", "shop.rb"))
	require.NoError(t, err)
	f, err := parser.ParseString("shop.rb", string(src))
	require.NoError(t, err)

	db := docdb.New()
	p := handlers.NewProcessor(db, handlers.Options{})
	p.ProcessFile(f)
	p.Finish()
	return db
}

func lookup(t *testing.T, db *docdb.Database, path string) *docdb.Object {
	t.Helper()
	obj, ok := db.Lookup(path)
	require.True(t, ok, "missing %s, have %v", path, db.Paths())
	return obj
}
