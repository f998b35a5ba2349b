package handlers

import (
	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/docdb"
)

// handleVisibility applies `private`, `protected` and `public`. A bare call
// changes the default for the rest of the body; symbol arguments change
// methods already registered. Wrapped definitions belong to handleMethod.
func handleVisibility(p *Processor, stmt *ast.Node) error {
	vis := docdb.Visibility(stmt.CallName())
	args := stmt.Arguments()
	if len(args) == 0 {
		p.visibility = vis
		return nil
	}
	for _, arg := range args {
		if !arg.Is(ast.KindSymbol, ast.KindString) {
			continue
		}
		name, _ := literalName(arg)
		if obj, ok := p.namespace.Child(docdb.KindMethod, name, p.scope); ok {
			obj.Visibility = vis
			continue
		}
		p.warn("visibility", stmt, "%s refers to unknown method %s", vis, name)
	}
	return nil
}
