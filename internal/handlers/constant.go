package handlers

import (
	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/docdb"
)

// handleConstant registers `Foo = value` under the current namespace.
func handleConstant(p *Processor, stmt *ast.Node) error {
	left, right := assignmentParts(stmt)
	registerConstant(p, stmt, left, right)
	return nil
}

func registerConstant(p *Processor, stmt, left, right *ast.Node) *docdb.Object {
	obj := p.db.Ensure(p.namespace, docdb.KindConstant, left.Text, "")
	obj.Docstring = stmt.Docstring
	obj.Source = stmt.Text
	if right != nil {
		obj.Value = right.Text
	}
	p.locate(obj, stmt)
	return obj
}
