package handlers

import (
	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/docdb"
)

var attributeCalls = []string{"attr", "attr_reader", "attr_writer", "attr_accessor"}

// handleAttribute registers reader and writer methods for `attr_*` calls.
func handleAttribute(p *Processor, stmt *ast.Node) error {
	call := stmt.CallName()
	read := call != "attr_writer"
	write := call == "attr_writer" || call == "attr_accessor"
	sig, hasSig := p.takeSig(stmt)

	for _, arg := range stmt.Arguments() {
		name, ok := literalName(arg)
		if !ok || arg.Kind == ast.KindIdentifier {
			continue
		}
		table := p.namespace.Attributes(p.scope)
		attr, ok := table.Get(name)
		if !ok {
			attr = &docdb.Attribute{}
		}
		if read {
			obj := p.attributeMethod(stmt, name)
			if hasSig {
				obj.Docstring = sig.applyToReader(obj.Docstring)
			}
			attr.Read = obj
		}
		if write {
			obj := p.attributeMethod(stmt, name+"=")
			obj.Parameters = []docdb.Parameter{{Name: "value"}}
			if hasSig {
				obj.Docstring = sig.applyToWriter(obj.Docstring)
			}
			attr.Write = obj
		}
		table.Set(name, attr)
	}
	return nil
}

func (p *Processor) attributeMethod(stmt *ast.Node, name string) *docdb.Object {
	obj := p.db.Ensure(p.namespace, docdb.KindMethod, name, p.scope)
	obj.Visibility = p.visibility
	obj.Source = stmt.Text
	obj.Docstring = stmt.Docstring
	explicit := true
	obj.Explicit = &explicit
	p.locate(obj, stmt)
	return obj
}
