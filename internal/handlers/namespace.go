package handlers

import (
	"errors"
	"strings"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/docdb"
	"github.com/standardbeagle/rbdoc/internal/docstring"
)

var errMissingName = errors.New("namespace declaration has no name")

// handleNamespace registers a class or module, processes its body inside it and
// runs the class-close hooks. `class << self` switches to class scope in place.
func handleNamespace(p *Processor, stmt *ast.Node) error {
	if stmt.Kind == ast.KindSingletonClass {
		p.withNamespace(p.namespace, docdb.ScopeClass, func() {
			p.ProcessStatements(stmt.BodyStatements())
		})
		return nil
	}

	nameNode := stmt.Field("name")
	if nameNode == nil {
		return errMissingName
	}
	kind := docdb.KindModule
	if stmt.Kind == ast.KindClass {
		kind = docdb.KindClass
	}
	obj := p.db.ResolveNamespace(p.namespace, stripWhitespace(nameNode.Text), kind)
	if stmt.Docstring != "" {
		obj.Docstring = stmt.Docstring
	}
	if obj.File == "" {
		p.locate(obj, stmt)
		obj.Source = firstLine(stmt.Text)
	}
	if sc := stmt.Field("superclass"); sc != nil {
		obj.Superclass = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sc.Text), "<"))
	}

	p.withNamespace(obj, docdb.ScopeInstance, func() {
		p.ProcessStatements(stmt.BodyStatements())
	})

	if stmt.Kind != ast.KindClass {
		return nil
	}
	var errs []error
	for _, hook := range p.closeHooks {
		if err := hook(p, stmt, obj); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// handleAbstract tags the namespace for `abstract!` and `interface!`.
func handleAbstract(p *Processor, stmt *ast.Node) error {
	ns := p.namespace
	if ns.Kind == docdb.KindRoot {
		p.warn("abstract", stmt, "%s outside of a class or module", stmt.CallName())
		return nil
	}
	doc, directives := docstring.ExtractDirectives(ns.Docstring)
	if doc.HasTag("abstract") {
		return nil
	}
	doc.AddTag(docstring.Tag{Name: "abstract"})
	ns.Docstring = docstring.AddDirectives(doc.ToRaw(), directives)
	return nil
}

// handleMixesIn records `mixes_in_class_methods(Mod)` on the namespace.
func handleMixesIn(p *Processor, stmt *ast.Node) error {
	for _, arg := range stmt.Arguments() {
		if !arg.Is(ast.KindConstant, ast.KindScopeResolution) {
			continue
		}
		name := stripWhitespace(arg.Text)
		if !contains(p.namespace.ClassMixins, name) {
			p.namespace.ClassMixins = append(p.namespace.ClassMixins, name)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
