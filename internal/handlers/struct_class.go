package handlers

import (
	"strings"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/docdb"
	"github.com/standardbeagle/rbdoc/internal/docstring"
	"github.com/standardbeagle/rbdoc/internal/sigtypes"
)

// synthesizeConstructor is the class-close hook folding accumulated fields
// into an `initialize` method.
func synthesizeConstructor(p *Processor, _ *ast.Node, class *docdb.Object) error {
	path := class.Path()
	fields := p.arena.Fields(path)
	if len(fields) == 0 {
		return nil
	}
	SynthesizeConstructor(p.db, class, fields)
	p.arena.MarkFolded(path)
	return nil
}

// SynthesizeConstructor creates or updates class#initialize so it takes one
// keyword parameter per field. Running it again with the same fields leaves the
// constructor unchanged.
func SynthesizeConstructor(db *docdb.Database, class *docdb.Object, fields []FieldRecord) *docdb.Object {
	ctor := db.Ensure(class, docdb.KindMethod, "initialize", docdb.ScopeInstance)
	doc, directives := docstring.ExtractDirectives(ctor.Docstring)

	isField := make(map[string]bool, len(fields))
	for _, f := range fields {
		isField[f.Name] = true
	}
	written := make(map[string]string)
	doc.RemoveTags(func(t docstring.Tag) bool {
		switch {
		case t.Name == "return":
			return true
		case t.Name == "param" && isField[t.ParamName]:
			written[t.ParamName] = t.Text
			return true
		}
		return false
	})

	params := make([]docdb.Parameter, 0, len(fields))
	sources := make([]string, 0, len(fields))
	for _, f := range fields {
		text := f.Doc
		if text == "" {
			text = written[f.Name]
		}
		doc.AddTag(docstring.Tag{Name: "param", ParamName: f.Name, Types: f.Types, Text: text})
		params = append(params, docdb.Parameter{Name: f.Name + ":", Default: fieldDefault(f)})
		sources = append(sources, f.Source)
	}
	doc.AddTag(docstring.Tag{Name: "return", Types: []string{class.Path()}})

	ctor.Parameters = params
	if ctor.Explicit == nil {
		explicit := false
		ctor.Explicit = &explicit
	}
	if !*ctor.Explicit || ctor.Source == "" {
		ctor.Source = strings.Join(sources, "\n")
	}
	if ctor.File == "" {
		ctor.File, ctor.Line = class.File, class.Line
	}
	ctor.Docstring = docstring.AddDirectives(doc.ToRaw(), directives)
	return ctor
}

// fieldDefault is the explicit default, else "nil" for nilable fields.
func fieldDefault(f FieldRecord) *string {
	if f.Default != nil {
		d := *f.Default
		return &d
	}
	if sigtypes.Contains(f.Types, "nil") {
		d := "nil"
		return &d
	}
	return nil
}
