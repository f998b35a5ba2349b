package handlers

import (
	"errors"
	"fmt"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/docdb"
	"github.com/standardbeagle/rbdoc/internal/docstring"
	"github.com/standardbeagle/rbdoc/internal/sigtypes"
)

var errFieldName = errors.New("field declaration has no usable name")

// FieldSyntax describes where a field declaration keeps its parts, so both
// call shapes share one extraction routine.
type FieldSyntax struct {
	Name      string
	NameIndex int
	TypeIndex int
	// OptionsIndex is the positional index of an options hash literal, or -1
	// when options are trailing keyword pairs.
	OptionsIndex int
}

var (
	// KeywordSyntax is `prop :name, Type, default: x, immutable: true`.
	KeywordSyntax = FieldSyntax{Name: "keyword", NameIndex: 0, TypeIndex: 1, OptionsIndex: -1}
	// OptionsHashSyntax is `prop :name, Type, {default: x}` and `:default => x`.
	OptionsHashSyntax = FieldSyntax{Name: "options-hash", NameIndex: 0, TypeIndex: 1, OptionsIndex: 2}
)

// DetectFieldSyntax picks the syntax of a field call from its arguments.
func DetectFieldSyntax(args []*ast.Node) FieldSyntax {
	if len(args) > OptionsHashSyntax.OptionsIndex && args[OptionsHashSyntax.OptionsIndex].Kind == ast.KindHash {
		return OptionsHashSyntax
	}
	return KeywordSyntax
}

type fieldArgs struct {
	positional []*ast.Node
	options    map[string]*ast.Node
}

func (s FieldSyntax) split(args []*ast.Node) fieldArgs {
	fa := fieldArgs{options: make(map[string]*ast.Node)}
	addPair := func(pair *ast.Node) {
		key, value := pairParts(pair)
		if key != nil && value != nil {
			fa.options[optionKey(key)] = value
		}
	}
	for _, arg := range args {
		switch {
		case arg.Kind == ast.KindPair:
			addPair(arg)
		case s.OptionsIndex >= 0 && len(fa.positional) == s.OptionsIndex && arg.Kind == ast.KindHash:
			for _, c := range arg.Children {
				if c.Kind == ast.KindPair {
					addPair(c)
				}
			}
		default:
			fa.positional = append(fa.positional, arg)
		}
	}
	return fa
}

func (fa fieldArgs) at(i int) *ast.Node {
	if i < 0 || i >= len(fa.positional) {
		return nil
	}
	return fa.positional[i]
}

// ExtractField reads a `const`/`prop` call into a FieldRecord.
func ExtractField(stmt *ast.Node, namespace string, syntax FieldSyntax) (FieldRecord, error) {
	fa := syntax.split(stmt.Arguments())
	name, ok := literalName(fa.at(syntax.NameIndex))
	if !ok || name == "" {
		return FieldRecord{}, errFieldName
	}
	types := []string{sigtypes.Fallback}
	if t := fa.at(syntax.TypeIndex); t != nil {
		types = sigtypes.Convert(t)
	}
	rec := FieldRecord{
		Namespace: namespace,
		Name:      name,
		Types:     types,
		Doc:       stmt.Docstring,
		Source:    stmt.Text,
		Mutable:   stmt.CallName() == "prop",
	}
	if d, ok := fa.options["default"]; ok {
		text := d.Text
		rec.Default = &text
	}
	if imm, ok := fa.options["immutable"]; ok && imm.Kind == ast.KindTrue {
		rec.Mutable = false
	}
	return rec, nil
}

// handleStructProp records a field and documents its accessor methods.
func handleStructProp(p *Processor, stmt *ast.Node) error {
	namespace := p.namespace.Path()
	syntax := DetectFieldSyntax(stmt.Arguments())
	rec, err := ExtractField(stmt, namespace, syntax)
	if err != nil {
		return err
	}
	if p.arena.Has(namespace, rec.Name) {
		if p.options.StrictDuplicateFields {
			return fmt.Errorf("field %s is already declared in %s", rec.Name, describeNamespace(namespace))
		}
		p.warn("struct_prop", stmt, "field %s is declared more than once in %s", rec.Name, describeNamespace(namespace))
	}
	p.arena.Append(rec)

	reader := p.fieldMethod(stmt, rec.Name, readerDocstring(rec))
	attr := &docdb.Attribute{Read: reader}
	if rec.Mutable {
		writer := p.fieldMethod(stmt, rec.Name+"=", writerDocstring(rec))
		writer.Parameters = []docdb.Parameter{{Name: "value"}}
		attr.Write = writer
	}
	p.namespace.Attributes(p.scope).Set(rec.Name, attr)
	return nil
}

func (p *Processor) fieldMethod(stmt *ast.Node, name, doc string) *docdb.Object {
	obj := p.db.Ensure(p.namespace, docdb.KindMethod, name, p.scope)
	obj.Visibility = p.visibility
	obj.Source = stmt.Text
	obj.Docstring = doc
	explicit := false
	obj.Explicit = &explicit
	p.locate(obj, stmt)
	return obj
}

func readerDocstring(rec FieldRecord) string {
	doc, directives := docstring.ExtractDirectives(rec.Doc)
	if rec.Doc == "" {
		doc.Text = fmt.Sprintf("Returns the value of attribute `%s`.", rec.Name)
	}
	if tag := doc.Tag("return"); tag != nil {
		tag.Types = rec.Types
	} else {
		doc.AddTag(docstring.Tag{Name: "return", Types: rec.Types})
	}
	return docstring.AddDirectives(doc.ToRaw(), directives)
}

// writerDocstring documents name= with the field's own text, or a setter
// sentence, and types the assigned value.
func writerDocstring(rec FieldRecord) string {
	doc, directives := docstring.ExtractDirectives(rec.Doc)
	if rec.Doc == "" {
		doc.Text = fmt.Sprintf("Sets the attribute `%s`.", rec.Name)
	}
	doc.RemoveTags(func(t docstring.Tag) bool {
		return t.Name == "return" || (t.Name == "param" && t.ParamName == "value")
	})
	doc.AddTag(docstring.Tag{
		Name:      "param",
		Types:     rec.Types,
		ParamName: "value",
		Text:      fmt.Sprintf("the value to set the attribute `%s` to.", rec.Name),
	})
	doc.AddTag(docstring.Tag{Name: "return", Types: rec.Types, Text: "the newly set value"})
	return docstring.AddDirectives(doc.ToRaw(), directives)
}

func describeNamespace(ns string) string {
	if ns == "" {
		return "the top level"
	}
	return ns
}
