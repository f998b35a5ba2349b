package handlers

import (
	"errors"
	"strings"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/docdb"
)

var errNoDefinition = errors.New("no method definition found")

// Visibility calls that may wrap a definition: `private def foo`.
var visibilityCalls = []string{"private", "protected", "public"}

// Class-level visibility wrappers: `private_class_method def self.build`.
var classVisibilityCalls = map[string]docdb.Visibility{
	"private_class_method": docdb.VisibilityPrivate,
	"public_class_method":  docdb.VisibilityPublic,
}

// isMethodStatement matches `def`, `def self.`, and a definition wrapped in a
// visibility call.
func isMethodStatement(stmt *ast.Node) bool {
	if stmt.Is(ast.KindMethod, ast.KindSingletonMethod) {
		return true
	}
	def, _ := unwrapDefinition(stmt)
	return def != nil && def != stmt
}

// unwrapDefinition returns the definition carried by stmt and the visibility a
// wrapping call imposes on it ("" when unwrapped).
func unwrapDefinition(stmt *ast.Node) (*ast.Node, docdb.Visibility) {
	if stmt.Is(ast.KindMethod, ast.KindSingletonMethod) {
		return stmt, ""
	}
	if stmt.Kind != ast.KindCall || stmt.Receiver() != nil {
		return nil, ""
	}
	var vis docdb.Visibility
	name := stmt.CallName()
	if v, ok := classVisibilityCalls[name]; ok {
		vis = v
	} else if contains(visibilityCalls, name) {
		vis = docdb.Visibility(name)
	} else {
		return nil, ""
	}
	args := stmt.Arguments()
	if len(args) != 1 {
		return nil, ""
	}
	def, inner := unwrapDefinition(args[0])
	if def == nil {
		return nil, ""
	}
	if inner != "" {
		vis = inner
	}
	return def, vis
}

func handleMethod(p *Processor, stmt *ast.Node) error {
	def, vis := unwrapDefinition(stmt)
	if def == nil {
		return errNoDefinition
	}
	name := methodName(def)
	if name == "" {
		return errNoDefinition
	}
	scope := p.scope
	if def.Kind == ast.KindSingletonMethod {
		scope = docdb.ScopeClass
	}
	obj := p.db.Ensure(p.namespace, docdb.KindMethod, name, scope)
	if vis == "" {
		vis = p.visibility
	}
	obj.Visibility = vis
	obj.Source = def.Text
	obj.Parameters = methodParameters(def)
	explicit := true
	obj.Explicit = &explicit
	p.locate(obj, stmt)

	doc := stmt.Docstring
	if doc == "" {
		doc = def.Docstring
	}
	if sig, ok := p.takeSig(def); ok {
		if doc == "" {
			doc = sig.doc
		}
		doc = sig.applyToMethod(doc, name)
	}
	obj.Docstring = doc
	return nil
}

// methodName reads the name of a definition, falling back to its source for
// operator methods the grammar leaves unnamed.
func methodName(def *ast.Node) string {
	if n := def.Field("name"); n != nil {
		return n.Text
	}
	text := strings.TrimPrefix(strings.TrimSpace(def.Text), "def")
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "self."); i == 0 {
		text = text[len("self."):]
	}
	end := strings.IndexAny(text, "( \n;")
	if end >= 0 {
		text = text[:end]
	}
	return text
}

// methodParameters converts a parameter list, keeping defaults as source text.
func methodParameters(def *ast.Node) []docdb.Parameter {
	params := def.Field("parameters")
	if params == nil {
		return nil
	}
	var out []docdb.Parameter
	for _, c := range params.Children {
		switch {
		case c.Kind == ast.KindIdentifier:
			out = append(out, docdb.Parameter{Name: c.Text})
		case c.Kind == ast.KindParameter && c.Type == "optional_parameter":
			out = append(out, parameterWithDefault(c, ""))
		case c.Kind == ast.KindParameter && c.Type == "keyword_parameter":
			out = append(out, parameterWithDefault(c, ":"))
		case c.Kind == ast.KindParameter:
			out = append(out, docdb.Parameter{Name: c.Text})
		}
	}
	return out
}

func parameterWithDefault(c *ast.Node, suffix string) docdb.Parameter {
	name := c.Field("name")
	param := docdb.Parameter{Name: strings.TrimSuffix(c.Text, suffix)}
	if name != nil {
		param.Name = name.Text + suffix
	}
	if v := c.Field("value"); v != nil {
		text := v.Text
		param.Default = &text
	}
	return param
}
