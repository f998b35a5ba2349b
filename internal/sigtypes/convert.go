// Package sigtypes converts Sorbet type expressions into YARD-style type strings.
//
// Conversion follows node shape, not text. Anything it does not recognize
// becomes "Object", so a malformed signature never fails a run.
package sigtypes

import (
	"strings"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/debug"
)

// Fallback is the type used for untyped or unrecognized signatures.
const Fallback = "Object"

// Generic collections rendered as Name<Member>.
var collectionTypes = map[string]string{
	"T::Array":      "Array",
	"T::Enumerable": "Enumerable",
	"T::Enumerator": "Enumerator",
	"T::Range":      "Range",
	"T::Set":        "Set",
}

// Singleton classes rendered as their YARD literal.
var referenceAliases = map[string]string{
	"T::Boolean": "Boolean",
	"NilClass":   "nil",
	"TrueClass":  "true",
	"FalseClass": "false",
}

// Convert returns the documentation type strings for a type expression.
func Convert(node *ast.Node) []string {
	types := convertNode(node)
	for i, t := range types {
		types[i] = collapseWhitespace(t)
	}
	return types
}

// Contains reports whether types includes want.
func Contains(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func convertNode(node *ast.Node) []string {
	if node == nil {
		return []string{Fallback}
	}
	switch node.Kind {
	case ast.KindConstant, ast.KindScopeResolution:
		return convertRef(node)
	case ast.KindCall:
		return convertCall(node)
	case ast.KindElementReference:
		return convertGeneric(node)
	case ast.KindArray:
		return convertTuple(node)
	case ast.KindHash:
		// Shapes are documented as plain hashes; keys would need @option tags.
		return []string{"Hash"}
	case ast.KindParenthesized, ast.KindArgumentList:
		if len(node.Children) == 1 {
			return convertNode(node.Children[0])
		}
	case ast.KindNil:
		return []string{"nil"}
	}
	debug.LogSig("unsupported signature node %s: %q\n", node.Kind, node.Text)
	return []string{Fallback}
}

func convertRef(node *ast.Node) []string {
	name := strings.TrimPrefix(node.Text, "::")
	if alias, ok := referenceAliases[name]; ok {
		return []string{alias}
	}
	return []string{name}
}

func convertCall(node *ast.Node) []string {
	if isProcChain(node) {
		return []string{node.Text}
	}
	recv := node.Receiver()
	if recv == nil || !recv.Is(ast.KindConstant) || strings.TrimPrefix(recv.Text, "::") != "T" {
		debug.LogSig("unsupported signature call %q\n", node.Text)
		return []string{Fallback}
	}
	args := node.Arguments()
	switch node.CallName() {
	case "nilable":
		if len(args) == 0 {
			return []string{Fallback, "nil"}
		}
		// nil goes last so renderers can show the compact `Type?` form
		return append(convertNode(args[0]), "nil")
	case "any":
		var types []string
		for _, a := range args {
			types = append(types, convertNode(a)...)
		}
		if len(types) == 0 {
			return []string{Fallback}
		}
		return types
	case "class_of":
		if len(args) == 0 {
			return []string{"Class"}
		}
		return []string{"Class<" + strings.Join(convertNode(args[0]), ", ") + ">"}
	case "self_type":
		return []string{"self"}
	case "noreturn":
		return []string{"void"}
	case "untyped":
		return []string{Fallback}
	case "all", "attached_class", "enum", "type_parameter":
		// no YARD equivalent, keep the source
		return []string{node.Text}
	}
	debug.LogSig("unsupported T method %q\n", node.Text)
	return []string{Fallback}
}

// isProcChain reports whether node is a T.proc... call chain.
func isProcChain(node *ast.Node) bool {
	for n := node; n != nil && n.Kind == ast.KindCall; n = n.Receiver() {
		recv := n.Receiver()
		if n.CallName() == "proc" && recv.Is(ast.KindConstant) && strings.TrimPrefix(recv.Text, "::") == "T" {
			return true
		}
	}
	return false
}

func genericParts(node *ast.Node) (*ast.Node, []*ast.Node) {
	object := node.Field("object")
	if object == nil {
		if len(node.Children) == 0 {
			return nil, nil
		}
		object = node.Children[0]
	}
	args := make([]*ast.Node, 0, len(node.Children))
	for _, c := range node.Children {
		if c != object {
			args = append(args, c)
		}
	}
	return object, args
}

func convertGeneric(node *ast.Node) []string {
	object, args := genericParts(node)
	if object == nil {
		return []string{Fallback}
	}
	name := strings.TrimPrefix(object.Text, "::")
	if collection, ok := collectionTypes[name]; ok {
		var members []string
		for _, a := range args {
			members = append(members, convertNode(a)...)
		}
		if len(members) == 0 {
			return []string{collection}
		}
		return []string{collection + "<" + strings.Join(members, ", ") + ">"}
	}
	switch name {
	case "T::Hash":
		if len(args) != 2 {
			return []string{"Hash"}
		}
		key := strings.Join(convertNode(args[0]), ", ")
		value := strings.Join(convertNode(args[1]), ", ")
		return []string{"Hash{" + key + " => " + value + "}"}
	case "T::Class":
		if len(args) == 1 {
			return []string{"Class<" + strings.Join(convertNode(args[0]), ", ") + ">"}
		}
		return []string{"Class"}
	}
	debug.LogSig("unsupported generic %q\n", node.Text)
	return []string{buildGenericType(node)}
}

// buildGenericType renders a user generic like Box[Foo[Bar]] from its parts.
func buildGenericType(node *ast.Node) string {
	if node.Kind != ast.KindElementReference {
		return node.Text
	}
	object, args := genericParts(node)
	if object == nil {
		return node.Text
	}
	members := make([]string, 0, len(args))
	for _, a := range args {
		members = append(members, buildGenericType(a))
	}
	return object.Text + "[" + strings.Join(members, ", ") + "]"
}

// convertTuple renders a fixed array like [String, T.nilable(Integer)] as
// Array(String, [Integer, nil]).
func convertTuple(node *ast.Node) []string {
	parts := make([]string, 0, len(node.Children))
	for _, c := range node.Children {
		types := convertNode(c)
		if len(types) == 1 {
			parts = append(parts, types[0])
			continue
		}
		parts = append(parts, "["+strings.Join(types, ", ")+"]")
	}
	return []string{"Array(" + strings.Join(parts, ", ") + ")"}
}

func collapseWhitespace(s string) string {
	if !strings.ContainsAny(s, "\n\t") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
