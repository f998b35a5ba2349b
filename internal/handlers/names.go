package handlers

import (
	"strings"

	"github.com/standardbeagle/rbdoc/internal/ast"
)

// literalName returns the name carried by a symbol, string, identifier or
// constant argument: `:foo`, `:"foo"`, `"foo"`, `foo`, `Foo`. Keyword-shaped
// symbols such as `:end` are ordinary symbols here.
func literalName(n *ast.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case ast.KindSymbol:
		return unquote(strings.TrimPrefix(n.Text, ":")), true
	case ast.KindHashKey:
		return strings.TrimSuffix(n.Text, ":"), true
	case ast.KindString:
		return unquote(n.Text), true
	case ast.KindIdentifier, ast.KindConstant:
		return n.Text, true
	}
	return "", false
}

// optionKey normalizes a hash key: `default:`, `:default`, `"default"` all give "default".
func optionKey(n *ast.Node) string {
	if name, ok := literalName(n); ok {
		return name
	}
	return unquote(strings.Trim(n.Text, ": "))
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// pairParts returns the key and value of a hash pair.
func pairParts(pair *ast.Node) (*ast.Node, *ast.Node) {
	key, value := pair.Field("key"), pair.Field("value")
	if key == nil && len(pair.Children) > 0 {
		key = pair.Children[0]
	}
	if value == nil && len(pair.Children) > 1 {
		value = pair.Children[len(pair.Children)-1]
	}
	return key, value
}

// assignmentParts returns the target and value of an assignment.
func assignmentParts(n *ast.Node) (*ast.Node, *ast.Node) {
	left, right := n.Field("left"), n.Field("right")
	if left == nil && len(n.Children) > 0 {
		left = n.Children[0]
	}
	if right == nil && len(n.Children) > 1 {
		right = n.Children[len(n.Children)-1]
	}
	return left, right
}

// isConstantAssignment matches `Foo = value`.
func isConstantAssignment(stmt *ast.Node) bool {
	if stmt.Kind != ast.KindAssignment {
		return false
	}
	left, _ := assignmentParts(stmt)
	return left.Is(ast.KindConstant)
}

// stripWhitespace removes every whitespace character, e.g. from `Foo :: Bar`.
func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// firstLine returns the first line of s.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
