// Package nodeutil provides traversal helpers shared by the declaration handlers.
package nodeutil

import (
	"errors"
	"fmt"

	"github.com/standardbeagle/rbdoc/internal/ast"
)

var (
	// ErrNotFound is the root of every lookup miss in this package.
	ErrNotFound = errors.New("node not found")
	// ErrNoSibling is returned by Sibling when the node is the last child.
	ErrNoSibling = fmt.Errorf("%w: no adjacent sibling", ErrNotFound)
	// ErrNoSigTarget is returned by ResolveSigTarget when nothing can carry a signature.
	ErrNoSigTarget = fmt.Errorf("%w: no definition can carry a signature", ErrNotFound)
)

// Calls whose arguments hold nested signatures (T.proc params and returns);
// their argument lists are not enqueued during BFS traversal.
var skipMethodContents = map[string]bool{
	"params":  true,
	"returns": true,
}

// Attribute calls that can carry a signature.
var attributeMethods = map[string]bool{
	"attr":          true,
	"attr_accessor": true,
	"attr_reader":   true,
	"attr_writer":   true,
}

// BFSTraverse visits root and its descendants in breadth-first order.
// The argument list of a `params` or `returns` call is skipped; the receiver
// chain of the call is still visited so `params(...).returns(...)` reaches both.
func BFSTraverse(root *ast.Node, visit func(*ast.Node)) {
	BFSFind(root, func(n *ast.Node) bool {
		visit(n)
		return false
	})
}

// BFSFind walks like BFSTraverse and returns the first node for which match is true.
func BFSFind(root *ast.Node, match func(*ast.Node) bool) *ast.Node {
	if root == nil {
		return nil
	}
	queue := []*ast.Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if match(n) {
			return n
		}
		var pruned *ast.Node
		if n.Kind == ast.KindCall && skipMethodContents[n.CallName()] {
			pruned = n.Field("arguments")
		}
		for _, c := range n.Children {
			if c != pruned {
				queue = append(queue, c)
			}
		}
	}
	return nil
}

// Sibling returns the node that follows n among its parent's children.
func Sibling(n *ast.Node) (*ast.Node, error) {
	idx := n.Index()
	if idx < 0 {
		return nil, ErrNoSibling
	}
	siblings := n.Parent.Children
	if idx+1 >= len(siblings) {
		return nil, ErrNoSibling
	}
	return siblings[idx+1], nil
}

// ResolveSigTarget returns the node a `sig` applies to, looking through
// visibility modifiers and other wrapping calls such as `private def foo`.
func ResolveSigTarget(n *ast.Node) (*ast.Node, error) {
	if IsSigable(n) {
		return n, nil
	}
	target := BFSFind(n, func(c *ast.Node) bool {
		return c.Is(ast.KindMethod, ast.KindSingletonMethod)
	})
	if target == nil {
		return nil, ErrNoSigTarget
	}
	return target, nil
}

// IsSigable reports whether n is a method definition or an attribute call.
func IsSigable(n *ast.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.KindMethod, ast.KindSingletonMethod:
		return true
	case ast.KindCall, ast.KindIdentifier:
		return attributeMethods[n.CallName()]
	}
	return false
}
