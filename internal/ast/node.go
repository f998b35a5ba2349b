// Package ast holds the syntax tree that rbdoc handlers operate on.
//
// Nodes are produced by the parser package from a tree-sitter Ruby tree and are
// read-only afterwards. Every node carries a Kind so handlers can switch over a
// closed set of shapes instead of comparing grammar type strings.
package ast

import (
	"strings"
)

// Kind is the tagged variant of a syntax node.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindProgram
	KindClass
	KindModule
	KindSingletonClass
	KindMethod
	KindSingletonMethod
	KindCall
	KindArgumentList
	KindBlock
	KindBody
	KindAssignment
	KindConstant
	KindScopeResolution
	KindIdentifier
	KindSymbol
	KindHashKey
	KindPair
	KindElementReference
	KindArray
	KindHash
	KindString
	KindNumber
	KindNil
	KindTrue
	KindFalse
	KindSelf
	KindSuperclass
	KindParenthesized
	KindParameters
	KindParameter
	KindLambda
	KindError
)

var kindNames = [...]string{
	KindUnknown:          "unknown",
	KindProgram:          "program",
	KindClass:            "class",
	KindModule:           "module",
	KindSingletonClass:   "singleton_class",
	KindMethod:           "method",
	KindSingletonMethod:  "singleton_method",
	KindCall:             "call",
	KindArgumentList:     "argument_list",
	KindBlock:            "block",
	KindBody:             "body",
	KindAssignment:       "assignment",
	KindConstant:         "constant",
	KindScopeResolution:  "scope_resolution",
	KindIdentifier:       "identifier",
	KindSymbol:           "symbol",
	KindHashKey:          "hash_key",
	KindPair:             "pair",
	KindElementReference: "element_reference",
	KindArray:            "array",
	KindHash:             "hash",
	KindString:           "string",
	KindNumber:           "number",
	KindNil:              "nil",
	KindTrue:             "true",
	KindFalse:            "false",
	KindSelf:             "self",
	KindSuperclass:       "superclass",
	KindParenthesized:    "parenthesized",
	KindParameters:       "parameters",
	KindParameter:        "parameter",
	KindLambda:           "lambda",
	KindError:            "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one element of the syntax tree.
type Node struct {
	Kind Kind
	// Type is the grammar's node type, kept for nodes whose Kind is too coarse
	// (parameters, operators, unknown statements).
	Type      string
	Text      string
	Line      int
	EndLine   int
	Children  []*Node
	Parent    *Node
	Docstring string

	fields map[string]*Node
}

// New creates a detached node. Used by the parser and by tests that build trees by hand.
func New(kind Kind, text string, children ...*Node) *Node {
	n := &Node{Kind: kind, Type: kind.String(), Text: text}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// AddChild appends c and points its Parent back at n.
func (n *Node) AddChild(c *Node) {
	if c == nil {
		return
	}
	c.Parent = n
	n.Children = append(n.Children, c)
}

// SetField names one of n's children. The child is appended if it is not already one.
func (n *Node) SetField(name string, c *Node) *Node {
	if c == nil {
		return n
	}
	if c.Parent != n {
		n.AddChild(c)
	}
	if n.fields == nil {
		n.fields = make(map[string]*Node, 4)
	}
	n.fields[name] = c
	return n
}

// Field returns the child stored under a grammar field name, or nil.
func (n *Node) Field(name string) *Node {
	if n == nil || n.fields == nil {
		return nil
	}
	return n.fields[name]
}

// Is reports whether n is non-nil and of one of the given kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// CallName returns the method name for a call. A bare identifier at statement
// position is a receiverless call without arguments, so its text is returned too.
func (n *Node) CallName() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindCall:
		if m := n.Field("method"); m != nil {
			return m.Text
		}
	case KindIdentifier:
		return n.Text
	}
	return ""
}

// IsCall reports whether n is a call (or bare identifier call) named one of names.
func (n *Node) IsCall(names ...string) bool {
	name := n.CallName()
	if name == "" {
		return false
	}
	for _, want := range names {
		if name == want {
			return true
		}
	}
	return false
}

// Receiver returns the explicit receiver of a call, or nil.
func (n *Node) Receiver() *Node {
	return n.Field("receiver")
}

// Arguments returns the call's arguments in source order, including keyword pairs.
func (n *Node) Arguments() []*Node {
	if n == nil || n.Kind != KindCall {
		return nil
	}
	args := n.Field("arguments")
	if args == nil {
		return nil
	}
	return args.Children
}

// Block returns the block attached to a call, or nil.
func (n *Node) Block() *Node {
	if n == nil || n.Kind != KindCall {
		return nil
	}
	return n.Field("block")
}

// BodyStatements returns the statements contained in a program, body, block,
// class, module or singleton class node.
func (n *Node) BodyStatements() []*Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindProgram, KindBody, KindParenthesized:
		return n.Children
	case KindClass, KindModule, KindSingletonClass, KindMethod, KindSingletonMethod:
		if body := n.bodyChild(); body != nil {
			return body.Children
		}
		return nil
	case KindBlock, KindLambda:
		if body := n.bodyChild(); body != nil {
			return body.Children
		}
		stmts := make([]*Node, 0, len(n.Children))
		for _, c := range n.Children {
			if c.Kind != KindParameters {
				stmts = append(stmts, c)
			}
		}
		return stmts
	}
	return nil
}

func (n *Node) bodyChild() *Node {
	if body := n.Field("body"); body != nil {
		return body
	}
	for _, c := range n.Children {
		if c.Kind == KindBody {
			return c
		}
	}
	return nil
}

// Index returns n's position among its parent's children, or -1.
func (n *Node) Index() int {
	if n == nil || n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// String renders the subtree as an s-expression, mainly for test failures.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Kind.String())
	if len(n.Children) == 0 {
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(strings.Fields(n.Text), " "))
	}
	for _, c := range n.Children {
		sb.WriteByte(' ')
		c.write(sb)
	}
	sb.WriteByte(')')
}

// File is one parsed source file.
type File struct {
	Path string
	Root *Node
	// Hash is the xxhash of the file content, used to detect unchanged files.
	Hash uint64
	// HasErrors is set when the parser recovered from syntax errors.
	HasErrors bool
}
