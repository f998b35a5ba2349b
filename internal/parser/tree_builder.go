package parser

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/rbdoc/internal/ast"
)

// Grammar node types mapped onto ast kinds. Unlisted types become KindUnknown
// and keep their grammar type in Node.Type.
var kindByType = map[string]ast.Kind{
	"program":                  ast.KindProgram,
	"class":                    ast.KindClass,
	"module":                   ast.KindModule,
	"singleton_class":          ast.KindSingletonClass,
	"method":                   ast.KindMethod,
	"singleton_method":         ast.KindSingletonMethod,
	"call":                     ast.KindCall,
	"argument_list":            ast.KindArgumentList,
	"block":                    ast.KindBlock,
	"do_block":                 ast.KindBlock,
	"body_statement":           ast.KindBody,
	"block_body":               ast.KindBody,
	"assignment":               ast.KindAssignment,
	"constant":                 ast.KindConstant,
	"scope_resolution":         ast.KindScopeResolution,
	"identifier":               ast.KindIdentifier,
	"simple_symbol":            ast.KindSymbol,
	"delimited_symbol":         ast.KindSymbol,
	"hash_key_symbol":          ast.KindHashKey,
	"pair":                     ast.KindPair,
	"element_reference":        ast.KindElementReference,
	"array":                    ast.KindArray,
	"hash":                     ast.KindHash,
	"string":                   ast.KindString,
	"integer":                  ast.KindNumber,
	"float":                    ast.KindNumber,
	"rational":                 ast.KindNumber,
	"nil":                      ast.KindNil,
	"true":                     ast.KindTrue,
	"false":                    ast.KindFalse,
	"self":                     ast.KindSelf,
	"superclass":               ast.KindSuperclass,
	"parenthesized_statements": ast.KindParenthesized,
	"method_parameters":        ast.KindParameters,
	"block_parameters":         ast.KindParameters,
	"lambda_parameters":        ast.KindParameters,
	"optional_parameter":       ast.KindParameter,
	"keyword_parameter":        ast.KindParameter,
	"splat_parameter":          ast.KindParameter,
	"hash_splat_parameter":     ast.KindParameter,
	"block_parameter":          ast.KindParameter,
	"forward_parameter":        ast.KindParameter,
	"lambda":                   ast.KindLambda,
	"ERROR":                    ast.KindError,
}

// Grammar fields copied onto ast nodes.
var fieldNames = []string{
	"name", "superclass", "body", "receiver", "method", "arguments", "block",
	"left", "right", "object", "scope", "key", "value", "parameters",
}

type comment struct {
	startLine int
	endLine   int
	text      string
	ownLine   bool
}

// treeBuilder converts a tree-sitter tree into ast nodes and collects comments
// so leading comments can be attached as docstrings afterwards.
type treeBuilder struct {
	content  []byte
	comments map[int]comment // keyed by end line
}

func newTreeBuilder(content []byte) *treeBuilder {
	return &treeBuilder{content: content, comments: make(map[int]comment)}
}

func (b *treeBuilder) convert(tn *tree_sitter.Node) *ast.Node {
	grammarType := tn.Kind()
	node := &ast.Node{
		Kind:    kindByType[grammarType],
		Type:    grammarType,
		Text:    tn.Utf8Text(b.content),
		Line:    int(tn.StartPosition().Row) + 1,
		EndLine: int(tn.EndPosition().Row) + 1,
	}

	type pairing struct {
		ts   *tree_sitter.Node
		node *ast.Node
	}
	var converted []pairing

	for i := uint(0); i < tn.ChildCount(); i++ {
		child := tn.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		if child.Kind() == "comment" {
			b.recordComment(child)
			continue
		}
		c := b.convert(child)
		node.AddChild(c)
		converted = append(converted, pairing{ts: child, node: c})
	}

	for _, field := range fieldNames {
		fc := tn.ChildByFieldName(field)
		if fc == nil {
			continue
		}
		for _, p := range converted {
			if p.ts.StartByte() == fc.StartByte() && p.ts.EndByte() == fc.EndByte() && p.ts.Kind() == fc.Kind() {
				node.SetField(field, p.node)
				break
			}
		}
	}
	return node
}

func (b *treeBuilder) recordComment(tn *tree_sitter.Node) {
	c := comment{
		startLine: int(tn.StartPosition().Row) + 1,
		endLine:   int(tn.EndPosition().Row) + 1,
		text:      stripComment(tn.Utf8Text(b.content)),
		ownLine:   b.startsLine(tn.StartByte()),
	}
	// =begin/=end blocks end on the line after the closing marker
	if tn.EndPosition().Column == 0 && c.endLine > c.startLine {
		c.endLine--
	}
	b.comments[c.endLine] = c
}

// startsLine reports whether only whitespace precedes offset on its line.
func (b *treeBuilder) startsLine(offset uint) bool {
	for i := int(offset) - 1; i >= 0; i-- {
		switch b.content[i] {
		case '\n':
			return true
		case ' ', '\t':
			continue
		default:
			return false
		}
	}
	return true
}

func stripComment(raw string) string {
	raw = strings.TrimRight(raw, "\r\n")
	if strings.HasPrefix(raw, "=begin") {
		lines := strings.Split(raw, "\n")
		if len(lines) <= 2 {
			return ""
		}
		return strings.Join(lines[1:len(lines)-1], "\n")
	}
	line := strings.TrimPrefix(raw, "#")
	line = strings.TrimPrefix(line, " ")
	return strings.TrimRight(line, " \t\r")
}

// attachDocstrings gives every statement its contiguous block of own-line
// comments ending on the line directly above it.
func (b *treeBuilder) attachDocstrings(root *ast.Node) {
	if len(b.comments) == 0 {
		return
	}
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if isStatementContainer(n.Parent) {
			n.Docstring = b.leadingComment(n.Line)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
}

func isStatementContainer(n *ast.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.KindProgram, ast.KindBody:
		return true
	case ast.KindBlock, ast.KindLambda:
		return n.Field("body") == nil
	}
	return false
}

func (b *treeBuilder) leadingComment(line int) string {
	var lines []string
	for l := line - 1; l > 0; {
		c, ok := b.comments[l]
		if !ok || !c.ownLine {
			break
		}
		lines = append([]string{c.text}, lines...)
		l = c.startLine - 1
	}
	return strings.Join(lines, "\n")
}
