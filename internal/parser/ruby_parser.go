// Package parser parses Ruby sources with tree-sitter into the ast node tree.
package parser

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/debug"
	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
)

var errNoTree = errors.New("tree-sitter returned no tree")

var (
	languageOnce sync.Once
	rubyLanguage *tree_sitter.Language
)

func language() *tree_sitter.Language {
	languageOnce.Do(func() {
		rubyLanguage = tree_sitter.NewLanguage(tree_sitter_ruby.Language())
	})
	return rubyLanguage
}

// RubyParser turns Ruby source into an ast.File. A RubyParser is not safe for
// concurrent use; take one per goroutine from GetParser.
type RubyParser struct {
	parser *tree_sitter.Parser
}

// NewRubyParser creates a parser with the Ruby grammar loaded.
func NewRubyParser() (*RubyParser, error) {
	p := tree_sitter.NewParser()
	if err := p.SetLanguage(language()); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to load ruby grammar: %w", err)
	}
	return &RubyParser{parser: p}, nil
}

// Close releases the underlying tree-sitter parser.
func (rp *RubyParser) Close() {
	if rp != nil && rp.parser != nil {
		rp.parser.Close()
		rp.parser = nil
	}
}

// Parse parses content. Syntax errors do not fail the parse; tree-sitter
// recovers and the returned file has HasErrors set.
func (rp *RubyParser) Parse(path string, content []byte) (*ast.File, error) {
	tree := rp.parser.Parse(content, nil)
	if tree == nil {
		return nil, rberrors.NewParseError(path, 0, errNoTree)
	}
	defer tree.Close()

	root := tree.RootNode()
	b := newTreeBuilder(content)
	node := b.convert(root)
	b.attachDocstrings(node)

	file := &ast.File{
		Path:      path,
		Root:      node,
		Hash:      xxhash.Sum64(content),
		HasErrors: root.HasError(),
	}
	if file.HasErrors {
		debug.LogParse("%s: recovered from syntax errors\n", path)
	}
	return file, nil
}

// ParseString is a convenience wrapper used by tests and the CLI.
func ParseString(path, source string) (*ast.File, error) {
	p, err := GetParser()
	if err != nil {
		return nil, err
	}
	defer ReleaseParser(p)
	return p.Parse(path, []byte(source))
}

// Parsers are pooled since grammar setup costs a CGO round trip per instance.
var parserPool sync.Pool

// GetParser returns a parser from the pool. Call ReleaseParser when done.
func GetParser() (*RubyParser, error) {
	if p, ok := parserPool.Get().(*RubyParser); ok && p != nil {
		return p, nil
	}
	return NewRubyParser()
}

// ReleaseParser returns a parser to the pool for reuse.
func ReleaseParser(p *RubyParser) {
	if p != nil && p.parser != nil {
		parserPool.Put(p)
	}
}
