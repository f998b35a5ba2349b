package handlers

import (
	"errors"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/docstring"
	"github.com/standardbeagle/rbdoc/internal/nodeutil"
	"github.com/standardbeagle/rbdoc/internal/sigtypes"
)

type sigParam struct {
	name  string
	types []string
}

// signature is what a `sig { ... }` block declares about the next definition.
type signature struct {
	params   []sigParam
	returns  []string
	void     bool
	abstract bool
	// leading comment of the sig itself, used when the definition has none
	doc string
}

// handleSig parses the block and parks the result on the definition that follows.
func handleSig(p *Processor, stmt *ast.Node) error {
	next, err := nodeutil.Sibling(stmt)
	if errors.Is(err, nodeutil.ErrNoSibling) {
		p.warn("sig", stmt, "sig is not followed by a definition")
		return nil
	}
	target, err := nodeutil.ResolveSigTarget(next)
	if errors.Is(err, nodeutil.ErrNoSigTarget) {
		p.warn("sig", stmt, "sig is followed by %s, which cannot carry a signature", next.Type)
		return nil
	}
	p.sigs[target] = parseSig(stmt)
	return nil
}

func (p *Processor) takeSig(target *ast.Node) (*signature, bool) {
	sig, ok := p.sigs[target]
	if ok {
		delete(p.sigs, target)
	}
	return sig, ok
}

func parseSig(stmt *ast.Node) *signature {
	sig := &signature{doc: stmt.Docstring}
	nodeutil.BFSTraverse(stmt.Block(), func(n *ast.Node) {
		switch {
		case n.Kind == ast.KindCall && n.CallName() == "params":
			for _, arg := range n.Arguments() {
				if arg.Kind != ast.KindPair {
					continue
				}
				key, value := pairParts(arg)
				sig.params = append(sig.params, sigParam{name: optionKey(key), types: sigtypes.Convert(value)})
			}
		case n.Kind == ast.KindCall && n.CallName() == "returns":
			if args := n.Arguments(); len(args) > 0 {
				sig.returns = sigtypes.Convert(args[0])
			} else {
				sig.returns = []string{sigtypes.Fallback}
			}
		case n.Kind == ast.KindIdentifier && n.Text == "void":
			sig.void = true
		case n.Kind == ast.KindIdentifier && n.Text == "abstract":
			sig.abstract = true
		}
	})
	return sig
}

// returnTypes is the @return type list, nil when the sig declares none.
func (s *signature) returnTypes() []string {
	if s.void {
		return []string{"void"}
	}
	return s.returns
}

func (s *signature) applyToMethod(raw, name string) string {
	doc, directives := docstring.ExtractDirectives(raw)
	for _, param := range s.params {
		if tag := doc.ParamTag(param.name); tag != nil {
			if len(tag.Types) == 0 {
				tag.Types = param.types
			}
			continue
		}
		doc.AddTag(docstring.Tag{Name: "param", ParamName: param.name, Types: param.types})
	}
	if types := s.returnTypes(); types != nil && !(name == "initialize" && s.void) {
		setReturn(doc, types)
	}
	if s.abstract && !doc.HasTag("abstract") {
		doc.AddTag(docstring.Tag{Name: "abstract"})
	}
	return docstring.AddDirectives(doc.ToRaw(), directives)
}

func (s *signature) applyToReader(raw string) string {
	doc, directives := docstring.ExtractDirectives(raw)
	if types := s.returnTypes(); types != nil {
		setReturn(doc, types)
	}
	return docstring.AddDirectives(doc.ToRaw(), directives)
}

func (s *signature) applyToWriter(raw string) string {
	doc, directives := docstring.ExtractDirectives(raw)
	types := s.returnTypes()
	if len(s.params) > 0 {
		types = s.params[0].types
	}
	if types != nil {
		if doc.ParamTag("value") == nil {
			doc.AddTag(docstring.Tag{Name: "param", ParamName: "value", Types: types})
		}
		setReturn(doc, types)
	}
	return docstring.AddDirectives(doc.ToRaw(), directives)
}

// setReturn fills the types of an untyped @return or adds one.
func setReturn(doc *docstring.Docstring, types []string) {
	if tag := doc.Tag("return"); tag != nil {
		if len(tag.Types) == 0 {
			tag.Types = types
		}
		return
	}
	doc.AddTag(docstring.Tag{Name: "return", Types: types})
}
