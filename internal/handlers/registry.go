package handlers

import (
	"github.com/standardbeagle/rbdoc/internal/ast"
)

// Predicate decides whether a handler applies to a statement.
type Predicate func(stmt *ast.Node) bool

// HandleFunc processes one statement.
type HandleFunc func(p *Processor, stmt *ast.Node) error

// Registration pairs a predicate with the handler it guards.
type Registration struct {
	Name    string
	Matches Predicate
	Handle  HandleFunc
	// NamespaceOnly handlers run only when the current owner is a class,
	// module or the root, never inside a method body.
	NamespaceOnly bool
}

// Registry is the ordered list of handlers consulted for every statement.
type Registry struct {
	entries []Registration
}

// NewRegistry creates a registry from registrations, in priority order.
func NewRegistry(regs ...Registration) *Registry {
	r := &Registry{}
	for _, reg := range regs {
		r.Register(reg)
	}
	return r
}

// Register appends a handler.
func (r *Registry) Register(reg Registration) {
	r.entries = append(r.entries, reg)
}

// Matching returns every registration whose predicate accepts stmt.
func (r *Registry) Matching(stmt *ast.Node) []Registration {
	var out []Registration
	for _, reg := range r.entries {
		if reg.Matches(stmt) {
			out = append(out, reg)
		}
	}
	return out
}

// Names lists registered handler names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, reg := range r.entries {
		names[i] = reg.Name
	}
	return names
}

// MethodCall matches calls (or bare identifier calls) with one of the given names.
func MethodCall(names ...string) Predicate {
	return func(stmt *ast.Node) bool {
		return stmt.Is(ast.KindCall, ast.KindIdentifier) && stmt.IsCall(names...)
	}
}

// NodeKind matches statements of the given kinds.
func NodeKind(kinds ...ast.Kind) Predicate {
	return func(stmt *ast.Node) bool {
		return stmt.Is(kinds...)
	}
}

// WithBlock narrows a predicate to calls that carry a block.
func WithBlock(pred Predicate) Predicate {
	return func(stmt *ast.Node) bool {
		return pred(stmt) && stmt.Block() != nil
	}
}

// WithArguments narrows a predicate to calls that have at least one argument.
func WithArguments(pred Predicate) Predicate {
	return func(stmt *ast.Node) bool {
		return pred(stmt) && len(stmt.Arguments()) > 0
	}
}

// DefaultRegistry returns the handlers rbdoc runs on every file.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Registration{Name: "namespace", Matches: NodeKind(ast.KindClass, ast.KindModule, ast.KindSingletonClass), Handle: handleNamespace},
		Registration{Name: "method", Matches: isMethodStatement, Handle: handleMethod},
		Registration{Name: "constant", Matches: isConstantAssignment, Handle: handleConstant},
		Registration{Name: "attribute", Matches: WithArguments(MethodCall(attributeCalls...)), Handle: handleAttribute, NamespaceOnly: true},
		Registration{Name: "visibility", Matches: MethodCall(visibilityCalls...), Handle: handleVisibility, NamespaceOnly: true},
		Registration{Name: "sig", Matches: WithBlock(MethodCall("sig")), Handle: handleSig, NamespaceOnly: true},
		Registration{Name: "abstract", Matches: MethodCall("abstract!", "interface!"), Handle: handleAbstract, NamespaceOnly: true},
		Registration{Name: "mixes_in_class_methods", Matches: WithArguments(MethodCall("mixes_in_class_methods")), Handle: handleMixesIn, NamespaceOnly: true},
		Registration{Name: "enums", Matches: WithBlock(MethodCall("enums")), Handle: handleEnums, NamespaceOnly: true},
		Registration{Name: "struct_prop", Matches: WithArguments(MethodCall("const", "prop")), Handle: handleStructProp, NamespaceOnly: true},
	)
}
