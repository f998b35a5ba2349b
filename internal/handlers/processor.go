// Package handlers turns Ruby statements into documentation objects.
//
// A Processor walks the top-level statements of each file and, for every
// statement, runs the handlers from its Registry whose predicates match.
// Namespace handlers recurse into class and module bodies; when a class body
// is finished the class-close hooks run, which is where constructors for
// T::Struct style classes are synthesized from the accumulated fields.
package handlers

import (
	"fmt"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/debug"
	"github.com/standardbeagle/rbdoc/internal/docdb"
	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
)

// Options tune handler behavior.
type Options struct {
	// StrictDuplicateFields rejects a field whose name was already declared in
	// the same namespace instead of documenting it twice.
	StrictDuplicateFields bool
}

// Severity of a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic reports a declaration that was skipped or documented partially.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Handler  string
	Message  string
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s: [%s] %s", d.File, d.Line, d.Severity, d.Handler, d.Message)
}

// ClassCloseHook runs after a class body has been processed.
type ClassCloseHook func(p *Processor, stmt *ast.Node, class *docdb.Object) error

// Processor holds the run-wide state shared by all handlers.
type Processor struct {
	db         *docdb.Database
	registry   *Registry
	arena      *FieldArena
	options    Options
	closeHooks []ClassCloseHook

	// per-file lexical state
	file       string
	namespace  *docdb.Object
	owner      *docdb.Object
	scope      docdb.Scope
	visibility docdb.Visibility
	sigs       map[*ast.Node]*signature

	diagnostics []Diagnostic
}

// NewProcessor creates a processor writing into db with the default handlers.
func NewProcessor(db *docdb.Database, opts Options) *Processor {
	return &Processor{
		db:         db,
		registry:   DefaultRegistry(),
		arena:      NewFieldArena(),
		options:    opts,
		closeHooks: []ClassCloseHook{synthesizeConstructor},
		namespace:  db.Root(),
		owner:      db.Root(),
		scope:      docdb.ScopeInstance,
		visibility: docdb.VisibilityPublic,
		sigs:       make(map[*ast.Node]*signature),
	}
}

// SetRegistry replaces the handler registry.
func (p *Processor) SetRegistry(r *Registry) {
	p.registry = r
}

// AddClassCloseHook appends a hook run after every class body.
func (p *Processor) AddClassCloseHook(h ClassCloseHook) {
	p.closeHooks = append(p.closeHooks, h)
}

// Database returns the database the processor writes into.
func (p *Processor) Database() *docdb.Database {
	return p.db
}

// Arena returns the field accumulation arena.
func (p *Processor) Arena() *FieldArena {
	return p.arena
}

// ProcessFile runs the handlers over every top-level statement of f.
func (p *Processor) ProcessFile(f *ast.File) {
	p.file = f.Path
	p.namespace = p.db.Root()
	p.owner = p.db.Root()
	p.scope = docdb.ScopeInstance
	p.visibility = docdb.VisibilityPublic
	p.sigs = make(map[*ast.Node]*signature)

	if f.HasErrors {
		p.diagnostics = append(p.diagnostics, Diagnostic{
			Severity: SeverityWarning,
			File:     f.Path,
			Handler:  "parser",
			Message:  "file contains syntax errors, documentation may be incomplete",
		})
	}
	debug.LogHandler("processing %s\n", f.Path)
	p.ProcessStatements(f.Root.BodyStatements())
}

// ProcessStatements runs the handlers over stmts in order.
func (p *Processor) ProcessStatements(stmts []*ast.Node) {
	for _, stmt := range stmts {
		p.processStatement(stmt)
	}
}

func (p *Processor) processStatement(stmt *ast.Node) {
	for _, reg := range p.registry.Matching(stmt) {
		if reg.NamespaceOnly && !p.InNamespace() {
			debug.LogHandler("%s skipped at %s:%d, not in a namespace\n", reg.Name, p.file, stmt.Line)
			continue
		}
		if err := reg.Handle(p, stmt); err != nil {
			p.reportError(reg.Name, stmt, err)
		}
	}
}

// InNamespace reports whether statements are currently owned by a namespace.
func (p *Processor) InNamespace() bool {
	return p.owner != nil && p.owner.Kind.IsNamespace()
}

// Namespace returns the current namespace.
func (p *Processor) Namespace() *docdb.Object {
	return p.namespace
}

// Scope returns the current member scope.
func (p *Processor) Scope() docdb.Scope {
	return p.scope
}

// withNamespace runs fn with ns as the current namespace and owner.
func (p *Processor) withNamespace(ns *docdb.Object, scope docdb.Scope, fn func()) {
	prevNS, prevOwner, prevScope, prevVis := p.namespace, p.owner, p.scope, p.visibility
	p.namespace, p.owner, p.scope, p.visibility = ns, ns, scope, docdb.VisibilityPublic
	defer func() {
		p.namespace, p.owner, p.scope, p.visibility = prevNS, prevOwner, prevScope, prevVis
	}()
	fn()
}

// withOwner runs fn with a non-namespace owner such as a method. Statements
// processed inside fn see InNamespace false, so namespace-only handlers skip
// them. Method bodies are not walked yet; this is the hook for doing so.
func (p *Processor) withOwner(owner *docdb.Object, fn func()) {
	prev := p.owner
	p.owner = owner
	defer func() { p.owner = prev }()
	fn()
}

// locate fills in location data for an object touched by a handler.
func (p *Processor) locate(obj *docdb.Object, stmt *ast.Node) {
	obj.File = p.file
	obj.Line = stmt.Line
}

func (p *Processor) reportError(handler string, stmt *ast.Node, err error) {
	herr := rberrors.NewHandlerError(handler, err).WithLocation(p.file, stmt.Line)
	debug.LogHandler("%v\n", herr)
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Severity: SeverityError,
		File:     p.file,
		Line:     stmt.Line,
		Handler:  handler,
		Message:  err.Error(),
		Err:      herr,
	})
}

func (p *Processor) warn(handler string, stmt *ast.Node, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	debug.LogHandler("%s:%d: %s\n", p.file, stmt.Line, msg)
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Severity: SeverityWarning,
		File:     p.file,
		Line:     stmt.Line,
		Handler:  handler,
		Message:  msg,
	})
}

// Diagnostics returns everything reported so far.
func (p *Processor) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(p.diagnostics))
	copy(out, p.diagnostics)
	return out
}

// Finish ends the run: fields that never reached a constructor are reported.
func (p *Processor) Finish() []Diagnostic {
	for _, ns := range p.arena.Orphans() {
		name := ns
		if name == "" {
			name = "the top level"
		}
		p.diagnostics = append(p.diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Handler:  "struct_prop",
			Message:  fmt.Sprintf("fields declared in %s were not folded into a constructor", name),
		})
	}
	return p.Diagnostics()
}
