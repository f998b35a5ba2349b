// Package docdb is the in-memory documentation database: code objects keyed by
// path, namespaces with ordered children, and per-scope attribute tables.
package docdb

import (
	"strings"
)

// Kind identifies the type of a code object.
type Kind string

const (
	KindRoot     Kind = "root"
	KindModule   Kind = "module"
	KindClass    Kind = "class"
	KindConstant Kind = "constant"
	KindMethod   Kind = "method"
)

// IsNamespace reports whether objects of this kind can hold children.
func (k Kind) IsNamespace() bool {
	return k == KindRoot || k == KindModule || k == KindClass
}

// Scope distinguishes instance members from class (singleton) members.
type Scope string

const (
	ScopeInstance Scope = "instance"
	ScopeClass    Scope = "class"
)

// Visibility of a method.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// Parameter is one entry of a method's parameter list. Default is nil when the
// parameter is required.
type Parameter struct {
	Name    string
	Default *string
}

// Attribute holds the reader and writer objects registered for one attribute name.
type Attribute struct {
	Read  *Object
	Write *Object
}

// AttributeTable keeps attributes in registration order.
type AttributeTable struct {
	names   []string
	entries map[string]*Attribute
}

func newAttributeTable() *AttributeTable {
	return &AttributeTable{entries: make(map[string]*Attribute)}
}

// Set replaces the attribute stored under name.
func (t *AttributeTable) Set(name string, attr *Attribute) {
	if _, ok := t.entries[name]; !ok {
		t.names = append(t.names, name)
	}
	t.entries[name] = attr
}

// Get returns the attribute stored under name.
func (t *AttributeTable) Get(name string) (*Attribute, bool) {
	a, ok := t.entries[name]
	return a, ok
}

// Names returns attribute names in registration order.
func (t *AttributeTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of attributes.
func (t *AttributeTable) Len() int {
	return len(t.names)
}

// Object is a documented code object.
type Object struct {
	Kind       Kind
	Name       string
	Namespace  *Object
	Scope      Scope
	Visibility Visibility
	Docstring  string
	Source     string
	File       string
	Line       int

	// Constants
	Value string

	// Classes and modules
	Superclass  string
	ClassMixins []string
	Children    []*Object
	attributes  map[Scope]*AttributeTable
	childByPath map[string]*Object

	// Methods
	Parameters []Parameter
	// Explicit is nil until a handler decides whether the method was written in source.
	Explicit *bool
}

// Path returns the fully qualified path, e.g. Foo::Bar, Foo::Bar#baz, Foo.create.
func (o *Object) Path() string {
	if o == nil || o.Kind == KindRoot {
		return ""
	}
	prefix := o.Namespace.Path()
	switch o.Kind {
	case KindMethod:
		sep := "#"
		if o.Scope == ScopeClass {
			sep = "."
		}
		return prefix + sep + o.Name
	default:
		if prefix == "" {
			return o.Name
		}
		return prefix + "::" + o.Name
	}
}

// Attributes returns the attribute table for scope, creating it on first use.
func (o *Object) Attributes(scope Scope) *AttributeTable {
	if o.attributes == nil {
		o.attributes = make(map[Scope]*AttributeTable, 2)
	}
	t, ok := o.attributes[scope]
	if !ok {
		t = newAttributeTable()
		o.attributes[scope] = t
	}
	return t
}

// HasAttributes reports whether any attribute was registered under scope.
func (o *Object) HasAttributes(scope Scope) bool {
	t, ok := o.attributes[scope]
	return ok && t.Len() > 0
}

// IsConstructor reports whether o is an instance-level initialize method.
func (o *Object) IsConstructor() bool {
	return o.Kind == KindMethod && o.Name == "initialize" && o.Scope == ScopeInstance
}

// IsAttribute reports whether o is registered as a reader or writer in its namespace.
func (o *Object) IsAttribute() bool {
	if o.Kind != KindMethod || o.Namespace == nil {
		return false
	}
	name := strings.TrimSuffix(o.Name, "=")
	t, ok := o.Namespace.attributes[o.Scope]
	if !ok {
		return false
	}
	attr, ok := t.Get(name)
	return ok && (attr.Read == o || attr.Write == o)
}

// Child returns a direct child by name and kind.
func (o *Object) Child(kind Kind, name string, scope Scope) (*Object, bool) {
	c, ok := o.childByPath[childKey(kind, name, scope)]
	return c, ok
}

func childKey(kind Kind, name string, scope Scope) string {
	if kind == KindMethod {
		if scope == ScopeClass {
			return "." + name
		}
		return "#" + name
	}
	return "::" + name
}
