package docdb

import (
	"sort"
	"strings"
)

// Database stores every registered object, addressable by path.
// It is not safe for concurrent use; handlers run sequentially.
type Database struct {
	root  *Object
	index map[string]*Object
	order []*Object
}

// New creates an empty database with a root namespace.
func New() *Database {
	root := &Object{Kind: KindRoot, Name: "root"}
	return &Database{
		root:  root,
		index: make(map[string]*Object),
	}
}

// Root returns the top-level namespace.
func (db *Database) Root() *Object {
	return db.root
}

// Lookup finds an object by its path. The empty path is the root.
func (db *Database) Lookup(path string) (*Object, bool) {
	if path == "" {
		return db.root, true
	}
	o, ok := db.index[strings.TrimPrefix(path, "::")]
	return o, ok
}

// Ensure returns the object named name under ns, creating it if needed.
// An existing object keeps its state; a new one is registered immediately.
func (db *Database) Ensure(ns *Object, kind Kind, name string, scope Scope) *Object {
	if ns == nil {
		ns = db.root
	}
	if kind != KindMethod {
		scope = ""
	}
	if existing, ok := ns.Child(kind, name, scope); ok {
		return existing
	}
	obj := &Object{Kind: kind, Name: name, Namespace: ns, Scope: scope}
	if kind == KindMethod {
		obj.Visibility = VisibilityPublic
	}
	db.register(obj)
	return obj
}

func (db *Database) register(obj *Object) {
	ns := obj.Namespace
	if ns.childByPath == nil {
		ns.childByPath = make(map[string]*Object)
	}
	ns.childByPath[childKey(obj.Kind, obj.Name, obj.Scope)] = obj
	ns.Children = append(ns.Children, obj)
	db.index[obj.Path()] = obj
	db.order = append(db.order, obj)
}

// ResolveNamespace walks a Foo::Bar style path starting at from, creating any
// missing segment. Intermediate segments become modules, the last one gets kind.
// A leading "::" resolves from the root.
func (db *Database) ResolveNamespace(from *Object, path string, kind Kind) *Object {
	ns := from
	if ns == nil || strings.HasPrefix(path, "::") {
		ns = db.root
	}
	segments := strings.Split(strings.TrimPrefix(path, "::"), "::")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		segKind := KindModule
		if i == len(segments)-1 {
			segKind = kind
		}
		if existing := db.findNamespace(ns, seg); existing != nil {
			if i == len(segments)-1 && existing.Kind == KindModule && kind == KindClass {
				// a placeholder module created for a nested path is really a class
				existing.Kind = KindClass
			}
			ns = existing
			continue
		}
		ns = db.Ensure(ns, segKind, seg, "")
	}
	return ns
}

func (db *Database) findNamespace(ns *Object, name string) *Object {
	for _, kind := range []Kind{KindClass, KindModule} {
		if c, ok := ns.Child(kind, name, ""); ok {
			return c
		}
	}
	return nil
}

// All returns every object in registration order.
func (db *Database) All() []*Object {
	out := make([]*Object, len(db.order))
	copy(out, db.order)
	return out
}

// Sorted returns every object ordered by path.
func (db *Database) Sorted() []*Object {
	out := db.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

// Paths returns every registered path, sorted.
func (db *Database) Paths() []string {
	paths := make([]string, 0, len(db.index))
	for p := range db.index {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of registered objects, excluding the root.
func (db *Database) Len() int {
	return len(db.order)
}

// CountByKind tallies objects by kind.
func (db *Database) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, o := range db.order {
		counts[o.Kind]++
	}
	return counts
}
