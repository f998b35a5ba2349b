package docdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAndLookup(t *testing.T) {
	db := New()
	foo := db.Ensure(nil, KindClass, "Foo", ScopeClass)
	assert.Equal(t, Scope(""), foo.Scope, "only methods carry a scope")
	assert.Same(t, foo, db.Ensure(db.Root(), KindClass, "Foo", ""))

	bar := db.Ensure(foo, KindMethod, "bar", ScopeInstance)
	baz := db.Ensure(foo, KindMethod, "bar", ScopeClass)
	assert.NotSame(t, bar, baz)
	assert.Equal(t, VisibilityPublic, bar.Visibility)

	got, ok := db.Lookup("Foo#bar")
	require.True(t, ok)
	assert.Same(t, bar, got)
	got, ok = db.Lookup("::Foo.bar")
	require.True(t, ok)
	assert.Same(t, baz, got)
	root, ok := db.Lookup("")
	require.True(t, ok)
	assert.Same(t, db.Root(), root)
	_, ok = db.Lookup("Missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"Foo", "Foo#bar", "Foo.bar"}, db.Paths())
	assert.Equal(t, 3, db.Len())
	assert.Equal(t, map[Kind]int{KindClass: 1, KindMethod: 2}, db.CountByKind())
}

func TestResolveNamespace(t *testing.T) {
	db := New()
	outer := db.ResolveNamespace(nil, "Outer", KindModule)
	deep := db.ResolveNamespace(outer, "Inner::Deep", KindClass)
	assert.Equal(t, "Outer::Inner::Deep", deep.Path())
	inner, ok := db.Lookup("Outer::Inner")
	require.True(t, ok)
	assert.Equal(t, KindModule, inner.Kind)

	// a placeholder module becomes a class when declared as one
	again := db.ResolveNamespace(outer, "Inner", KindClass)
	assert.Same(t, inner, again)
	assert.Equal(t, KindClass, inner.Kind)

	top := db.ResolveNamespace(deep, "::Top", KindClass)
	assert.Equal(t, "Top", top.Path())
	assert.Same(t, db.Root(), top.Namespace)
}

func TestObjectPaths(t *testing.T) {
	db := New()
	ns := db.ResolveNamespace(nil, "A::B", KindClass)
	assert.Equal(t, "A::B::C", db.Ensure(ns, KindConstant, "C", "").Path())
	assert.Equal(t, "A::B#m", db.Ensure(ns, KindMethod, "m", ScopeInstance).Path())
	assert.Equal(t, "A::B.m", db.Ensure(ns, KindMethod, "m", ScopeClass).Path())
	assert.Equal(t, "", db.Root().Path())
	assert.Equal(t, "#top", db.Ensure(nil, KindMethod, "top", ScopeInstance).Path())
}

func TestAttributeTable(t *testing.T) {
	db := New()
	class := db.ResolveNamespace(nil, "Point", KindClass)
	assert.False(t, class.HasAttributes(ScopeInstance))

	reader := db.Ensure(class, KindMethod, "x", ScopeInstance)
	writer := db.Ensure(class, KindMethod, "x=", ScopeInstance)
	other := db.Ensure(class, KindMethod, "norm", ScopeInstance)

	table := class.Attributes(ScopeInstance)
	table.Set("x", &Attribute{Read: reader, Write: writer})
	table.Set("y", &Attribute{})
	table.Set("x", &Attribute{Read: reader})

	assert.Equal(t, []string{"x", "y"}, table.Names())
	assert.Equal(t, 2, table.Len())
	attr, ok := table.Get("x")
	require.True(t, ok)
	assert.Nil(t, attr.Write, "last write wins")

	assert.True(t, class.HasAttributes(ScopeInstance))
	assert.False(t, class.HasAttributes(ScopeClass))
	assert.True(t, reader.IsAttribute())
	assert.False(t, writer.IsAttribute())
	assert.False(t, other.IsAttribute())
}

func TestIsConstructor(t *testing.T) {
	db := New()
	class := db.ResolveNamespace(nil, "K", KindClass)
	assert.True(t, db.Ensure(class, KindMethod, "initialize", ScopeInstance).IsConstructor())
	assert.False(t, db.Ensure(class, KindMethod, "initialize", ScopeClass).IsConstructor())
	assert.False(t, db.Ensure(class, KindMethod, "build", ScopeInstance).IsConstructor())
}

func TestSortedAndAll(t *testing.T) {
	db := New()
	db.ResolveNamespace(nil, "Zed", KindClass)
	db.ResolveNamespace(nil, "Alpha", KindModule)

	var all, sorted []string
	for _, o := range db.All() {
		all = append(all, o.Path())
	}
	for _, o := range db.Sorted() {
		sorted = append(sorted, o.Path())
	}
	assert.Equal(t, []string{"Zed", "Alpha"}, all)
	assert.Equal(t, []string{"Alpha", "Zed"}, sorted)
}
