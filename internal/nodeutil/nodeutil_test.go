package nodeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/parser"
)

func statements(t *testing.T, src string) []*ast.Node {
	t.Helper()
	f, err := parser.ParseString("nodes.rb", src)
	require.NoError(t, err)
	return f.Root.BodyStatements()
}

func TestBFSTraverseOrder(t *testing.T) {
	a := ast.New(ast.KindIdentifier, "a")
	b := ast.New(ast.KindIdentifier, "b")
	c := ast.New(ast.KindIdentifier, "c")
	inner := ast.New(ast.KindArray, "[b]", b)
	root := ast.New(ast.KindArray, "[[b], a]", inner, a)
	inner.AddChild(c)

	var seen []string
	BFSTraverse(root, func(n *ast.Node) { seen = append(seen, n.Text) })
	assert.Equal(t, []string{"[[b], a]", "[b]", "a", "b", "c"}, seen)
}

func TestBFSTraversePrunesSignatureArguments(t *testing.T) {
	stmts := statements(t, "sig { params(cb: T.proc.params(x: Integer).void).returns(String) }\n")
	require.Len(t, stmts, 1)

	var calls []string
	BFSTraverse(stmts[0], func(n *ast.Node) {
		if n.Kind == ast.KindCall {
			calls = append(calls, n.CallName())
		}
	})
	assert.Equal(t, []string{"sig", "returns", "params"}, calls)
}

func TestBFSTraverseNil(t *testing.T) {
	called := false
	BFSTraverse(nil, func(*ast.Node) { called = true })
	assert.False(t, called)
}

func TestBFSFind(t *testing.T) {
	stmts := statements(t, "private def foo; end\n")
	found := BFSFind(stmts[0], func(n *ast.Node) bool { return n.Kind == ast.KindMethod })
	require.NotNil(t, found)
	assert.Equal(t, "foo", found.Field("name").Text)
	assert.Nil(t, BFSFind(stmts[0], func(n *ast.Node) bool { return n.Kind == ast.KindClass }))
}

func TestSibling(t *testing.T) {
	stmts := statements(t, "a = 1\nb = 2\n")
	next, err := Sibling(stmts[0])
	require.NoError(t, err)
	assert.Same(t, stmts[1], next)

	_, err = Sibling(stmts[1])
	assert.ErrorIs(t, err, ErrNoSibling)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Sibling(ast.New(ast.KindIdentifier, "detached"))
	assert.ErrorIs(t, err, ErrNoSibling)
}

func TestResolveSigTarget(t *testing.T) {
	stmts := statements(t, `def plain; end
def self.klass; end
attr_reader :x
private def wrapped; end
protected(def self.nested; end)
X = 1
`)
	require.Len(t, stmts, 6)

	for _, i := range []int{0, 1, 2} {
		target, err := ResolveSigTarget(stmts[i])
		require.NoError(t, err)
		assert.Same(t, stmts[i], target)
	}

	target, err := ResolveSigTarget(stmts[3])
	require.NoError(t, err)
	assert.Equal(t, ast.KindMethod, target.Kind)
	assert.Equal(t, "wrapped", target.Field("name").Text)

	target, err = ResolveSigTarget(stmts[4])
	require.NoError(t, err)
	assert.Equal(t, ast.KindSingletonMethod, target.Kind)

	_, err = ResolveSigTarget(stmts[5])
	assert.ErrorIs(t, err, ErrNoSigTarget)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsSigable(t *testing.T) {
	stmts := statements(t, "attr_accessor :a\nattr_writer :b\nattr :c\nputs :d\n")
	assert.True(t, IsSigable(stmts[0]))
	assert.True(t, IsSigable(stmts[1]))
	assert.True(t, IsSigable(stmts[2]))
	assert.False(t, IsSigable(stmts[3]))
	assert.False(t, IsSigable(nil))
}
