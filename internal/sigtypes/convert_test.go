package sigtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rbdoc/internal/ast"
	"github.com/standardbeagle/rbdoc/internal/parser"
)

// typeNode parses `X = <expr>` and returns the expression node.
func typeNode(t *testing.T, expr string) *ast.Node {
	t.Helper()
	f, err := parser.ParseString("types.rb", "X = "+expr+"\n")
	require.NoError(t, err)
	stmts := f.Root.BodyStatements()
	require.Len(t, stmts, 1)
	right := stmts[0].Field("right")
	require.NotNil(t, right, stmts[0].String())
	return right
}

func TestConvert(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"String", []string{"String"}},
		{"::Foo::Bar", []string{"Foo::Bar"}},
		{"T::Boolean", []string{"Boolean"}},
		{"NilClass", []string{"nil"}},
		{"TrueClass", []string{"true"}},
		{"T.nilable(String)", []string{"String", "nil"}},
		{"T.nilable(T.any(Integer, Float))", []string{"Integer", "Float", "nil"}},
		{"T.any(String, Symbol)", []string{"String", "Symbol"}},
		{"T::Array[String]", []string{"Array<String>"}},
		{"T::Array[T.nilable(String)]", []string{"Array<String, nil>"}},
		{"T::Set[Integer]", []string{"Set<Integer>"}},
		{"T::Range[Integer]", []string{"Range<Integer>"}},
		{"T::Enumerable[Foo]", []string{"Enumerable<Foo>"}},
		{"T::Hash[Symbol, T::Array[String]]", []string{"Hash{Symbol => Array<String>}"}},
		{"T::Class[Foo]", []string{"Class<Foo>"}},
		{"Box[Foo]", []string{"Box[Foo]"}},
		{"Box[Foo[Bar], Baz]", []string{"Box[Foo[Bar], Baz]"}},
		{"[String, Integer]", []string{"Array(String, Integer)"}},
		{"[String, T.nilable(Integer)]", []string{"Array(String, [Integer, nil])"}},
		{"{a: String}", []string{"Hash"}},
		{"T.class_of(Foo)", []string{"Class<Foo>"}},
		{"T.self_type", []string{"self"}},
		{"T.noreturn", []string{"void"}},
		{"T.untyped", []string{"Object"}},
		{"T.attached_class", []string{"T.attached_class"}},
		{"T.all(Foo, Bar)", []string{"T.all(Foo, Bar)"}},
		{"T.type_parameter(:U)", []string{"T.type_parameter(:U)"}},
		{"T.proc.params(x: Integer).void", []string{"T.proc.params(x: Integer).void"}},
		{"T.nonsense(Foo)", []string{"Object"}},
		{"foo.bar", []string{"Object"}},
		{"42", []string{"Object"}},
		{"(String)", []string{"String"}},
		{"nil", []string{"nil"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, Convert(typeNode(t, tt.expr)))
		})
	}
}

func TestConvertNilableAppendsNilLast(t *testing.T) {
	for _, expr := range []string{"T.nilable(String)", "T.nilable(T::Array[Integer])", "T.nilable(T.any(A, B, C))"} {
		types := Convert(typeNode(t, expr))
		require.NotEmpty(t, types)
		assert.Equal(t, "nil", types[len(types)-1], expr)
		assert.True(t, Contains(types, "nil"))
	}
}

func TestConvertIsRepeatable(t *testing.T) {
	n := typeNode(t, "T::Hash[String, T.nilable(T::Array[Integer])]")
	first := Convert(n)
	assert.Equal(t, first, Convert(n))
	assert.Equal(t, []string{"Hash{String => Array<Integer>, nil}"}, first)
}

func TestConvertCollapsesMultilineSource(t *testing.T) {
	n := typeNode(t, "T.all(\n  Foo,\n  Bar\n)")
	assert.Equal(t, []string{"T.all( Foo, Bar )"}, Convert(n))
}

func TestConvertNilNode(t *testing.T) {
	assert.Equal(t, []string{Fallback}, Convert(nil))
}

func TestConvertHandBuiltTree(t *testing.T) {
	recv := ast.New(ast.KindConstant, "T")
	call := ast.New(ast.KindCall, "T.nilable(Foo)")
	call.SetField("receiver", recv)
	call.SetField("method", ast.New(ast.KindIdentifier, "nilable"))
	call.SetField("arguments", ast.New(ast.KindArgumentList, "(Foo)", ast.New(ast.KindConstant, "Foo")))
	assert.Equal(t, []string{"Foo", "nil"}, Convert(call))
}
