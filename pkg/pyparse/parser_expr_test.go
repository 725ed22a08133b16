package pyparse

import (
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/source"
	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func parseExprSrc(t *testing.T, src string) ast.Expr {
	t.Helper()

	mod := parseSrc(t, src+"\n")
	stmt, ok := mod.Body[0].(*ast.ExprStmt)
	assert.True(t, ok)

	return stmt.Value
}

func Test_ParseExpr_PowerIsRightAssociative(t *testing.T) {
	e := parseExprSrc(t, "2 ** 3 ** 2")

	top := e.(*ast.BinOp)
	assert.Equal(t, "**", top.Op)

	right, ok := top.Right.(*ast.BinOp)
	assert.True(t, ok, "2 ** 3 ** 2 should parse as 2 ** (3 ** 2)")
	assert.Equal(t, "**", right.Op)
}

func Test_ParseExpr_ArithPrecedenceOverAdd(t *testing.T) {
	e := parseExprSrc(t, "1 + 2 * 3")

	top := e.(*ast.BinOp)
	assert.Equal(t, "+", top.Op)

	right, ok := top.Right.(*ast.BinOp)
	assert.True(t, ok)
	assert.Equal(t, "*", right.Op)
}

func Test_ParseExpr_ChainedComparison(t *testing.T) {
	e := parseExprSrc(t, "1 < x <= 10")

	cmp := e.(*ast.Compare)
	assert.Equal(t, []string{"<", "<="}, cmp.Ops)
	assert.Equal(t, 2, len(cmp.Comparators))
}

func Test_ParseExpr_NotInAndIsNot(t *testing.T) {
	e1 := parseExprSrc(t, "x not in xs")
	cmp1 := e1.(*ast.Compare)
	assert.Equal(t, []string{"not in"}, cmp1.Ops)

	e2 := parseExprSrc(t, "x is not None")
	cmp2 := e2.(*ast.Compare)
	assert.Equal(t, []string{"is not"}, cmp2.Ops)
}

func Test_ParseExpr_SliceForms(t *testing.T) {
	// a[x] -> plain index, not a Slice
	idx := parseExprSrc(t, "a[x]").(*ast.Subscript)
	_, isSlice := idx.Index.(*ast.Slice)
	assert.False(t, isSlice, "a[x] must not parse as a slice")

	// a[:] -> 2-arg slice form, both bounds nil
	bare := parseExprSrc(t, "a[:]").(*ast.Subscript)
	sl, ok := bare.Index.(*ast.Slice)
	assert.True(t, ok)
	assert.True(t, sl.Lower == nil && sl.Upper == nil && sl.Step == nil)

	// a[1:2:3] -> full 3-arg slice
	full := parseExprSrc(t, "a[1:2:3]").(*ast.Subscript)
	slFull, ok := full.Index.(*ast.Slice)
	assert.True(t, ok)
	assert.True(t, slFull.Lower != nil && slFull.Upper != nil && slFull.Step != nil)

	// a[1:] -> lower only
	lowerOnly := parseExprSrc(t, "a[1:]").(*ast.Subscript)
	slLower, ok := lowerOnly.Index.(*ast.Slice)
	assert.True(t, ok)
	assert.True(t, slLower.Lower != nil && slLower.Upper == nil)
}

func Test_ParseExpr_ListComprehensionGenerators(t *testing.T) {
	e := parseExprSrc(t, "[x for x in xs for y in ys]")

	lc := e.(*ast.ListComp)
	assert.Equal(t, 2, len(lc.Generators))
	assert.Equal(t, "x", lc.Generators[0].Target.(*ast.Name).Id)
	assert.Equal(t, "y", lc.Generators[1].Target.(*ast.Name).Id)
}

func Test_ParseExpr_GeneratorExpressionRecognized(t *testing.T) {
	e := parseExprSrc(t, "(x for x in xs)")

	_, ok := e.(*ast.GeneratorExp)
	assert.True(t, ok)
}

func Test_ParseExpr_CallRejectsStarredArgs(t *testing.T) {
	_, err := Parse(source.NewFile("t.py", []byte("f(*args)\n")))
	assert.Error(t, err)
}

func Test_ParseExpr_CallKeywordArgsAfterPositionalOK(t *testing.T) {
	e := parseExprSrc(t, "f(1, x=2)")

	call := e.(*ast.Call)
	assert.Equal(t, 1, len(call.Args))
	assert.Equal(t, 1, len(call.Keywords))
	assert.Equal(t, "x", call.Keywords[0].Name)
}

func Test_ParseExpr_PositionalAfterKeywordRejected(t *testing.T) {
	_, err := Parse(source.NewFile("t.py", []byte("f(x=1, 2)\n")))
	assert.Error(t, err)
}

func Test_ParseExpr_FStringSplitsHolesAndLiterals(t *testing.T) {
	e := parseExprSrc(t, `f"n={n!r:>4}"`)

	js := e.(*ast.JoinedStr)
	assert.Equal(t, 2, len(js.Parts))

	lit := js.Parts[0].(*ast.Constant)
	assert.Equal(t, "n=", lit.Str)

	hole := js.Parts[1].(*ast.FormattedValue)
	assert.Equal(t, "n", hole.Value.(*ast.Name).Id)
	assert.Equal(t, 'r', hole.Conversion)
	assert.Equal(t, ">4", hole.FormatSpec.(*ast.Constant).Str)
}

func Test_ParseExpr_LambdaRejectsDefaultParams(t *testing.T) {
	_, err := Parse(source.NewFile("t.py", []byte("f = lambda x=1: x\n")))
	assert.Error(t, err)
}

func Test_ParseExpr_TupleEmptyAndTrailingComma(t *testing.T) {
	empty := parseExprSrc(t, "()").(*ast.Tuple)
	assert.Equal(t, 0, len(empty.Elts))

	single := parseExprSrc(t, "(1,)").(*ast.Tuple)
	assert.Equal(t, 1, len(single.Elts))
}
