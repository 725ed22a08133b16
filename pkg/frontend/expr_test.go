package frontend

import (
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/ir"
	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func Test_LowerConstant_StringAndSmallInt(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	str, err := eng.LowerExpr(lc, &ast.Constant{Kind: ast.StringConstant, Str: "hi", Sp: sp()})
	assert.NoError(t, err)
	assert.Equal(t, "str_lit", str.DefiningOp().Op)

	n, err := eng.LowerExpr(lc, &ast.Constant{Kind: ast.IntConstant, Str: "42", Sp: sp()})
	assert.NoError(t, err)
	assert.Equal(t, "s64_lit", n.DefiningOp().Op)
}

func Test_LowerConstant_LargeIntFallsBackToIntLit(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	huge := "999999999999999999999999999999"
	v, err := eng.LowerExpr(lc, &ast.Constant{Kind: ast.IntConstant, Str: huge, Sp: sp()})
	assert.NoError(t, err)
	assert.Equal(t, "int_lit", v.DefiningOp().Op)
}

func Test_LowerName_PrefersCellOverBuiltin(t *testing.T) {
	eng, b := newTestEngine()
	cell := b.CellAlloc("print")
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{"print": cell}}

	v, err := eng.LowerExpr(lc, &ast.Name{Id: "print", Sp: sp()})
	assert.NoError(t, err)
	assert.Equal(t, "cell_load", v.DefiningOp().Op)
}

func Test_LowerName_FallsBackToBuiltinRegistry(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	v, err := eng.LowerExpr(lc, &ast.Name{Id: "len", Sp: sp()})
	assert.NoError(t, err)
	assert.Equal(t, "builtin", v.DefiningOp().Op)
}

func Test_LowerName_UnresolvedIsError(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	_, err := eng.LowerExpr(lc, &ast.Name{Id: "nope", Sp: sp()})
	assert.Error(t, err)
}

func Test_LowerBinOp_KnownOperatorUsesFallibleBinaryOp(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	bo := &ast.BinOp{Op: "+", Left: &ast.Constant{Kind: ast.IntConstant, Str: "1", Sp: sp()}, Right: &ast.Constant{Kind: ast.IntConstant, Str: "2", Sp: sp()}, Sp: sp()}

	v, err := eng.LowerExpr(lc, bo)
	assert.NoError(t, err)

	term := b.Function().Entry().Terminator()
	assert.Equal(t, "add", term.Op)
	assert.True(t, v == b.CurrentBlock().Arg(0))
}

func Test_LowerBinOp_UnknownOperatorRecoversToUndefined(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	bo := &ast.BinOp{Op: "???", Left: &ast.Constant{Kind: ast.IntConstant, Str: "1", Sp: sp()}, Right: &ast.Constant{Kind: ast.IntConstant, Str: "2", Sp: sp()}, Sp: sp()}

	v, err := eng.LowerExpr(lc, bo)
	assert.NoError(t, err, "an unrecognized operator recovers non-fatally rather than failing")
	assert.Equal(t, "undefined", v.DefiningOp().Op)
}

func Test_LowerCompare_ChainedComparisonReusesRightAsNextLeft(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	cmp := &ast.Compare{
		Left:        &ast.Constant{Kind: ast.IntConstant, Str: "1", Sp: sp()},
		Ops:         []string{"<", "<="},
		Comparators: []ast.Expr{&ast.Constant{Kind: ast.IntConstant, Str: "2", Sp: sp()}, &ast.Constant{Kind: ast.IntConstant, Str: "3", Sp: sp()}},
		Sp:          sp(),
	}

	_, err := eng.LowerExpr(lc, cmp)
	assert.NoError(t, err)
}

func Test_LowerCall_PositionalThenKeywordArgsWithNamesAttribute(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	call := &ast.Call{
		Func: &ast.Name{Id: "print", Sp: sp()},
		Args: []ast.Expr{&ast.Constant{Kind: ast.IntConstant, Str: "1", Sp: sp()}},
		Keywords: []ast.Keyword{
			{Name: "sep", Value: &ast.Constant{Kind: ast.StringConstant, Str: ",", Sp: sp()}},
		},
		Sp: sp(),
	}

	_, err := eng.LowerExpr(lc, call)
	assert.NoError(t, err)

	term := b.Function().Entry().Terminator()
	assert.Equal(t, "invoke", term.Op)
	assert.Equal(t, 3, len(term.Operands), "callee, the positional arg, and the keyword's value appended as a trailing operand")

	attr, ok := term.Attr("keywords")
	assert.True(t, ok)
	assert.Equal(t, ir.ArrayAttr{"sep"}, attr)
}

func Test_LowerSlice_BareColonIsTwoArgBothNone(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	s := &ast.Slice{Sp: sp()}
	_, err := eng.lowerSlice(lc, s)
	assert.NoError(t, err)

	term := b.Function().Entry().Terminator()
	assert.Equal(t, "invoke", term.Op)
	assert.Equal(t, 3, len(term.Operands), "slice builtin callee plus 2 none args")
}

func Test_LowerSlice_UpperOnlyIsOneArgForm(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	s := &ast.Slice{Upper: &ast.Constant{Kind: ast.IntConstant, Str: "3", Sp: sp()}, Sp: sp()}
	_, err := eng.lowerSlice(lc, s)
	assert.NoError(t, err)

	term := b.Function().Entry().Terminator()
	assert.Equal(t, 2, len(term.Operands), "slice builtin callee plus the single upper-bound arg")
}

func Test_LowerFormattedValue_NonZeroConversionIsUnsupported(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	fv := &ast.FormattedValue{Value: &ast.Constant{Kind: ast.IntConstant, Str: "1", Sp: sp()}, Conversion: 'r', Sp: sp()}
	_, err := eng.LowerExpr(lc, fv)
	assert.Error(t, err)
}

func Test_LowerLambda_BuildsClosureInParentContext(t *testing.T) {
	eng, b := newTestEngine()
	captured := b.CellAlloc("captured")
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{"captured": captured}}

	lam := &ast.Lambda{Params: nil, Body: &ast.Name{Id: "captured", Sp: sp()}, Sp: sp()}
	eng.Scopes[lam] = &VariableScope{Free: []string{"captured"}}

	v, err := eng.LowerExpr(lc, lam)
	assert.NoError(t, err)
	assert.Equal(t, "function_ref", v.DefiningOp().Op)
	assert.Equal(t, 2, len(eng.Module.Functions()), "the test engine's function f plus the lowered lambda body")
}

func Test_LowerGeneratorExp_RecoversToUndefinedWithWarning(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	gen := &ast.GeneratorExp{Elt: &ast.Name{Id: "x", Sp: sp()}, Sp: sp()}
	v, err := eng.LowerExpr(lc, gen)
	assert.NoError(t, err)
	assert.Equal(t, "undefined", v.DefiningOp().Op)
}

func Test_LowerExpr_BareSliceOutsideSubscriptIsMalformed(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	_, err := eng.LowerExpr(lc, &ast.Slice{Sp: sp()})
	assert.Error(t, err)
}
