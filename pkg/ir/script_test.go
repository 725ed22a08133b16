package ir

import (
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func newTestBuilder() (*Context, *Builder) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f")

	return ctx, NewBuilder(ctx, fn)
}

func Test_CellAlloc_RecordsNameAttribute(t *testing.T) {
	_, b := newTestBuilder()

	cell := b.CellAlloc("x")

	assert.Equal(t, CellT(), cell.Type())

	attr, ok := cell.DefiningOp().Attr("name")
	assert.True(t, ok)
	assert.Equal(t, StringAttr("x"), attr)
}

func Test_CellStoreThenLoad_SharesCell(t *testing.T) {
	_, b := newTestBuilder()

	cell := b.CellAlloc("x")
	val := b.S64Lit(7)

	storeOp := b.CellStore(cell, val)
	loaded := b.CellLoad(cell)

	assert.Equal(t, []*Value{cell, val}, storeOp.Operands)
	assert.Equal(t, ValueT(), loaded.Type())
}

func Test_ScopeExtend_NamesAndCellsLineUp(t *testing.T) {
	_, b := newTestBuilder()

	parent := b.ScopeInit()
	c1 := b.CellAlloc("a")
	c2 := b.CellAlloc("b")

	scope := b.ScopeExtend(parent, []string{"a", "b"}, []*Value{c1, c2})

	op := scope.DefiningOp()
	assert.Equal(t, parent, op.Operands[0])
	assert.Equal(t, []*Value{c1, c2}, op.Operands[1:])

	names, ok := op.Attr("names")
	assert.True(t, ok)
	assert.Equal(t, ArrayAttr{"a", "b"}, names)
}

func Test_Invoke_HasTwoSuccessorsAndNoDirectResult(t *testing.T) {
	ctx, b := newTestBuilder()

	callee := b.Builtin("print")
	ret := ctx.NewBlock(ValueT())
	except := ctx.NewBlock(ReturnValueT())

	result := b.Invoke(callee, []*Value{b.StrLit("hi")}, nil, ret, except)

	assert.Equal(t, ret.Arg(0), result)
	assert.Equal(t, 0, len(ret.Ops()), "ret is a fresh block; Fallible must not append to it")

	term := b.Function().Entry().Terminator()
	assert.Equal(t, "invoke", term.Op)
	assert.Equal(t, 2, len(term.Successors))
}

func Test_TupleCheck_RecordsArity(t *testing.T) {
	_, b := newTestBuilder()

	v := b.Tuple([]*Value{b.S64Lit(1), b.S64Lit(2)})
	op := b.TupleCheck(v, 2)

	arity, ok := op.Attr("arity")
	assert.True(t, ok)
	assert.Equal(t, IntAttr(2), arity)
	assert.Equal(t, 0, len(op.Results))
}

func Test_FunctionRef_CarriesCapturedCellsAsOperands(t *testing.T) {
	_, b := newTestBuilder()

	c1 := b.CellAlloc("x")
	c2 := b.CellAlloc("y")

	ref := b.FunctionRef("closure_0", []*Value{c1, c2})

	op := ref.DefiningOp()
	assert.Equal(t, []*Value{c1, c2}, op.Operands)

	sym, ok := op.Attr("symbol")
	assert.True(t, ok)
	assert.Equal(t, SymbolRefAttr("closure_0"), sym)
}

func Test_MkReturnAndMkExcept_ProduceReturnValueType(t *testing.T) {
	_, b := newTestBuilder()

	ret := b.MkReturn(b.None())
	exc := b.MkExcept(b.StrLit("boom"))

	assert.Equal(t, ReturnValueT(), ret.Type())
	assert.Equal(t, ReturnValueT(), exc.Type())
}
