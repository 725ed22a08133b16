package frontend

import (
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/ir"
	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func Test_CellMap_CloneIsIndependentCopy(t *testing.T) {
	_, b := newTestEngine()
	c := CellMap{"x": b.CellAlloc("x")}

	clone := c.Clone()
	clone["y"] = b.CellAlloc("y")

	_, ok := c["y"]
	assert.False(t, ok, "mutating the clone must not affect the original")
}

func Test_LandingPad_CreatedLazilyAndCachedAcrossCalls(t *testing.T) {
	_, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	first := lc.LandingPad()
	second := lc.LandingPad()

	assert.True(t, first == second, "the landing pad must be created once and reused")
	assert.Equal(t, 1, len(first.Args()))

	term := first.Terminator()
	assert.Equal(t, "return", term.Op)
}

func Test_Cleanups_RunInnermostFirst(t *testing.T) {
	_, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	var order []int
	lc.PushCleanup(func() { order = append(order, 1) })
	lc.PushCleanup(func() { order = append(order, 2) })
	lc.PushCleanup(func() { order = append(order, 3) })

	lc.RunCleanups()

	assert.Equal(t, []int{3, 2, 1}, order)
}

func Test_RunTopCleanup_RunsOnlyInnermost(t *testing.T) {
	_, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	var order []int
	lc.PushCleanup(func() { order = append(order, 1) })
	lc.PushCleanup(func() { order = append(order, 2) })

	lc.RunTopCleanup()

	assert.Equal(t, []int{2}, order)
}

func Test_EnterFunction_AllocatesOneCellPerLocalAndBindsParams(t *testing.T) {
	ctx := ir.NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f", ir.ValueT(), ir.ValueT())
	b := ir.NewBuilder(ctx, fn)

	scope := &VariableScope{Locals: []string{"x", "y"}}
	lc := EnterFunction(b, scope, 2)

	assert.Equal(t, 2, len(lc.Cells))
	assert.Equal(t, ir.CellT(), lc.Cells["x"].Type())
	assert.Equal(t, ir.CellT(), lc.Cells["y"].Type())

	ops := fn.Entry().Ops()
	storeX := ops[2]
	storeY := ops[3]
	assert.Equal(t, "cell_store", storeX.Op)
	assert.Equal(t, "cell_store", storeY.Op)
	assert.Equal(t, fn.Entry().Arg(0), storeX.Operands[1])
	assert.Equal(t, fn.Entry().Arg(1), storeY.Operands[1])
}

func Test_EnterFunction_AliasesCapturedFreeVariableCellsFromTrailingArgs(t *testing.T) {
	ctx := ir.NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f", ir.CellT())
	b := ir.NewBuilder(ctx, fn)

	scope := &VariableScope{Locals: nil, Free: []string{"captured"}}
	lc := EnterFunction(b, scope, 0)

	assert.True(t, lc.Cells["captured"] == fn.Entry().Arg(0), "a captured free variable aliases its entry-block arg directly, with no cell_alloc")
}

func Test_BuildClosure_LooksUpCapturedCellsFromParentMap(t *testing.T) {
	_, b := newTestEngine()

	parentCells := CellMap{"a": b.CellAlloc("a"), "b": b.CellAlloc("b")}
	childScope := &VariableScope{Free: []string{"b", "a"}}

	closure := BuildClosure(b, "closure_0", childScope, parentCells)

	op := closure.DefiningOp()
	assert.Equal(t, []*ir.Value{parentCells["b"], parentCells["a"]}, op.Operands)
}
