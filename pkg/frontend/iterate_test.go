package frontend

import (
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func Test_InvokeNext_BranchesDoneOnStopIterationAndThrowsOtherwise(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	nextMethod := b.Builtin("next_method")
	done := b.NewBlock()

	nr, nextBlk := eng.invokeNext(lc, nextMethod, done)

	assert.True(t, nr.Block != nil)
	assert.True(t, nr.Value != nil)

	// nextBlk's only op is the invoke, terminating with two successors
	// (the success continuation and the except block).
	invokeOp := nextBlk.Terminator()
	assert.Equal(t, "invoke", invokeOp.Op)
	assert.Equal(t, 2, len(invokeOp.Successors))

	exceptBlk := invokeOp.Successors[1]
	condBr := exceptBlk.Terminator()
	assert.Equal(t, "cond_br", condBr.Op)
	assert.Equal(t, done, condBr.Successors[0])
	assert.True(t, condBr.Successors[1] == lc.LandingPad())
}

func Test_InvokeNext_ReturnedBlockIsNextsSuccessContinuation(t *testing.T) {
	eng, b := newTestEngine()
	lc := &LoweringContext{Builder: b, ScopeValue: b.ScopeInit(), Cells: CellMap{}}

	nextMethod := b.Builtin("next_method")
	done := b.NewBlock()

	nr, _ := eng.invokeNext(lc, nextMethod, done)

	// The current block after invokeNext returns is left at nr.Block,
	// since invokeNext reads bodyBlk from the cursor right after the invoke.
	assert.True(t, lc.Builder.CurrentBlock() == nr.Block)
}
