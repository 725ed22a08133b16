package frontend

import "github.com/scriptlang/pyfrontend/pkg/ir"

// nextResult is the success continuation of invokeNext: the block the
// lowerer resumes in with the freshly-produced value as an argument.
type nextResult struct {
	Block *ir.Block
	Value *ir.Value
}

// invokeNext implements the invoke_next primitive of §4.8, shared by For
// (stmt.go) and list-comprehension generators (comprehension.go). It emits
// a branch from the current block into a fresh next_block containing only
// the invoke of nextMethod, a body_block carrying the produced value, and
// an except_block that tests is_instance(exc, "StopIteration"): on a
// match, control branches to done (clean loop exit); otherwise the
// exception is re-thrown to the function's landing pad. The returned
// *ir.Block is next_block itself, the loop's back-edge target.
func (eng *Engine) invokeNext(lc *LoweringContext, nextMethod *ir.Value, done *ir.Block) (nextResult, *ir.Block) {
	nextBlk := lc.Builder.NewBlock()
	lc.Builder.Br(nextBlk)
	lc.Builder.SetCurrentBlock(nextBlk)

	bodyRet := lc.Builder.NewBlock(ir.ValueT())
	exceptBlk := lc.Builder.NewBlock(ir.ValueT())

	value := lc.Builder.Invoke(nextMethod, nil, nil, bodyRet, exceptBlk)
	bodyBlk := lc.Builder.CurrentBlock()

	lc.Builder.WithInsertionPoint(exceptBlk, func() {
		exc := exceptBlk.Arg(0)
		isStop := lc.Builder.IsInstance(exc, "StopIteration")
		lc.Builder.CondBr(isStop, done, nil, lc.LandingPad(), []*ir.Value{exc})
	})

	return nextResult{Block: bodyBlk, Value: value}, nextBlk
}
