package ir

import (
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func Test_Builder_FallibleMovesCursorToRetBlock(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f")
	b := NewBuilder(ctx, fn)

	ret := b.NewBlock(ValueT())
	except := b.NewBlock(ReturnValueT())

	result := b.Fallible("script", "binop.add", nil, nil, ret, except)

	assert.Equal(t, ret, b.CurrentBlock())
	assert.Equal(t, ret.Arg(0), result)

	term := fn.Entry().Terminator()
	assert.True(t, term != nil)
	assert.Equal(t, 2, len(term.Successors))
	assert.Equal(t, ret, term.Successors[0])
	assert.Equal(t, except, term.Successors[1])
}

func Test_Builder_WithInsertionPointRestoresCursor(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f")
	b := NewBuilder(ctx, fn)

	entry := b.CurrentBlock()
	other := b.NewBlock()

	b.WithInsertionPoint(other, func() {
		assert.Equal(t, other, b.CurrentBlock())
	})

	assert.Equal(t, entry, b.CurrentBlock())
}

func Test_Builder_WithInsertionPointRestoresCursorOnPanic(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f")
	b := NewBuilder(ctx, fn)

	entry := b.CurrentBlock()
	other := b.NewBlock()

	func() {
		defer func() { recover() }()

		b.WithInsertionPoint(other, func() {
			panic("boom")
		})
	}()

	assert.Equal(t, entry, b.CurrentBlock())
}

func Test_Builder_CondBrRecordsBothSuccessors(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f")
	b := NewBuilder(ctx, fn)

	trueBlk := b.NewBlock()
	falseBlk := b.NewBlock()
	cond := b.op("script", "truthy", nil, nil, typePtr(ValueT())).Result()

	op := b.CondBr(cond, trueBlk, nil, falseBlk, nil)

	assert.True(t, op.IsTerminator())
	assert.Equal(t, trueBlk, op.Successors[0])
	assert.Equal(t, falseBlk, op.Successors[1])
}

func typePtr(t Type) *Type { return &t }
