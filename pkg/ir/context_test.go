package ir

import (
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func Test_Context_BlockIDsAreMonotonic(t *testing.T) {
	ctx := NewContext()

	b1 := ctx.NewBlock()
	b2 := ctx.NewBlock()
	b3 := ctx.NewBlock()

	assert.True(t, b1.ID() < b2.ID())
	assert.True(t, b2.ID() < b3.ID())
}

func Test_Context_NewBlockAllocatesArgValues(t *testing.T) {
	ctx := NewContext()

	blk := ctx.NewBlock(ValueT(), CellT())

	assert.Equal(t, 2, len(blk.Args()))
	assert.Equal(t, ValueT(), blk.Arg(0).Type())
	assert.Equal(t, CellT(), blk.Arg(1).Type())
}

func Test_Block_AppendPanicsAfterTerminator(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f")
	entry := fn.Entry()

	entry.Append(&Operation{Dialect: "builtin", Op: "return"})

	defer func() {
		if recover() == nil {
			t.Errorf("expected Append after a terminator to panic")
		}
	}()

	entry.Append(&Operation{Dialect: "builtin", Op: "return"})
}

func Test_Block_TerminatorNilUntilAppended(t *testing.T) {
	ctx := NewContext()
	blk := ctx.NewBlock()

	assert.True(t, blk.Terminator() == nil)

	op := blk.Append(&Operation{Dialect: "cf", Op: "br", Successors: []*Block{ctx.NewBlock()}})

	assert.Equal(t, op, blk.Terminator())
}
