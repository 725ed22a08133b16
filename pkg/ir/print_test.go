package ir

import (
	"strings"
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func Test_Module_WriteTo_RendersFunctionAndReturn(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("script_module")
	fn := mod.NewFunction("script_main")
	b := NewBuilder(ctx, fn)

	discriminator := b.op("script", "mk_return", nil, nil, typePtr(ReturnValueT())).Result()
	b.Return(discriminator)

	out := mod.String()

	assert.True(t, strings.Contains(out, "builtin.module @script_module {"))
	assert.True(t, strings.Contains(out, "builtin.func @script_main()"))
	assert.True(t, strings.Contains(out, "script.mk_return"))
	assert.True(t, strings.Contains(out, "builtin.return"))
}

func Test_Module_WriteTo_IsDeterministic(t *testing.T) {
	build := func() string {
		ctx := NewContext()
		mod := ctx.NewModule("m")
		fn := mod.NewFunction("script_main")
		b := NewBuilder(ctx, fn)

		discriminator := b.op("script", "mk_return", nil, nil, typePtr(ReturnValueT())).Result()
		b.Return(discriminator)

		return mod.String()
	}

	assert.Equal(t, build(), build())
}

func Test_AttrEntry_PrintedInInsertionOrder(t *testing.T) {
	ctx := NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f")
	b := NewBuilder(ctx, fn)

	attrs := []AttrEntry{{Key: "b", Value: IntAttr(2)}, {Key: "a", Value: IntAttr(1)}}
	b.op("script", "noop", nil, attrs, nil)

	out := mod.String()
	bIdx := strings.Index(out, "b=2")
	aIdx := strings.Index(out, "a=1")

	assert.True(t, bIdx >= 0 && aIdx >= 0 && bIdx < aIdx, "attributes should print in the order they were attached, not sorted")
}
