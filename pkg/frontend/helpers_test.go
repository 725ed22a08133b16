package frontend

import (
	"github.com/scriptlang/pyfrontend/pkg/ir"
	"github.com/scriptlang/pyfrontend/pkg/source"
)

// sp returns a zero-width span; these tests never assert on column/line
// positions, only on the AST/IR shapes the lowerer produces from them.
func sp() source.Span { return source.NewSpan(0, 0) }

func testFile() *source.File { return source.NewFile("t.py", []byte("")) }

// newTestEngine builds an Engine with an empty scope map, wired to a fresh
// module/context, suitable for driving LowerExpr/LowerStmt directly against
// hand-built AST nodes.
func newTestEngine() (*Engine, *ir.Builder) {
	ctx := ir.NewContext()
	mod := ctx.NewModule("m")
	fn := mod.NewFunction("f")
	b := ir.NewBuilder(ctx, fn)

	eng := &Engine{
		Registry: NewBuiltinRegistry(),
		Scopes:   make(ScopeMap),
		Names:    NewNameAllocator(),
		File:     testFile(),
		Module:   mod,
		Ctx:      ctx,
	}

	return eng, b
}

// newTestLC wires an Engine/Builder pair into a LoweringContext with a given
// set of locals already allocated as cells, mirroring what EnterFunction
// would do for a function whose VariableScope.Locals is locals.
func newTestLC(b *ir.Builder, locals []string) *LoweringContext {
	scope := &VariableScope{Locals: locals}
	return EnterFunction(b, scope, 0)
}
