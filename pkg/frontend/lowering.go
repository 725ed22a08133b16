package frontend

import (
	"github.com/scriptlang/pyfrontend/pkg/ir"
	"github.com/scriptlang/pyfrontend/pkg/util"
)

// CellMap maps a name visible in the current lexical scope to the IR Cell
// value holding it. Entering a nested lexical construct that allocates its
// own cells (a comprehension generator) clones the map first, so shadowing
// a name there never disturbs the enclosing scope's own binding (§4.4).
type CellMap map[string]*ir.Value

// Clone returns a shallow copy, used on entry to a nested lexical scope
// that shares the same IR function (comprehension generators; see
// comprehension.go). Entering a genuinely new IR function (FunctionDef,
// Lambda) does not clone — it builds a disjoint CellMap from scratch, since
// only explicitly captured free variables cross that boundary (§4.4 step
// 3).
func (c CellMap) Clone() CellMap {
	out := make(CellMap, len(c))

	for k, v := range c {
		out[k] = v
	}

	return out
}

// LoweringContext holds everything the Expression and Statement Lowerers
// need for the function currently being emitted (§3): the builder cursor,
// the runtime scope-chain value, the compile-time name-to-cell map, the
// lazily-created landing pad, and the stack of With-statement cleanups.
type LoweringContext struct {
	Builder    *ir.Builder
	ScopeValue *ir.Value
	Cells      CellMap

	landingPad util.Option[*ir.Block]
	onDone     []func()
}

// LandingPad returns this function's single landing pad block, creating it
// on first use (§4.10): one ValueT argument (the thrown value), whose body
// wraps it via mk_except and returns. Every fallible op lowered into this
// function shares the same block.
func (lc *LoweringContext) LandingPad() *ir.Block {
	if lc.landingPad.HasValue() {
		return lc.landingPad.Unwrap()
	}

	pad := lc.Builder.NewBlock(ir.ValueT())
	lc.landingPad = util.Some(pad)

	lc.Builder.WithInsertionPoint(pad, func() {
		exc := lc.Builder.MkExcept(pad.Arg(0))
		lc.Builder.Return(exc)
	})

	return pad
}

// PushCleanup installs fn as the innermost pending With-statement cleanup.
func (lc *LoweringContext) PushCleanup(fn func()) {
	lc.onDone = append(lc.onDone, fn)
}

// PopCleanup discards the innermost pending cleanup without running it
// (the caller has already run it, or is discarding it because control
// left through a path that already ran every cleanup).
func (lc *LoweringContext) PopCleanup() {
	lc.onDone = lc.onDone[:len(lc.onDone)-1]
}

// RunCleanups runs every pending cleanup, innermost first (§4.7 Return:
// "runs the on_done cleanup stack, innermost first").
func (lc *LoweringContext) RunCleanups() {
	for i := len(lc.onDone) - 1; i >= 0; i-- {
		lc.onDone[i]()
	}
}

// RunTopCleanup runs only the innermost pending cleanup, used when a With
// block falls through normally rather than returning (§4.7 With: "on
// normal fall-through, run cleanup and pop").
func (lc *LoweringContext) RunTopCleanup() {
	if len(lc.onDone) == 0 {
		return
	}

	lc.onDone[len(lc.onDone)-1]()
}

// EnterFunction performs the Cell Allocator's work on entry to a function
// body (§4.4): allocates one cell per local in insertion order, binds each
// parameter cell from its entry-block argument, aliases each captured
// free-variable cell from its trailing entry-block argument, and extends a
// fresh scope value with the locals just allocated.
//
// numParams is the prefix length of scope.Locals corresponding to
// parameters — guaranteed by the Scope Analyzer, which always defines a
// function's parameters before visiting its body. The entry block's
// arguments are, in order, the numParams value-typed parameters followed
// by len(scope.Free) cell-typed captures.
func EnterFunction(b *ir.Builder, scope *VariableScope, numParams int) *LoweringContext {
	entry := b.Function().Entry()
	args := entry.Args()

	cells := make(CellMap, len(scope.Locals)+len(scope.Free))

	for _, name := range scope.Locals {
		cells[name] = b.CellAlloc(name)
	}

	for i := 0; i < numParams; i++ {
		b.CellStore(cells[scope.Locals[i]], args[i])
	}

	for i, name := range scope.Free {
		cells[name] = args[numParams+i]
	}

	names := make([]string, 0, len(scope.Locals))
	cellVals := make([]*ir.Value, 0, len(scope.Locals))

	for _, name := range scope.Locals {
		names = append(names, name)
		cellVals = append(cellVals, cells[name])
	}

	scopeValue := b.ScopeExtend(b.ScopeInit(), names, cellVals)

	return &LoweringContext{Builder: b, ScopeValue: scopeValue, Cells: cells}
}

// BuildClosure constructs a closure value at a FunctionDef/Lambda's
// definition site, in the *parent* lowering context (§4.4, last
// paragraph): it takes the capture list from the child's own free list,
// looks each name up in the parent's cell map, and passes the symbol plus
// those cells to the closure-value constructor.
func BuildClosure(b *ir.Builder, symbol string, childScope *VariableScope, parentCells CellMap) *ir.Value {
	captured := make([]*ir.Value, len(childScope.Free))

	for i, name := range childScope.Free {
		captured[i] = parentCells[name]
	}

	return b.FunctionRef(symbol, captured)
}
