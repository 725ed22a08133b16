package frontend

import (
	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/ir"
)

// lowerStmtList lowers stmts in order, stopping as soon as one of them
// terminates the current block (a Return, or an If/With whose every live
// path returned; a While or For never terminates it). It reports whether the list as a whole
// terminated, so callers (function bodies needing an implicit return,
// If/While/For/With bodies needing a fall-through branch) can react
// correctly.
func (eng *Engine) lowerStmtList(lc *LoweringContext, stmts []ast.Stmt) (bool, error) {
	for _, s := range stmts {
		terminated, err := eng.LowerStmt(lc, s)
		if err != nil {
			return false, err
		}

		if terminated {
			return true, nil
		}
	}

	return false, nil
}

// LowerStmt lowers one statement (§4.7), returning whether it terminated
// the current block.
func (eng *Engine) LowerStmt(lc *LoweringContext, s ast.Stmt) (bool, error) {
	switch s := s.(type) {
	case *ast.Assign:
		v, err := eng.LowerExpr(lc, s.Value)
		if err != nil {
			return false, err
		}

		return false, eng.AssignLHS(lc, s.Target, v)

	case *ast.AugAssign:
		// §4.7, §9: augmented assignment currently lowers as a no-op.
		return false, nil

	case *ast.ExprStmt:
		_, err := eng.LowerExpr(lc, s.Value)
		return false, err

	case *ast.If:
		return eng.lowerIf(lc, s)

	case *ast.While:
		return eng.lowerWhile(lc, s)

	case *ast.For:
		return eng.lowerFor(lc, s)

	case *ast.FunctionDef:
		return false, eng.lowerFunctionDef(lc, s)

	case *ast.Import:
		return false, eng.lowerImport(lc, s)

	case *ast.Return:
		return true, eng.lowerReturn(lc, s)

	case *ast.With:
		return eng.lowerWith(lc, s)

	default:
		return false, eng.malformed(s.Span(), "unknown statement node")
	}
}

// lowerIf builds the diamond CFG of §4.7 "If": a fresh true/false block pair
// from a cond_br on the (truthy-converted) test, each lowering its own
// statement list and branching into a shared join block unless it
// unconditionally returned. If both arms returned, join is never branched
// into; it is still given a terminator so every block in the module keeps
// exactly one (§8 invariant), even though it is unreachable.
func (eng *Engine) lowerIf(lc *LoweringContext, s *ast.If) (bool, error) {
	test, err := eng.LowerExpr(lc, s.Test)
	if err != nil {
		return false, err
	}

	cond := lc.Builder.Truthy(test)

	trueBlk := lc.Builder.NewBlock()
	falseBlk := lc.Builder.NewBlock()
	lc.Builder.CondBr(cond, trueBlk, nil, falseBlk, nil)

	join := lc.Builder.NewBlock()

	lc.Builder.SetCurrentBlock(trueBlk)
	trueTerminated, err := eng.lowerArm(lc, s.Body, join)
	if err != nil {
		return false, err
	}

	lc.Builder.SetCurrentBlock(falseBlk)
	falseTerminated, err := eng.lowerArm(lc, s.Orelse, join)
	if err != nil {
		return false, err
	}

	if trueTerminated && falseTerminated {
		eng.sealUnreachable(lc, join)
		return true, nil
	}

	lc.Builder.SetCurrentBlock(join)

	return false, nil
}

// lowerArm lowers one If arm's statement list, branching into join unless
// it terminated on its own.
func (eng *Engine) lowerArm(lc *LoweringContext, stmts []ast.Stmt, join *ir.Block) (bool, error) {
	terminated, err := eng.lowerStmtList(lc, stmts)
	if err != nil {
		return false, err
	}

	if !terminated {
		lc.Builder.Br(join)
	}

	return terminated, nil
}

func (eng *Engine) sealUnreachable(lc *LoweringContext, blk *ir.Block) {
	lc.Builder.WithInsertionPoint(blk, func() {
		lc.Builder.Return(lc.Builder.MkReturn(lc.Builder.None()))
	})
}

// lowerWhile builds the loop CFG of §4.7 "While": an unconditional branch
// from the cursor into a fresh test block, a cond_br on the (truthy) test
// result to body or done, and a body that branches back to test unless it
// returned.
func (eng *Engine) lowerWhile(lc *LoweringContext, s *ast.While) (bool, error) {
	testBlk := lc.Builder.NewBlock()
	lc.Builder.Br(testBlk)
	lc.Builder.SetCurrentBlock(testBlk)

	test, err := eng.LowerExpr(lc, s.Test)
	if err != nil {
		return false, err
	}

	cond := lc.Builder.Truthy(test)

	bodyBlk := lc.Builder.NewBlock()
	doneBlk := lc.Builder.NewBlock()
	lc.Builder.CondBr(cond, bodyBlk, nil, doneBlk, nil)

	lc.Builder.SetCurrentBlock(bodyBlk)

	if _, err := eng.lowerLoopBody(lc, s.Body, testBlk); err != nil {
		return false, err
	}

	lc.Builder.SetCurrentBlock(doneBlk)

	return false, nil
}

// lowerLoopBody lowers a loop body's statement list, branching back to
// back (the loop's test/next block) unless it terminated on its own.
func (eng *Engine) lowerLoopBody(lc *LoweringContext, stmts []ast.Stmt, back *ir.Block) (bool, error) {
	terminated, err := eng.lowerStmtList(lc, stmts)
	if err != nil {
		return false, err
	}

	if !terminated {
		lc.Builder.Br(back)
	}

	return terminated, nil
}

// lowerFor implements §4.7 "For" atop the invoke_next primitive of §4.8:
// the iterable's __iter__ produces the iterator, whose __next__ is driven
// by invoke_next; the body block assigns the produced value to the loop
// target, lowers the body, and loops back through invoke_next's next
// block unless it returned.
func (eng *Engine) lowerFor(lc *LoweringContext, s *ast.For) (bool, error) {
	iterable, err := eng.LowerExpr(lc, s.Iter)
	if err != nil {
		return false, err
	}

	iterMethod := lc.Builder.GetMethod(iterable, "__iter__")
	iterRet := lc.Builder.NewBlock(ir.ValueT())
	iterator := lc.Builder.Invoke(iterMethod, nil, nil, iterRet, lc.LandingPad())
	nextMethod := lc.Builder.GetMethod(iterator, "__next__")

	doneBlk := lc.Builder.NewBlock()
	nr, nextBlk := eng.invokeNext(lc, nextMethod, doneBlk)

	lc.Builder.SetCurrentBlock(nr.Block)

	if err := eng.AssignLHS(lc, s.Target, nr.Value); err != nil {
		return false, err
	}

	if _, err := eng.lowerLoopBody(lc, s.Body, nextBlk); err != nil {
		return false, err
	}

	lc.Builder.SetCurrentBlock(doneBlk)

	return false, nil
}

// lowerFunctionDef implements §4.4/§4.7 "FunctionDef": a fresh IR function
// is built from the def's own VariableScope, its body lowered with an
// implicit `return None` on fall-through, and the resulting closure value
// stored into the enclosing cell bound to the function's own name.
func (eng *Engine) lowerFunctionDef(lc *LoweringContext, s *ast.FunctionDef) error {
	scope, ok := eng.Scopes[s]
	if !ok {
		return eng.malformed(s.Span(), "function missing scope analysis")
	}

	symbol := eng.Names.Fresh(s.Name)

	paramTypes := make([]ir.Type, 0, len(s.Params)+len(scope.Free))
	for range s.Params {
		paramTypes = append(paramTypes, ir.ValueT())
	}

	for range scope.Free {
		paramTypes = append(paramTypes, ir.CellT())
	}

	fn := eng.Module.NewFunction(symbol, paramTypes...)
	childBuilder := ir.NewBuilder(eng.Ctx, fn)
	childLC := EnterFunction(childBuilder, scope, len(s.Params))

	terminated, err := eng.lowerStmtList(childLC, s.Body)
	if err != nil {
		return err
	}

	if !terminated {
		childBuilder.Return(childBuilder.MkReturn(childBuilder.None()))
	}

	closure := BuildClosure(lc.Builder, symbol, scope, lc.Cells)

	cell, ok := lc.Cells[s.Name]
	if !ok {
		return eng.malformed(s.Span(), "function name missing its own cell")
	}

	lc.Builder.CellStore(cell, closure)

	return nil
}

// lowerImport implements §4.7 "Import": each alias emits a module(name) op
// stored into the cell for its local binding (the asname if present,
// otherwise the imported name itself).
func (eng *Engine) lowerImport(lc *LoweringContext, s *ast.Import) error {
	for _, alias := range s.Names {
		modVal := lc.Builder.Module(alias.Name)

		localName := alias.AsName
		if localName == "" {
			localName = alias.Name
		}

		cell, ok := lc.Cells[localName]
		if !ok {
			return eng.malformed(alias.NameSp, "import binding missing its own cell")
		}

		lc.Builder.CellStore(cell, modVal)
	}

	return nil
}

// lowerReturn implements §4.7 "Return": every pending With cleanup runs,
// innermost first, before the (possibly omitted, defaulting to None)
// value is wrapped and returned.
func (eng *Engine) lowerReturn(lc *LoweringContext, s *ast.Return) error {
	lc.RunCleanups()

	var v *ir.Value

	if s.Value != nil {
		var err error

		v, err = eng.LowerExpr(lc, s.Value)
		if err != nil {
			return err
		}
	} else {
		v = lc.Builder.None()
	}

	lc.Builder.Return(lc.Builder.MkReturn(v))

	return nil
}

// lowerWith implements §4.7 "With": each item's context expression is
// lowered, its __enter__ invoked and optionally bound, and its __exit__
// queued for cleanup in reverse item order. The cleanup runs once, either
// by a Return inside the body (via RunCleanups) or, on normal fall-through,
// here (§9: an exception propagating past the body currently bypasses
// __exit__ entirely — a known gap, not a bug).
func (eng *Engine) lowerWith(lc *LoweringContext, s *ast.With) (bool, error) {
	exits := make([]*ir.Value, 0, len(s.Items))

	for _, item := range s.Items {
		ctxVal, err := eng.LowerExpr(lc, item.ContextExpr)
		if err != nil {
			return false, err
		}

		enterMethod := lc.Builder.GetMethod(ctxVal, "__enter__")
		exitMethod := lc.Builder.GetMethod(ctxVal, "__exit__")

		ret := lc.Builder.NewBlock(ir.ValueT())
		enterResult := lc.Builder.Invoke(enterMethod, nil, nil, ret, lc.LandingPad())

		if item.OptionalVars != nil {
			if err := eng.AssignLHS(lc, item.OptionalVars, enterResult); err != nil {
				return false, err
			}
		}

		exits = append(exits, exitMethod)
	}

	lc.PushCleanup(func() {
		for i := len(exits) - 1; i >= 0; i-- {
			ret := lc.Builder.NewBlock(ir.ValueT())
			lc.Builder.Invoke(exits[i], nil, nil, ret, lc.LandingPad())
		}
	})

	terminated, err := eng.lowerStmtList(lc, s.Body)
	if err != nil {
		return false, err
	}

	if !terminated {
		lc.RunTopCleanup()
	}

	lc.PopCleanup()

	return terminated, nil
}
