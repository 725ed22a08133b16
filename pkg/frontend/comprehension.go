package frontend

import (
	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/ir"
)

// lowerListComp implements §4.6. Unlike FunctionDef/Lambda, a comprehension
// never creates a new ir.Function: its generators only manipulate the
// enclosing function's own cell map and scope value, which are saved
// before and restored after the whole construct (§8 scenario: "the
// emitted function contains no child function").
func (eng *Engine) lowerListComp(lc *LoweringContext, lcomp *ast.ListComp) (*ir.Value, error) {
	savedCells := lc.Cells
	savedScope := lc.ScopeValue

	list := lc.Builder.List(nil)
	appendMethod := lc.Builder.GetMethod(list, "append")

	done := lc.Builder.NewBlock()

	err := eng.lowerGenerator(lc, lcomp.Generators, 0, done, func() error {
		elt, err := eng.LowerExpr(lc, lcomp.Elt)
		if err != nil {
			return err
		}

		ret := lc.Builder.NewBlock(ir.ValueT())
		lc.Builder.Invoke(appendMethod, []*ir.Value{elt}, nil, ret, lc.LandingPad())

		return nil
	})

	lc.Builder.SetCurrentBlock(done)
	lc.Cells = savedCells
	lc.ScopeValue = savedScope

	if err != nil {
		return nil, err
	}

	return list, nil
}

// lowerGenerator lowers generators[i:], invoking body once per innermost
// iteration (§4.6 steps 1-7). done is the exit block this generator's
// StopIteration branches to: for the outermost generator that is the
// comprehension's overall done block; for every inner generator it is the
// immediately enclosing generator's own next_block, so the outer loop's
// iteration resumes correctly once the inner one is exhausted.
func (eng *Engine) lowerGenerator(
	lc *LoweringContext, generators []*ast.Comprehension, i int, done *ir.Block, body func() error,
) error {
	gen := generators[i]

	scope, ok := eng.Scopes[gen]
	if !ok {
		return eng.malformed(gen.Span(), "comprehension generator missing scope analysis")
	}

	if len(gen.Ifs) > 0 {
		return eng.unsupported(gen.Ifs[0].Span(), "comprehension if-clauses are not supported")
	}

	iterable, err := eng.LowerExpr(lc, gen.Iter)
	if err != nil {
		return err
	}

	iterMethod := lc.Builder.GetMethod(iterable, "__iter__")
	iterRet := lc.Builder.NewBlock(ir.ValueT())
	iterator := lc.Builder.Invoke(iterMethod, nil, nil, iterRet, lc.LandingPad())
	nextMethod := lc.Builder.GetMethod(iterator, "__next__")

	nr, nextBlk := eng.invokeNext(lc, nextMethod, done)
	lc.Builder.SetCurrentBlock(nr.Block)

	lc.Cells = lc.Cells.Clone()

	cells := make([]*ir.Value, 0, len(scope.Locals))
	names := make([]string, 0, len(scope.Locals))

	for _, name := range scope.Locals {
		cell := lc.Builder.CellAlloc(name)
		lc.Cells[name] = cell
		cells = append(cells, cell)
		names = append(names, name)
	}

	lc.ScopeValue = lc.Builder.ScopeExtend(lc.ScopeValue, names, cells)

	if err := eng.AssignLHS(lc, gen.Target, nr.Value); err != nil {
		return err
	}

	// Only the innermost generator branches back to its own nextBlk: an
	// outer generator's re-advance happens when the nested generator's
	// iterator raises StopIteration, whose except block already targets
	// done (= this generator's nextBlk, passed down as the recursive
	// call's done argument). An unconditional Br here would append a
	// second terminator to whatever block the innermost frame's Br just
	// terminated.
	if i+1 < len(generators) {
		return eng.lowerGenerator(lc, generators, i+1, nextBlk, body)
	}

	if err := body(); err != nil {
		return err
	}

	lc.Builder.Br(nextBlk)

	return nil
}
