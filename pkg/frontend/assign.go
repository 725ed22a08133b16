package frontend

import (
	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/ir"
)

// AssignLHS implements assign_lhs (§4.9): storing an already-lowered value
// v into an assignment target. Name stores directly into the target's
// cell; Tuple asserts arity, extracts each element, and recurses;
// Subscript dispatches to array_set. Any other shape (most notably
// Attribute, whose load form *is* supported) is a fatal error.
func (eng *Engine) AssignLHS(lc *LoweringContext, target ast.Expr, v *ir.Value) error {
	switch t := target.(type) {
	case *ast.Name:
		cell, ok := lc.Cells[t.Id]
		if !ok {
			return eng.unresolvedName(t)
		}

		lc.Builder.CellStore(cell, v)

		return nil

	case *ast.Tuple:
		n := len(t.Elts)
		lc.Builder.TupleCheck(v, n)

		for i, el := range t.Elts {
			item := lc.Builder.TupleGet(v, i)

			if err := eng.AssignLHS(lc, el, item); err != nil {
				return err
			}
		}

		return nil

	case *ast.Subscript:
		a, err := eng.LowerExpr(lc, t.Value)
		if err != nil {
			return err
		}

		idx, err := eng.LowerExpr(lc, t.Index)
		if err != nil {
			return err
		}

		lc.Builder.ArraySet(a, idx, v)

		return nil

	default:
		return eng.malformed(target.Span(), "invalid assignment target")
	}
}
