package frontend

import (
	"fmt"
	"strconv"

	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/ir"
	"github.com/scriptlang/pyfrontend/pkg/source"
)

// Engine bundles the frontend's module-wide, side-effect-free state: the
// builtin registry, the Scope Analyzer's output, the shared name
// allocator, and the IR module/context being built into. One Engine
// drives the lowering of exactly one source file (§4 components 1-3 plus
// the IR handles the rest of the components write into).
type Engine struct {
	Registry *BuiltinRegistry
	Scopes   ScopeMap
	Names    *NameAllocator
	File     *source.File
	Module   *ir.Module
	Ctx      *ir.Context
}

// binaryTable and unaryTable are the §4.5 typed operator tables: source
// spelling to IR opcode name. An operator outside these tables is not a
// fatal error — it recovers via the `undefined` placeholder plus a logged
// diagnostic (§7).
var binaryTable = map[string]string{
	"+": "add", "-": "sub", "*": "mul", "/": "div", "//": "floordiv",
	"%": "mod", "**": "pow", "@": "matmul",
	"<<": "lshift", ">>": "rshift",
	"|": "bitor", "^": "bitxor", "&": "bitand",
}

var unaryTable = map[string]string{
	"+": "pos", "-": "neg", "~": "invert", "not": "not_",
}

var compareTable = map[string]string{
	"==": "eq", "!=": "ne", "<": "lt", "<=": "le", ">": "gt", ">=": "ge",
	"is": "is", "is not": "is_not", "in": "in", "not in": "not_in",
}

// LowerExpr dispatches e to its §4.5/§4.6 lowering rule, returning the
// value it computes to.
func (eng *Engine) LowerExpr(lc *LoweringContext, e ast.Expr) (*ir.Value, error) {
	switch e := e.(type) {
	case *ast.Constant:
		return eng.lowerConstant(lc, e)
	case *ast.Name:
		return eng.lowerName(lc, e)
	case *ast.Attribute:
		return eng.lowerAttribute(lc, e)
	case *ast.Subscript:
		return eng.lowerSubscript(lc, e)
	case *ast.Tuple:
		vals, err := eng.lowerElements(lc, e.Elts)
		if err != nil {
			return nil, err
		}

		return lc.Builder.Tuple(vals), nil
	case *ast.List:
		vals, err := eng.lowerElements(lc, e.Elts)
		if err != nil {
			return nil, err
		}

		return lc.Builder.List(vals), nil
	case *ast.UnaryOp:
		return eng.lowerUnaryOp(lc, e)
	case *ast.BinOp:
		return eng.lowerBinOp(lc, e)
	case *ast.Compare:
		return eng.lowerCompare(lc, e)
	case *ast.Call:
		return eng.lowerCall(lc, e)
	case *ast.FormattedValue:
		return eng.lowerFormattedValue(lc, e)
	case *ast.JoinedStr:
		return eng.lowerJoinedStr(lc, e)
	case *ast.Lambda:
		return eng.lowerLambda(lc, e)
	case *ast.ListComp:
		return eng.lowerListComp(lc, e)
	case *ast.GeneratorExp:
		eng.warnUndefined(e.Span(), "generator expressions are not supported")
		return lc.Builder.Undefined(), nil
	case *ast.Slice:
		return nil, eng.malformed(e.Span(), "slice used outside of a subscript")
	default:
		return nil, eng.malformed(e.Span(), "unknown expression node")
	}
}

func (eng *Engine) lowerElements(lc *LoweringContext, elts []ast.Expr) ([]*ir.Value, error) {
	vals := make([]*ir.Value, 0, len(elts))

	for _, e := range elts {
		v, err := eng.LowerExpr(lc, e)
		if err != nil {
			return nil, err
		}

		vals = append(vals, v)
	}

	return vals, nil
}

// lowerConstant implements §4.5 "Constant": a string literal lowers
// directly to str_lit; an integer literal takes the s64_lit fast path
// when it fits a signed 64-bit value, falling back to the arbitrary-
// precision int_lit form otherwise (§9 "Large integer literals").
func (eng *Engine) lowerConstant(lc *LoweringContext, c *ast.Constant) (*ir.Value, error) {
	switch c.Kind {
	case ast.StringConstant:
		return lc.Builder.StrLit(c.Str), nil
	case ast.IntConstant:
		if n, ok := parseS64(c.Str); ok {
			return lc.Builder.S64Lit(n), nil
		}

		return lc.Builder.IntLit(c.Str), nil
	default:
		return nil, eng.unsupported(c.Span(), "unsupported constant kind")
	}
}

func (eng *Engine) lowerName(lc *LoweringContext, n *ast.Name) (*ir.Value, error) {
	if cell, ok := lc.Cells[n.Id]; ok {
		return lc.Builder.CellLoad(cell), nil
	}

	if irName, ok := eng.Registry.Resolve(n.Id); ok {
		return lc.Builder.Builtin(irName), nil
	}

	return nil, eng.unresolvedName(n)
}

// lowerAttribute implements `value.attr` as `invoke(getattr(value, "attr"))`
// (§4.5 "Attribute (load)").
func (eng *Engine) lowerAttribute(lc *LoweringContext, a *ast.Attribute) (*ir.Value, error) {
	v, err := eng.LowerExpr(lc, a.Value)
	if err != nil {
		return nil, err
	}

	getattr := lc.Builder.Builtin("getattr")
	attrName := lc.Builder.StrLit(a.Attr)
	ret := lc.Builder.NewBlock(ir.ValueT())

	return lc.Builder.Invoke(getattr, []*ir.Value{v, attrName}, nil, ret, lc.LandingPad()), nil
}

// lowerSubscript implements `value[index]` as
// `invoke(get_method(value, "__getitem__")(index))` (§4.5 "Subscript
// (load)"), lowering a *ast.Slice index through the dedicated slice
// builtin dispatch of lowerSlice.
func (eng *Engine) lowerSubscript(lc *LoweringContext, s *ast.Subscript) (*ir.Value, error) {
	v, err := eng.LowerExpr(lc, s.Value)
	if err != nil {
		return nil, err
	}

	var idx *ir.Value

	if sl, ok := s.Index.(*ast.Slice); ok {
		idx, err = eng.lowerSlice(lc, sl)
	} else {
		idx, err = eng.LowerExpr(lc, s.Index)
	}

	if err != nil {
		return nil, err
	}

	method := lc.Builder.GetMethod(v, "__getitem__")
	ret := lc.Builder.NewBlock(ir.ValueT())

	return lc.Builder.Invoke(method, []*ir.Value{idx}, nil, ret, lc.LandingPad()), nil
}

// lowerSlice dispatches to the 1-, 2-, or 3-argument form of the IR slice
// builtin depending on which of lower/upper/step are present (§4.5
// "Slice"): the 1-arg form applies only when exactly the upper bound is
// given; any omitted bound that does appear in a multi-arg form lowers to
// `none`.
func (eng *Engine) lowerSlice(lc *LoweringContext, s *ast.Slice) (*ir.Value, error) {
	sliceBuiltin := lc.Builder.Builtin("slice")

	noneable := func(e ast.Expr) (*ir.Value, error) {
		if e == nil {
			return lc.Builder.None(), nil
		}

		return eng.LowerExpr(lc, e)
	}

	var args []*ir.Value

	switch {
	case s.Step != nil:
		lo, err := noneable(s.Lower)
		if err != nil {
			return nil, err
		}

		up, err := noneable(s.Upper)
		if err != nil {
			return nil, err
		}

		st, err := eng.LowerExpr(lc, s.Step)
		if err != nil {
			return nil, err
		}

		args = []*ir.Value{lo, up, st}

	case s.Lower != nil:
		lo, err := eng.LowerExpr(lc, s.Lower)
		if err != nil {
			return nil, err
		}

		up, err := noneable(s.Upper)
		if err != nil {
			return nil, err
		}

		args = []*ir.Value{lo, up}

	case s.Upper != nil:
		up, err := eng.LowerExpr(lc, s.Upper)
		if err != nil {
			return nil, err
		}

		args = []*ir.Value{up}

	default:
		lo, _ := noneable(nil)
		up, _ := noneable(nil)
		args = []*ir.Value{lo, up}
	}

	ret := lc.Builder.NewBlock(ir.ValueT())

	return lc.Builder.Invoke(sliceBuiltin, args, nil, ret, lc.LandingPad()), nil
}

func (eng *Engine) lowerUnaryOp(lc *LoweringContext, u *ast.UnaryOp) (*ir.Value, error) {
	operand, err := eng.LowerExpr(lc, u.Operand)
	if err != nil {
		return nil, err
	}

	opcode, ok := unaryTable[u.Op]
	if !ok {
		eng.warnUndefined(u.Span(), fmt.Sprintf("unknown unary operator %q", u.Op))
		return lc.Builder.Undefined(), nil
	}

	ret := lc.Builder.NewBlock(ir.ValueT())

	return lc.Builder.UnaryOp(opcode, operand, ret, lc.LandingPad()), nil
}

func (eng *Engine) lowerBinOp(lc *LoweringContext, bo *ast.BinOp) (*ir.Value, error) {
	lhs, err := eng.LowerExpr(lc, bo.Left)
	if err != nil {
		return nil, err
	}

	rhs, err := eng.LowerExpr(lc, bo.Right)
	if err != nil {
		return nil, err
	}

	opcode, ok := binaryTable[bo.Op]
	if !ok {
		eng.warnUndefined(bo.Span(), fmt.Sprintf("unknown binary operator %q", bo.Op))
		return lc.Builder.Undefined(), nil
	}

	ret := lc.Builder.NewBlock(ir.ValueT())

	return lc.Builder.BinaryOp(opcode, lhs, rhs, ret, lc.LandingPad()), nil
}

// lowerCompare lowers a (possibly chained) comparison left-to-right: each
// `a op b` link is itself a fallible binary op through the shared landing
// pad, with b becoming the next link's a (§4.5 "Compare").
func (eng *Engine) lowerCompare(lc *LoweringContext, c *ast.Compare) (*ir.Value, error) {
	left, err := eng.LowerExpr(lc, c.Left)
	if err != nil {
		return nil, err
	}

	if len(c.Ops) == 0 {
		return left, nil
	}

	var result *ir.Value

	for i, op := range c.Ops {
		right, err := eng.LowerExpr(lc, c.Comparators[i])
		if err != nil {
			return nil, err
		}

		opcode, ok := compareTable[op]
		if !ok {
			eng.warnUndefined(c.Span(), fmt.Sprintf("unknown comparison operator %q", op))
			result = lc.Builder.Undefined()
		} else {
			ret := lc.Builder.NewBlock(ir.ValueT())
			result = lc.Builder.BinaryOp(opcode, left, right, ret, lc.LandingPad())
		}

		left = right
	}

	return result, nil
}

// lowerCall lowers callee and positional arguments left-to-right, then
// keyword arguments left-to-right, appending each keyword's value to the
// positional operand list and its name to the keyword-name attribute
// array, and finally invokes (§4.5 "Call").
func (eng *Engine) lowerCall(lc *LoweringContext, call *ast.Call) (*ir.Value, error) {
	callee, err := eng.LowerExpr(lc, call.Func)
	if err != nil {
		return nil, err
	}

	args, err := eng.lowerElements(lc, call.Args)
	if err != nil {
		return nil, err
	}

	var kwNames []string

	for _, kw := range call.Keywords {
		v, err := eng.LowerExpr(lc, kw.Value)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
		kwNames = append(kwNames, kw.Name)
	}

	ret := lc.Builder.NewBlock(ir.ValueT())

	return lc.Builder.Invoke(callee, args, kwNames, ret, lc.LandingPad()), nil
}

// lowerFormattedValue implements one `{value}`/`{value:spec}` f-string hole
// as `invoke(get_method(value, "__format__")(spec))` (§4.5
// "FormattedValue"). A non-zero Conversion (!r/!s/!a) is unsupported.
func (eng *Engine) lowerFormattedValue(lc *LoweringContext, fv *ast.FormattedValue) (*ir.Value, error) {
	if fv.Conversion != 0 {
		return nil, eng.unsupported(fv.Span(), "f-string conversion fields are not supported")
	}

	v, err := eng.LowerExpr(lc, fv.Value)
	if err != nil {
		return nil, err
	}

	var spec *ir.Value

	if fv.FormatSpec != nil {
		spec, err = eng.LowerExpr(lc, fv.FormatSpec)
		if err != nil {
			return nil, err
		}
	} else {
		spec = lc.Builder.None()
	}

	method := lc.Builder.GetMethod(v, "__format__")
	ret := lc.Builder.NewBlock(ir.ValueT())

	return lc.Builder.Invoke(method, []*ir.Value{spec}, nil, ret, lc.LandingPad()), nil
}

func (eng *Engine) lowerJoinedStr(lc *LoweringContext, j *ast.JoinedStr) (*ir.Value, error) {
	parts := make([]*ir.Value, 0, len(j.Parts))

	for _, p := range j.Parts {
		v, err := eng.LowerExpr(lc, p)
		if err != nil {
			return nil, err
		}

		parts = append(parts, v)
	}

	return lc.Builder.FormattedString(parts), nil
}

// lowerLambda implements §4.4's closure construction for an anonymous
// function: a fresh IR function is built from the Lambda's own
// VariableScope, its single expression body lowered, and a closure value
// constructed at the definition site in the parent's lowering context.
func (eng *Engine) lowerLambda(lc *LoweringContext, lam *ast.Lambda) (*ir.Value, error) {
	scope, ok := eng.Scopes[lam]
	if !ok {
		return nil, eng.malformed(lam.Span(), "lambda missing scope analysis")
	}

	symbol := eng.Names.Fresh("lambda")

	paramTypes := make([]ir.Type, 0, len(lam.Params)+len(scope.Free))
	for range lam.Params {
		paramTypes = append(paramTypes, ir.ValueT())
	}

	for range scope.Free {
		paramTypes = append(paramTypes, ir.CellT())
	}

	fn := eng.Module.NewFunction(symbol, paramTypes...)
	childBuilder := ir.NewBuilder(eng.Ctx, fn)
	childLC := EnterFunction(childBuilder, scope, len(lam.Params))

	bodyVal, err := eng.LowerExpr(childLC, lam.Body)
	if err != nil {
		return nil, err
	}

	childBuilder.Return(childBuilder.MkReturn(bodyVal))

	return BuildClosure(lc.Builder, symbol, scope, lc.Cells), nil
}

// parseS64 reports whether decimal fits in a signed 64-bit integer.
func parseS64(decimal string) (int64, bool) {
	n, err := strconv.ParseInt(decimal, 10, 64)
	return n, err == nil
}
