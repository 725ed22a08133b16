package ir

// This file implements the scripting dialect's operation builders (§6.2):
// cell and scope management, the fallible invoke/binary/unary protocol, the
// aggregate and literal constructors, and the handful of runtime-support
// ops (get_method, is_instance, truthy, mk_except, mk_return) the statement
// and expression lowerers compose into higher-level behavior.

const scriptDialect = "script"

func valueT() *Type { t := ValueT(); return &t }
func cellT() *Type  { t := CellT(); return &t }
func scopeT() *Type { t := ScopeT(); return &t }
func rvT() *Type    { t := ReturnValueT(); return &t }

// CellAlloc allocates a fresh, uninitialized cell for a local variable.
func (b *Builder) CellAlloc(name string) *Value {
	return b.op(scriptDialect, "cell_alloc", nil, []AttrEntry{{"name", StringAttr(name)}}, cellT()).Result()
}

// CellLoad reads the value currently stored in cell.
func (b *Builder) CellLoad(cell *Value) *Value {
	return b.op(scriptDialect, "cell_load", []*Value{cell}, nil, valueT()).Result()
}

// CellStore writes val into cell.
func (b *Builder) CellStore(cell, val *Value) *Operation {
	return b.op(scriptDialect, "cell_store", []*Value{cell, val}, nil, nil)
}

// ScopeInit creates the initial (module-level) scope value, with no parent
// and no bindings.
func (b *Builder) ScopeInit() *Value {
	return b.op(scriptDialect, "scope_init", nil, nil, scopeT()).Result()
}

// ScopeExtend binds names to cells onto parent, producing a new child scope
// value. len(names) must equal len(cells).
func (b *Builder) ScopeExtend(parent *Value, names []string, cells []*Value) *Value {
	operands := append([]*Value{parent}, cells...)
	attrs := []AttrEntry{{"names", ArrayAttr(names)}}

	return b.op(scriptDialect, "scope_extend", operands, attrs, scopeT()).Result()
}

// Invoke implements the fallible call protocol of §4.5.1: operands is
// [callee, positional args...]; kwNames (possibly empty) names the trailing
// len(kwNames) operands as keyword arguments, in the order they appear in
// operands. ret must be a fresh block with one ValueT argument; except is
// the function's landing pad.
func (b *Builder) Invoke(callee *Value, args []*Value, kwNames []string, ret, except *Block) *Value {
	operands := append([]*Value{callee}, args...)

	var attrs []AttrEntry
	if len(kwNames) > 0 {
		attrs = []AttrEntry{{"keywords", ArrayAttr(kwNames)}}
	}

	return b.Fallible(scriptDialect, "invoke", operands, attrs, ret, except)
}

// BinaryOp emits one of the fallible typed binary operators of the §4.5
// binary table (opcode is the typed op name, e.g. "add", "floordiv",
// "bitor").
func (b *Builder) BinaryOp(opcode string, lhs, rhs *Value, ret, except *Block) *Value {
	return b.Fallible(scriptDialect, opcode, []*Value{lhs, rhs}, nil, ret, except)
}

// UnaryOp emits one of the fallible typed unary operators of the §4.5
// unary table (opcode is the typed op name, e.g. "neg", "invert", "not_").
func (b *Builder) UnaryOp(opcode string, operand *Value, ret, except *Block) *Value {
	return b.Fallible(scriptDialect, opcode, []*Value{operand}, nil, ret, except)
}

// List constructs a list value from already-lowered element values. Called
// with nil/empty elts for a comprehension's initial empty accumulator
// (§4.6); called with the literal's elements for a `[a, b, c]` expression
// (§4.5).
func (b *Builder) List(elts []*Value) *Value {
	return b.op(scriptDialect, "list", elts, nil, valueT()).Result()
}

// Tuple constructs a tuple from already-lowered element values.
func (b *Builder) Tuple(elts []*Value) *Value {
	return b.op(scriptDialect, "tuple", elts, nil, valueT()).Result()
}

// TupleCheck asserts that v is a tuple of exactly n elements, used ahead of
// tuple-unpacking assignment (§4.9).
func (b *Builder) TupleCheck(v *Value, n int) *Operation {
	return b.op(scriptDialect, "tuple_check", []*Value{v}, []AttrEntry{{"arity", IntAttr(n)}}, nil)
}

// TupleGet extracts the i'th element of tuple v.
func (b *Builder) TupleGet(v *Value, i int) *Value {
	return b.op(scriptDialect, "tuple_get", []*Value{v}, []AttrEntry{{"index", IntAttr(i)}}, valueT()).Result()
}

// ArraySet implements `a[i] = v` (§4.9 subscript assignment target).
func (b *Builder) ArraySet(a, idx, v *Value) *Operation {
	return b.op(scriptDialect, "array_set", []*Value{a, idx, v}, nil, nil)
}

// StrLit constructs a string literal value.
func (b *Builder) StrLit(s string) *Value {
	return b.op(scriptDialect, "str_lit", nil, []AttrEntry{{"value", StringAttr(s)}}, valueT()).Result()
}

// S64Lit constructs a fast-path literal for an integer within the signed
// 64-bit range.
func (b *Builder) S64Lit(n int64) *Value {
	return b.op(scriptDialect, "s64_lit", nil, []AttrEntry{{"value", IntAttr(n)}}, valueT()).Result()
}

// IntLit constructs an arbitrary-precision integer literal from its decimal
// text (§4.5, §9 "Large integer literals").
func (b *Builder) IntLit(decimal string) *Value {
	return b.op(scriptDialect, "int_lit", nil, []AttrEntry{{"value", StringAttr(decimal)}}, valueT()).Result()
}

// None constructs the scripting dialect's "no value" constant, used both
// for a literal `None` and for omitted slice bounds and bare returns.
func (b *Builder) None() *Value {
	return b.op(scriptDialect, "none", nil, nil, valueT()).Result()
}

// Undefined constructs a placeholder value used where lowering encounters
// an unsupported operator class or construct it has chosen to recover from
// non-fatally (§7).
func (b *Builder) Undefined() *Value {
	return b.op(scriptDialect, "undefined", nil, nil, valueT()).Result()
}

// Builtin loads the value bound to a host builtin symbol, e.g.
// builtin("print").
func (b *Builder) Builtin(irName string) *Value {
	return b.op(scriptDialect, "builtin", nil, []AttrEntry{{"name", StringAttr(irName)}}, valueT()).Result()
}

// Module constructs a module value for an `import`.
func (b *Builder) Module(name string) *Value {
	return b.op(scriptDialect, "module", nil, []AttrEntry{{"name", StringAttr(name)}}, valueT()).Result()
}

// FunctionRef is the closure-value constructor (§4.4): it resolves a flat
// symbol reference to a sibling function and packages capturedCells (the
// child scope's free-variable cells, in the child's free-list order) into
// the resulting callable value, so a later generic `invoke` of that value
// can thread them into the callee's trailing cell parameters.
func (b *Builder) FunctionRef(name string, capturedCells []*Value) *Value {
	attrs := []AttrEntry{{"symbol", SymbolRefAttr(name)}}
	return b.op(scriptDialect, "function_ref", capturedCells, attrs, valueT()).Result()
}

// GetMethod performs (non-fallible) bound-method lookup, e.g. obtaining
// `__iter__`/`__next__`/`__enter__`/`__exit__`/`__format__`/`__getitem__`
// off a value ahead of invoking it.
func (b *Builder) GetMethod(v *Value, name string) *Value {
	return b.op(scriptDialect, "get_method", []*Value{v}, []AttrEntry{{"name", StringAttr(name)}}, valueT()).Result()
}

// FormattedString assembles already-lowered f-string parts into one string
// value.
func (b *Builder) FormattedString(parts []*Value) *Value {
	return b.op(scriptDialect, "formatted_string", parts, nil, valueT()).Result()
}

// IsInstance tests whether exc is an instance of the named exception type,
// used by invoke_next to distinguish StopIteration from other exceptions
// (§4.8).
func (b *Builder) IsInstance(v *Value, typeName string) *Value {
	return b.op(scriptDialect, "is_instance", []*Value{v}, []AttrEntry{{"type", StringAttr(typeName)}}, valueT()).Result()
}

// Truthy converts a value to the boolean condition a cond_br can branch on.
func (b *Builder) Truthy(v *Value) *Value {
	return b.op(scriptDialect, "truthy", []*Value{v}, nil, valueT()).Result()
}

// MkExcept wraps a thrown value as the function's exception-return
// discriminator (§4.10 landing pad).
func (b *Builder) MkExcept(v *Value) *Value {
	return b.op(scriptDialect, "mk_except", []*Value{v}, nil, rvT()).Result()
}

// MkReturn wraps a normal return payload as the function's return
// discriminator (§4.7 Return).
func (b *Builder) MkReturn(v *Value) *Value {
	return b.op(scriptDialect, "mk_return", []*Value{v}, nil, rvT()).Result()
}
