package ast

import "github.com/scriptlang/pyfrontend/pkg/source"

// ConstantKind distinguishes the two source-level constant forms this
// frontend recognizes. Any other literal kind a host parser might produce
// (floats, complex numbers, bytes, ...) is rejected during lowering as an
// unsupported construct (§4.5 Expression Lowerer: "Other constant kinds are
// errors").
type ConstantKind int

const (
	// StringConstant is a quoted string literal.
	StringConstant ConstantKind = iota
	// IntConstant is a decimal integer literal, which may exceed the
	// signed-64-bit range.
	IntConstant
)

// Constant is a literal string or integer.
type Constant struct {
	Kind ConstantKind
	// Str holds the literal's text: the unescaped string value for
	// StringConstant, or the decimal digits (optionally "-" prefixed) for
	// IntConstant.
	Str string
	Sp  source.Span
}

func (n *Constant) Span() source.Span { return n.Sp }
func (n *Constant) exprNode()         {}

// Name is a bare identifier reference, resolved by the Scope Analyzer to
// either a local cell, a captured free variable, or a builtin.
type Name struct {
	Id string
	Sp source.Span
}

func (n *Name) Span() source.Span { return n.Sp }
func (n *Name) exprNode()         {}

// Attribute is a `value.attr` access. Only load context is supported; using
// an Attribute as an assignment target is rejected by assign_lhs (§4.9).
type Attribute struct {
	Value Expr
	Attr  string
	Sp    source.Span
}

func (n *Attribute) Span() source.Span { return n.Sp }
func (n *Attribute) exprNode()         {}

// Subscript is a `value[index]` access, where Index may be an ordinary
// expression or a *Slice.
type Subscript struct {
	Value Expr
	Index Expr
	Sp    source.Span
}

func (n *Subscript) Span() source.Span { return n.Sp }
func (n *Subscript) exprNode()         {}

// Slice represents `lower:upper:step` within a subscript. Any of the three
// may be nil, meaning omitted.
type Slice struct {
	Lower, Upper, Step Expr
	Sp                 source.Span
}

func (n *Slice) Span() source.Span { return n.Sp }
func (n *Slice) exprNode()         {}

// Tuple is a parenthesized, comma-separated expression list.
type Tuple struct {
	Elts []Expr
	Sp   source.Span
}

func (n *Tuple) Span() source.Span { return n.Sp }
func (n *Tuple) exprNode()         {}

// List is a bracketed expression list.
type List struct {
	Elts []Expr
	Sp   source.Span
}

func (n *List) Span() source.Span { return n.Sp }
func (n *List) exprNode()         {}

// UnaryOp applies one of +, -, ~, not to Operand.
type UnaryOp struct {
	Op      string
	Operand Expr
	Sp      source.Span
}

func (n *UnaryOp) Span() source.Span { return n.Sp }
func (n *UnaryOp) exprNode()         {}

// BinOp applies a binary operator from the §4.5 binary table to Left, Right.
type BinOp struct {
	Op          string
	Left, Right Expr
	Sp          source.Span
}

func (n *BinOp) Span() source.Span { return n.Sp }
func (n *BinOp) exprNode()         {}

// Compare is a (possibly chained) comparison `a op1 b op2 c ...`.
// len(Comparators) == len(Ops).
type Compare struct {
	Left        Expr
	Ops         []string
	Comparators []Expr
	Sp          source.Span
}

func (n *Compare) Span() source.Span { return n.Sp }
func (n *Compare) exprNode()         {}

// Keyword is one `name=value` keyword argument of a Call.
type Keyword struct {
	Name  string
	Value Expr
}

// Call is a function/callable invocation. Starred (`*args`) and
// double-starred (`**kwargs`) arguments are rejected by the parser; by the
// time the lowerer sees a Call, Args and Keywords are fully resolved.
type Call struct {
	Func     Expr
	Args     []Expr
	Keywords []Keyword
	Sp       source.Span
}

func (n *Call) Span() source.Span { return n.Sp }
func (n *Call) exprNode()         {}

// FormattedValue is one `{value}` or `{value:spec}` hole within an f-string.
// Conversion (!r/!s/!a) is unsupported; if non-zero it is rejected at
// lowering time.
type FormattedValue struct {
	Value      Expr
	FormatSpec Expr
	Conversion rune
	Sp         source.Span
}

func (n *FormattedValue) Span() source.Span { return n.Sp }
func (n *FormattedValue) exprNode()         {}

// JoinedStr is an f-string: a sequence of *Constant (string kind) and
// *FormattedValue parts, assembled at lowering time into one value.
type JoinedStr struct {
	Parts []Expr
	Sp    source.Span
}

func (n *JoinedStr) Span() source.Span { return n.Sp }
func (n *JoinedStr) exprNode()         {}

// Lambda is an anonymous single-expression function. Parameters may not
// carry default values (a malformed-input error if they do, caught by the
// parser before the lowerer ever sees this node).
type Lambda struct {
	Params []string
	Body   Expr
	Sp     source.Span
}

func (n *Lambda) Span() source.Span { return n.Sp }
func (n *Lambda) exprNode()         {}

// Comprehension is one `for target in iter [if cond]*` clause of a
// comprehension. Per §4.3, each Comprehension is itself a scope-introducing
// node: it gets its own VariableScope in the ScopeMap, nested inside the
// scope of the comprehension's preceding clause (or the enclosing scope, for
// the first clause). Ifs is only legal when empty (§4.6: "if-clauses ...
// are unsupported and fail").
type Comprehension struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
	Sp     source.Span
}

func (n *Comprehension) Span() source.Span { return n.Sp }
func (n *Comprehension) exprNode()         {}

// ListComp is `[elt for t1 in e1 [for t2 in e2 ...]]`.
type ListComp struct {
	Elt        Expr
	Generators []*Comprehension
	Sp         source.Span
}

func (n *ListComp) Span() source.Span { return n.Sp }
func (n *ListComp) exprNode()         {}

// GeneratorExp is `(elt for t1 in e1 ...)`. Recognized syntactically but
// unsupported at lowering time (§4.5: emits `undefined` with a diagnostic).
type GeneratorExp struct {
	Elt        Expr
	Generators []*Comprehension
	Sp         source.Span
}

func (n *GeneratorExp) Span() source.Span { return n.Sp }
func (n *GeneratorExp) exprNode()         {}
