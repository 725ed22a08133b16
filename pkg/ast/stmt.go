package ast

import "github.com/scriptlang/pyfrontend/pkg/source"

// Assign is a single-target assignment `target = value`. Multi-target
// chained assignment (`a = b = e`) is rejected by the parser (§9: "an
// intentional restriction").
type Assign struct {
	Target Expr
	Value  Expr
	Sp     source.Span
}

func (n *Assign) Span() source.Span { return n.Sp }
func (n *Assign) stmtNode()         {}

// AugAssign is `target op= value`. Lowering currently treats this as a
// no-op placeholder (§4.7, §9 "Augmented assignment" open item).
type AugAssign struct {
	Target Expr
	Op     string
	Value  Expr
	Sp     source.Span
}

func (n *AugAssign) Span() source.Span { return n.Sp }
func (n *AugAssign) stmtNode()         {}

// ExprStmt is a bare expression evaluated for effect, its value discarded.
type ExprStmt struct {
	Value Expr
	Sp    source.Span
}

func (n *ExprStmt) Span() source.Span { return n.Sp }
func (n *ExprStmt) stmtNode()         {}

// If is `if test: body else: orelse`. Orelse is empty for a bare `if`, and
// an `elif` chain is represented as a single-statement Orelse containing a
// nested *If (mirroring how a real Python parser desugars elif).
type If struct {
	Test         Expr
	Body, Orelse []Stmt
	Sp           source.Span
}

func (n *If) Span() source.Span { return n.Sp }
func (n *If) stmtNode()         {}

// While is `while test: body`. An `else` clause is unsupported (§4.7) and is
// rejected by the parser rather than represented here.
type While struct {
	Test Expr
	Body []Stmt
	Sp   source.Span
}

func (n *While) Span() source.Span { return n.Sp }
func (n *While) stmtNode()         {}

// For is `for target in iter: body`. An `else` clause is unsupported and
// rejected by the parser.
type For struct {
	Target Expr
	Iter   Expr
	Body   []Stmt
	Sp     source.Span
}

func (n *For) Span() source.Span { return n.Sp }
func (n *For) stmtNode()         {}

// Param is one function/lambda parameter. A non-nil Default is a malformed
// input (§7 kind 3: "a parameter with a default value"), caught by the
// parser.
type Param struct {
	Name    string
	Default Expr
}

// FunctionDef is `def name(params): body`.
type FunctionDef struct {
	Name   string
	Params []Param
	Body   []Stmt
	Sp     source.Span
}

func (n *FunctionDef) Span() source.Span { return n.Sp }
func (n *FunctionDef) stmtNode()         {}

// ImportAlias is one `name [as asname]` clause of an Import.
type ImportAlias struct {
	Name   string
	AsName string
	NameSp source.Span
}

// Import is `import name1 [as a1], name2 [as a2], ...`.
type Import struct {
	Names []ImportAlias
	Sp    source.Span
}

func (n *Import) Span() source.Span { return n.Sp }
func (n *Import) stmtNode()         {}

// Return is `return [value]`. Value is nil for a bare return.
type Return struct {
	Value Expr
	Sp    source.Span
}

func (n *Return) Span() source.Span { return n.Sp }
func (n *Return) stmtNode()         {}

// WithItem is one `context_expr [as optional_vars]` clause of a With.
type WithItem struct {
	ContextExpr  Expr
	OptionalVars Expr
}

// With is `with item1, item2, ...: body`.
type With struct {
	Items []WithItem
	Body  []Stmt
	Sp    source.Span
}

func (n *With) Span() source.Span { return n.Sp }
func (n *With) stmtNode()         {}
