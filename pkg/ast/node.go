// Package ast defines the node taxonomy this frontend lowers from. AST
// construction itself is out of scope (§1 of the spec): a host parser is
// assumed to produce these nodes with the same shape. pkg/pyparse supplies
// one concrete such parser for a deliberately limited source subset, but
// pkg/frontend never imports it — only this package.
package ast

import "github.com/scriptlang/pyfrontend/pkg/source"

// Node is implemented by every AST node. Every concrete node type is used
// exclusively through pointers, so a Node value's identity (its address) is
// stable and suitable as a map key — this is how the Scope Analyzer's
// ScopeMap is keyed (§3: "Each node carries a stable identity").
type Node interface {
	// Span returns the source range this node covers.
	Span() source.Span
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Module is the root of a parsed source file: a flat sequence of top-level
// statements, lowered by the Module Driver into a single script_main
// function (§4.7 Module Driver).
type Module struct {
	Body []Stmt
	Sp   source.Span
}

// Span implements Node.
func (n *Module) Span() source.Span { return n.Sp }
