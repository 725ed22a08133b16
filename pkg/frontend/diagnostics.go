package frontend

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/source"
)

// warnUndefined logs the non-fatal recovery path of §7: an unknown
// operator class, or an unsupported generator expression, does not abort
// lowering — it emits an `undefined` IR value and continues, so a single
// run can surface more than one such problem.
func (eng *Engine) warnUndefined(span source.Span, what string) {
	pos := eng.File.PositionOf(span.Start())
	log.Warnf("%s: %s; emitting undefined", pos, what)
}

// unsupported constructs a fatal "unsupported construct" diagnostic (§7
// kind 1): a shape the grammar allows but this frontend deliberately does
// not lower (unsupported constant kinds, f-string conversion fields,
// comprehension if-clauses, ...).
func (eng *Engine) unsupported(span source.Span, msg string) error {
	return source.NewSyntaxError(eng.File, span, "unsupported construct: "+msg)
}

// malformed constructs a fatal "malformed input" diagnostic (§7 kind 3): a
// shape that should never arise from a well-formed AST at all.
func (eng *Engine) malformed(span source.Span, msg string) error {
	return source.NewSyntaxError(eng.File, span, "malformed input: "+msg)
}

// unresolvedName constructs the "unresolved name" diagnostic (§7 kind 2)
// for a name the Cell Allocator cannot find in either the cell map or the
// builtin registry. The Module Driver's own pre-pass (driver.go) rejects
// every module-level free variable before lowering begins, so reaching
// this from inside a function body would indicate a Scope Analyzer defect
// rather than a problem with the input program.
func (eng *Engine) unresolvedName(n *ast.Name) error {
	return source.NewSyntaxError(eng.File, n.Sp, fmt.Sprintf("unresolved name %q", n.Id))
}
