package frontend

import (
	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/source"
	"github.com/scriptlang/pyfrontend/pkg/util"
)

// VariableScope records, for one scope-introducing AST node (a Lambda, a
// FunctionDef, or one generator of a comprehension), the names it defines
// locally and the free names it captures from an enclosing scope, both in
// first-occurrence order (§3). The Cell Allocator depends on that order:
// it determines both cell-allocation order and, for Free, the closure
// capture-argument order (§9).
type VariableScope struct {
	Locals []string
	Free   []string
}

// ScopeMap maps a scope-introducing AST node to the VariableScope the Scope
// Analyzer computed for it.
type ScopeMap map[ast.Node]*VariableScope

// refSet is an ordered set of referenced-but-not-yet-defined names that
// additionally remembers the span of each name's first occurrence, so a
// name still unresolved once it bubbles all the way to module scope can be
// reported with precise source coordinates (§7 kind 2, §8 scenario 6).
type refSet struct {
	order []string
	spans map[string]source.Span
}

func newRefSet() *refSet {
	return &refSet{spans: make(map[string]source.Span)}
}

func (r *refSet) Contains(name string) bool {
	_, ok := r.spans[name]
	return ok
}

func (r *refSet) Add(name string, sp source.Span) {
	if r.Contains(name) {
		return
	}

	r.spans[name] = sp
	r.order = append(r.order, name)
}

func (r *refSet) Remove(name string) {
	if !r.Contains(name) {
		return
	}

	delete(r.spans, name)

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *refSet) Names() []string { return r.order }

func (r *refSet) Span(name string) source.Span { return r.spans[name] }

// analyzer is one activation of the Scope Analyzer (§4.3): a recursive AST
// walker maintaining the two ordered sets of an active scope.
type analyzer struct {
	registry   *BuiltinRegistry
	scopeMap   ScopeMap
	file       *source.File
	locals     *util.OrderedSet
	references *refSet
	errs       []*source.SyntaxError
}

func newAnalyzer(registry *BuiltinRegistry, scopeMap ScopeMap, file *source.File) *analyzer {
	return &analyzer{
		registry:   registry,
		scopeMap:   scopeMap,
		file:       file,
		locals:     util.NewOrderedSet(),
		references: newRefSet(),
	}
}

func (a *analyzer) unsupported(span source.Span, msg string) {
	a.errs = append(a.errs, source.NewSyntaxError(a.file, span, "unsupported construct: "+msg))
}

func (a *analyzer) malformed(span source.Span, msg string) {
	a.errs = append(a.errs, source.NewSyntaxError(a.file, span, "malformed input: "+msg))
}

// reference records a read of name at span (§4.3 "Reference"): once it is
// already a local, already pending as a reference, or resolves to a
// builtin, nothing changes.
func (a *analyzer) reference(name string, span source.Span) {
	if a.locals.Contains(name) {
		return
	}

	if _, ok := a.registry.Resolve(name); ok {
		return
	}

	a.references.Add(name, span)
}

// define records a write of name (§4.3 "Definition"): it joins locals, and
// is removed from references if it was pending there.
func (a *analyzer) define(name string) {
	a.locals.Add(name)
	a.references.Remove(name)
}

// defineTarget defines every name bound by an assignment-style target:
// a bare name, or (recursively) a tuple of such targets (§3 "including
// tuple-unpacking"). Anything else is a malformed shape (§7 kind 3).
func (a *analyzer) defineTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Name:
		a.define(t.Id)
	case *ast.Tuple:
		for _, el := range t.Elts {
			a.defineTarget(el)
		}
	default:
		a.malformed(target.Span(), "assignment target must be a name or a tuple of names")
	}
}

// visitTarget dispatches an assignment-style target to the right rule:
// subscript targets are visited as reads without defining anything (§4.3
// "Subscript assignment"), attribute targets are unsupported (§4.3
// "Attribute assignment"), and everything else goes through defineTarget.
func (a *analyzer) visitTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Subscript:
		a.visitExpr(t.Value)
		a.visitExpr(t.Index)
	case *ast.Attribute:
		a.unsupported(t.Span(), "attribute assignment is not supported")
	default:
		a.defineTarget(target)
	}
}

func (a *analyzer) paramNames(params []ast.Param) []string {
	names := make([]string, 0, len(params))

	for _, p := range params {
		if p.Default != nil {
			a.malformed(p.Default.Span(), "parameters may not have default values")
		}

		names = append(names, p.Name)
	}

	return names
}

// analyzeChild runs a fresh analyzer over a nested scope (lambda,
// function-def body, or comprehension generator), records its
// VariableScope under node's identity, and bubbles every name the child
// left free up into this (enclosing) scope as a reference (§4.3 "Nested
// scopes").
func (a *analyzer) analyzeChild(node ast.Node, params []string, bodyStmts []ast.Stmt, bodyExpr ast.Expr) {
	child := newAnalyzer(a.registry, a.scopeMap, a.file)

	for _, p := range params {
		child.define(p)
	}

	for _, s := range bodyStmts {
		child.visitStmt(s)
	}

	if bodyExpr != nil {
		child.visitExpr(bodyExpr)
	}

	a.scopeMap[node] = &VariableScope{Locals: child.locals.Items(), Free: child.references.Names()}

	for _, name := range child.references.Names() {
		a.reference(name, child.references.Span(name))
	}

	a.errs = append(a.errs, child.errs...)
}

func (a *analyzer) visitExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Constant:
		// no names referenced
	case *ast.Name:
		a.reference(e.Id, e.Sp)
	case *ast.Attribute:
		a.visitExpr(e.Value)
	case *ast.Subscript:
		a.visitExpr(e.Value)
		a.visitExpr(e.Index)
	case *ast.Slice:
		if e.Lower != nil {
			a.visitExpr(e.Lower)
		}

		if e.Upper != nil {
			a.visitExpr(e.Upper)
		}

		if e.Step != nil {
			a.visitExpr(e.Step)
		}
	case *ast.Tuple:
		for _, el := range e.Elts {
			a.visitExpr(el)
		}
	case *ast.List:
		for _, el := range e.Elts {
			a.visitExpr(el)
		}
	case *ast.UnaryOp:
		a.visitExpr(e.Operand)
	case *ast.BinOp:
		a.visitExpr(e.Left)
		a.visitExpr(e.Right)
	case *ast.Compare:
		a.visitExpr(e.Left)

		for _, c := range e.Comparators {
			a.visitExpr(c)
		}
	case *ast.Call:
		a.visitExpr(e.Func)

		for _, arg := range e.Args {
			a.visitExpr(arg)
		}

		for _, kw := range e.Keywords {
			a.visitExpr(kw.Value)
		}
	case *ast.FormattedValue:
		a.visitExpr(e.Value)

		if e.FormatSpec != nil {
			a.visitExpr(e.FormatSpec)
		}
	case *ast.JoinedStr:
		for _, p := range e.Parts {
			a.visitExpr(p)
		}
	case *ast.Lambda:
		a.analyzeChild(e, e.Params, nil, e.Body)
	case *ast.ListComp:
		a.visitComprehension(e.Generators, e.Elt)
	case *ast.GeneratorExp:
		// Deliberately left unanalyzed (§4.5: generator expressions lower
		// to `undefined` plus a non-fatal diagnostic, and never reach the
		// Cell Allocator). Visiting it here would let a name free only
		// inside its body bubble up as a module-scope reference and turn
		// a non-fatal construct into a fatal "Unknown variables" error.
	default:
		a.malformed(e.Span(), "unknown expression node")
	}
}

// visitComprehension implements the nested-scope-per-generator rule of
// §4.3: the first generator's iterable is visited in the outer (current)
// scope; every generator is itself a scope-introducing node.
func (a *analyzer) visitComprehension(generators []*ast.Comprehension, elt ast.Expr) {
	if len(generators) == 0 {
		return
	}

	a.visitExpr(generators[0].Iter)
	a.analyzeGeneratorChain(generators, 0, elt)
}

func (a *analyzer) analyzeGeneratorChain(generators []*ast.Comprehension, i int, elt ast.Expr) {
	gen := generators[i]
	child := newAnalyzer(a.registry, a.scopeMap, a.file)

	child.defineTarget(gen.Target)

	for _, ifExpr := range gen.Ifs {
		child.visitExpr(ifExpr)
	}

	if i+1 < len(generators) {
		// The next generator's iterable is visited in *this* (the
		// previous) inner scope.
		child.visitExpr(generators[i+1].Iter)
		child.analyzeGeneratorChain(generators, i+1, elt)
	} else {
		// elt is visited in the innermost scope.
		child.visitExpr(elt)
	}

	a.scopeMap[gen] = &VariableScope{Locals: child.locals.Items(), Free: child.references.Names()}

	for _, name := range child.references.Names() {
		a.reference(name, child.references.Span(name))
	}

	a.errs = append(a.errs, child.errs...)
}

func (a *analyzer) visitStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Assign:
		a.visitExpr(s.Value)
		a.visitTarget(s.Target)
	case *ast.AugAssign:
		// §4.3/§9: the spec deliberately omits the read-visit of the LHS
		// here, matching the no-op augmented-assign lowering (§4.7, §9).
		a.visitExpr(s.Value)
		a.visitTarget(s.Target)
	case *ast.ExprStmt:
		a.visitExpr(s.Value)
	case *ast.If:
		a.visitExpr(s.Test)

		for _, st := range s.Body {
			a.visitStmt(st)
		}

		for _, st := range s.Orelse {
			a.visitStmt(st)
		}
	case *ast.While:
		a.visitExpr(s.Test)

		for _, st := range s.Body {
			a.visitStmt(st)
		}
	case *ast.For:
		a.visitExpr(s.Iter)
		a.visitTarget(s.Target)

		for _, st := range s.Body {
			a.visitStmt(st)
		}
	case *ast.FunctionDef:
		a.define(s.Name)
		params := a.paramNames(s.Params)
		a.analyzeChild(s, params, s.Body, nil)
	case *ast.Import:
		for _, alias := range s.Names {
			name := alias.AsName
			if name == "" {
				name = alias.Name
			}

			a.define(name)
		}
	case *ast.Return:
		if s.Value != nil {
			a.visitExpr(s.Value)
		}
	case *ast.With:
		for _, item := range s.Items {
			a.visitExpr(item.ContextExpr)

			if item.OptionalVars != nil {
				a.visitTarget(item.OptionalVars)
			}
		}

		for _, st := range s.Body {
			a.visitStmt(st)
		}
	default:
		a.malformed(s.Span(), "unknown statement node")
	}
}

// AnalyzeModule runs the Scope Analyzer over a module's top-level
// statements (§4.7 Module Driver, step 1). It returns the module's own
// VariableScope (used to drive the Cell Allocator for script_main), the
// span of each name still free at module scope (for the "Unknown
// variables" diagnostic), the ScopeMap for every nested scope discovered,
// and any malformed-input/unsupported-construct errors collected along the
// way.
func AnalyzeModule(
	mod *ast.Module, registry *BuiltinRegistry, file *source.File,
) (root *VariableScope, freeSpans map[string]source.Span, scopeMap ScopeMap, errs []*source.SyntaxError) {
	scopeMap = make(ScopeMap)
	a := newAnalyzer(registry, scopeMap, file)

	for _, s := range mod.Body {
		a.visitStmt(s)
	}

	root = &VariableScope{Locals: a.locals.Items(), Free: a.references.Names()}
	freeSpans = make(map[string]source.Span, len(root.Free))

	for _, name := range root.Free {
		freeSpans[name] = a.references.Span(name)
	}

	return root, freeSpans, scopeMap, a.errs
}
