package pyparse

import (
	"strings"

	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/source"
)

var compareSymbols = map[string]string{
	"==": "==", "!=": "!=", "<": "<", "<=": "<=", ">": ">", ">=": ">=",
}

// parseExprList parses a testlist: one expression, or several separated by
// commas (with an optional trailing comma), producing a bare *ast.Tuple
// when more than one element (or a trailing comma) was present.
func (p *Parser) parseExprList() (ast.Expr, error) {
	start := p.cur().Sp

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.atOp(",") {
		return first, nil
	}

	elts := []ast.Expr{first}

	for p.atOp(",") {
		p.advance()

		if p.kind() == NEWLINE || p.kind() == EOF || p.atOp(":") || p.atOp(")") || p.atOp("]") {
			break
		}

		next, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		elts = append(elts, next)
	}

	return &ast.Tuple{Elts: elts, Sp: p.spanFrom(start)}, nil
}

// parseExpr parses one non-tuple expression: a lambda, or the or_test
// precedence chain. This subset has no conditional expression
// (`a if b else c`): ast has no node for it, so the grammar does not accept
// the trailing `if ... else ...` form.
func (p *Parser) parseExpr() (ast.Expr, error) {
	if p.atKeyword("lambda") {
		return p.parseLambda()
	}

	return p.parseOrTest()
}

func (p *Parser) parseLambda() (ast.Expr, error) {
	start := p.advance().Sp // 'lambda'

	var params []string

	for !p.atOp(":") {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}

		if p.atOp("=") {
			return nil, p.malformed(p.cur().Sp, "lambda parameters may not have default values")
		}

		params = append(params, name.Text)

		if p.atOp(",") {
			p.advance()
			continue
		}

		break
	}

	if _, err := p.expectOp(":"); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.Lambda{Params: params, Body: body, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) parseOrTest() (ast.Expr, error) {
	start := p.cur().Sp

	left, err := p.parseAndTest()
	if err != nil {
		return nil, err
	}

	for p.atKeyword("or") {
		p.advance()

		right, err := p.parseAndTest()
		if err != nil {
			return nil, err
		}

		left = &ast.BinOp{Op: "or", Left: left, Right: right, Sp: p.spanFrom(start)}
	}

	return left, nil
}

func (p *Parser) parseAndTest() (ast.Expr, error) {
	start := p.cur().Sp

	left, err := p.parseNotTest()
	if err != nil {
		return nil, err
	}

	for p.atKeyword("and") {
		p.advance()

		right, err := p.parseNotTest()
		if err != nil {
			return nil, err
		}

		left = &ast.BinOp{Op: "and", Left: left, Right: right, Sp: p.spanFrom(start)}
	}

	return left, nil
}

func (p *Parser) parseNotTest() (ast.Expr, error) {
	if p.atKeyword("not") {
		start := p.advance().Sp

		operand, err := p.parseNotTest()
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Op: "not", Operand: operand, Sp: p.spanFrom(start)}, nil
	}

	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	start := p.cur().Sp

	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}

	var ops []string

	var comparators []ast.Expr

	for {
		op, ok, err := p.tryCompareOp()
		if err != nil {
			return nil, err
		}

		if !ok {
			break
		}

		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}

		ops = append(ops, op)
		comparators = append(comparators, right)
	}

	if len(ops) == 0 {
		return left, nil
	}

	return &ast.Compare{Left: left, Ops: ops, Comparators: comparators, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) tryCompareOp() (string, bool, error) {
	if p.kind() == OP {
		if sym, ok := compareSymbols[p.text()]; ok {
			p.advance()
			return sym, true, nil
		}

		return "", false, nil
	}

	if p.atKeyword("is") {
		p.advance()

		if p.atKeyword("not") {
			p.advance()
			return "is not", true, nil
		}

		return "is", true, nil
	}

	if p.atKeyword("in") {
		p.advance()
		return "in", true, nil
	}

	if p.atKeyword("not") {
		// Only valid here as the start of "not in"; a bare "not" belongs to
		// parseNotTest and is never reached with an operand already parsed.
		if p.toks[p.pos+1].Kind == NAME && p.toks[p.pos+1].Text == "in" {
			p.advance()
			p.advance()

			return "not in", true, nil
		}

		return "", false, nil
	}

	return "", false, nil
}

func (p *Parser) parseBinaryLevel(ops []string, next func() (ast.Expr, error)) (ast.Expr, error) {
	start := p.cur().Sp

	left, err := next()
	if err != nil {
		return nil, err
	}

	for {
		matched := ""

		if p.kind() == OP {
			for _, op := range ops {
				if p.text() == op {
					matched = op
					break
				}
			}
		}

		if matched == "" {
			return left, nil
		}

		p.advance()

		right, err := next()
		if err != nil {
			return nil, err
		}

		left = &ast.BinOp{Op: matched, Left: left, Right: right, Sp: p.spanFrom(start)}
	}
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.parseBinaryLevel([]string{"|"}, p.parseBitXor)
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.parseBinaryLevel([]string{"^"}, p.parseBitAnd)
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.parseBinaryLevel([]string{"&"}, p.parseShift)
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.parseBinaryLevel([]string{"<<", ">>"}, p.parseArith)
}

func (p *Parser) parseArith() (ast.Expr, error) {
	return p.parseBinaryLevel([]string{"+", "-"}, p.parseTerm)
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.parseBinaryLevel([]string{"*", "/", "//", "%", "@"}, p.parseFactor)
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	if p.kind() == OP && (p.text() == "+" || p.text() == "-" || p.text() == "~") {
		start := p.advance()

		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Op: start.Text, Operand: operand, Sp: p.spanFrom(start.Sp)}, nil
	}

	return p.parsePower()
}

func (p *Parser) parsePower() (ast.Expr, error) {
	start := p.cur().Sp

	base, err := p.parseAtomTrailers()
	if err != nil {
		return nil, err
	}

	if p.atOp("**") {
		p.advance()

		exp, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		return &ast.BinOp{Op: "**", Left: base, Right: exp, Sp: p.spanFrom(start)}, nil
	}

	return base, nil
}

func (p *Parser) parseAtomTrailers() (ast.Expr, error) {
	start := p.cur().Sp

	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.atOp("."):
			p.advance()

			name, err := p.expectName()
			if err != nil {
				return nil, err
			}

			expr = &ast.Attribute{Value: expr, Attr: name.Text, Sp: p.spanFrom(start)}

		case p.atOp("("):
			p.advance()

			args, kwargs, err := p.parseArgList()
			if err != nil {
				return nil, err
			}

			if _, err := p.expectOp(")"); err != nil {
				return nil, err
			}

			expr = &ast.Call{Func: expr, Args: args, Keywords: kwargs, Sp: p.spanFrom(start)}

		case p.atOp("["):
			p.advance()

			index, err := p.parseSubscriptIndex()
			if err != nil {
				return nil, err
			}

			if _, err := p.expectOp("]"); err != nil {
				return nil, err
			}

			expr = &ast.Subscript{Value: expr, Index: index, Sp: p.spanFrom(start)}

		default:
			return expr, nil
		}
	}
}

// parseArgList parses a Call's parenthesized argument list. `*args` and
// `**kwargs` are recognized (so they can be pointed at precisely) and
// rejected, matching ast.Call's documented invariant that by the time the
// lowerer sees a Call, its arguments are already fully resolved.
func (p *Parser) parseArgList() ([]ast.Expr, []ast.Keyword, error) {
	var args []ast.Expr

	var kwargs []ast.Keyword

	for !p.atOp(")") {
		if p.atOp("*") || p.atOp("**") {
			return nil, nil, p.unsupported(p.cur().Sp, "starred call arguments are not supported")
		}

		if p.kind() == NAME && !IsKeyword(p.text()) && p.toks[p.pos+1].Kind == OP && p.toks[p.pos+1].Text == "=" {
			name := p.advance()
			p.advance() // '='

			val, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}

			kwargs = append(kwargs, ast.Keyword{Name: name.Text, Value: val})
		} else {
			val, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}

			if len(kwargs) > 0 {
				return nil, nil, p.malformed(val.Span(), "positional argument follows keyword argument")
			}

			args = append(args, val)
		}

		if p.atOp(",") {
			p.advance()
			continue
		}

		break
	}

	return args, kwargs, nil
}

func (p *Parser) parseSubscriptIndex() (ast.Expr, error) {
	start := p.cur().Sp

	var lower, upper, step ast.Expr

	sawColon := false

	if !p.atOp(":") {
		var err error

		lower, err = p.parseOrTest()
		if err != nil {
			return nil, err
		}
	}

	if p.atOp(":") {
		sawColon = true

		p.advance()

		if !p.atOp(":") && !p.atOp("]") {
			var err error

			upper, err = p.parseOrTest()
			if err != nil {
				return nil, err
			}
		}

		if p.atOp(":") {
			p.advance()

			if !p.atOp("]") {
				var err error

				step, err = p.parseOrTest()
				if err != nil {
					return nil, err
				}
			}
		}
	}

	if !sawColon {
		return lower, nil
	}

	return &ast.Slice{Lower: lower, Upper: upper, Step: step, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	t := p.cur()

	switch {
	case t.Kind == NAME && (t.Text == "True" || t.Text == "False" || t.Text == "None"):
		p.advance()
		return &ast.Name{Id: t.Text, Sp: t.Sp}, nil

	case t.Kind == NAME && !IsKeyword(t.Text):
		p.advance()
		return &ast.Name{Id: t.Text, Sp: t.Sp}, nil

	case t.Kind == INT:
		p.advance()
		return &ast.Constant{Kind: ast.IntConstant, Str: t.Text, Sp: t.Sp}, nil

	case t.Kind == STRING:
		p.advance()
		return &ast.Constant{Kind: ast.StringConstant, Str: t.Text, Sp: t.Sp}, nil

	case t.Kind == FSTRING:
		p.advance()
		return p.buildFString(t.Text, t.Sp)

	case t.Kind == OP && t.Text == "(":
		return p.parseParenOrTupleOrGenexp()

	case t.Kind == OP && t.Text == "[":
		return p.parseListOrListComp()

	default:
		return nil, p.malformed(t.Sp, "expected an expression")
	}
}

func (p *Parser) parseParenOrTupleOrGenexp() (ast.Expr, error) {
	start := p.advance().Sp // '('

	if p.atOp(")") {
		p.advance()
		return &ast.Tuple{Elts: nil, Sp: p.spanFrom(start)}, nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.atKeyword("for") {
		generators, err := p.parseCompFor()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectOp(")"); err != nil {
			return nil, err
		}

		return &ast.GeneratorExp{Elt: first, Generators: generators, Sp: p.spanFrom(start)}, nil
	}

	if p.atOp(",") {
		elts := []ast.Expr{first}

		for p.atOp(",") {
			p.advance()

			if p.atOp(")") {
				break
			}

			next, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			elts = append(elts, next)
		}

		if _, err := p.expectOp(")"); err != nil {
			return nil, err
		}

		return &ast.Tuple{Elts: elts, Sp: p.spanFrom(start)}, nil
	}

	if _, err := p.expectOp(")"); err != nil {
		return nil, err
	}

	return first, nil
}

func (p *Parser) parseListOrListComp() (ast.Expr, error) {
	start := p.advance().Sp // '['

	if p.atOp("]") {
		p.advance()
		return &ast.List{Elts: nil, Sp: p.spanFrom(start)}, nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.atKeyword("for") {
		generators, err := p.parseCompFor()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectOp("]"); err != nil {
			return nil, err
		}

		return &ast.ListComp{Elt: first, Generators: generators, Sp: p.spanFrom(start)}, nil
	}

	elts := []ast.Expr{first}

	for p.atOp(",") {
		p.advance()

		if p.atOp("]") {
			break
		}

		next, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		elts = append(elts, next)
	}

	if _, err := p.expectOp("]"); err != nil {
		return nil, err
	}

	return &ast.List{Elts: elts, Sp: p.spanFrom(start)}, nil
}

// parseCompFor parses the `for t1 in e1 [if c1]* [for t2 in e2 ...]` tail of
// a comprehension, starting at its first `for` keyword (the caller leaves
// the cursor there after parsing the elt expression).
func (p *Parser) parseCompFor() ([]*ast.Comprehension, error) {
	var generators []*ast.Comprehension

	for p.atKeyword("for") {
		start := p.advance().Sp // 'for'

		target, err := p.parseExprList()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectKeyword("in"); err != nil {
			return nil, err
		}

		iter, err := p.parseOrTest()
		if err != nil {
			return nil, err
		}

		var ifs []ast.Expr

		for p.atKeyword("if") {
			p.advance()

			cond, err := p.parseOrTest()
			if err != nil {
				return nil, err
			}

			ifs = append(ifs, cond)
		}

		generators = append(generators, &ast.Comprehension{
			Target: target, Iter: iter, Ifs: ifs, Sp: p.spanFrom(start),
		})
	}

	return generators, nil
}

// buildFString splits raw f-string text into *ast.Constant and
// *ast.FormattedValue parts (§4.5's JoinedStr assembly). Each `{...}` hole
// is re-lexed and re-parsed as an independent expression via parseSubExpr;
// positions inside a hole are therefore reported relative to that
// sub-expression rather than the enclosing file — an accepted, documented
// limitation of this supplemental parser, not of the lowering core.
func (p *Parser) buildFString(raw string, sp source.Span) (ast.Expr, error) {
	runes := []rune(raw)

	var parts []ast.Expr

	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, &ast.Constant{Kind: ast.StringConstant, Str: lit.String(), Sp: sp})
			lit.Reset()
		}
	}

	i := 0

	for i < len(runes) {
		c := runes[i]

		if c == '\\' && i+1 < len(runes) && (runes[i+1] == '{' || runes[i+1] == '}') {
			lit.WriteRune(runes[i+1])
			i += 2

			continue
		}

		if c != '{' {
			lit.WriteRune(c)
			i++

			continue
		}

		flush()
		i++

		part, consumed, err := p.parseFStringHole(runes[i:], sp)
		if err != nil {
			return nil, err
		}

		parts = append(parts, part)
		i += consumed
	}

	flush()

	return &ast.JoinedStr{Parts: parts, Sp: sp}, nil
}

// parseFStringHole parses one `{expr[!conv][:spec]}` hole starting just
// after its opening brace, returning the number of runes consumed
// including the closing brace.
func (p *Parser) parseFStringHole(runes []rune, sp source.Span) (ast.Expr, int, error) {
	var hole, spec strings.Builder

	readingSpec := false
	conv := rune(0)
	depth := 1

	i := 0

	for i < len(runes) {
		ch := runes[i]

		switch ch {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--

			if depth == 0 {
				value, err := parseSubExpr(p.file, hole.String())
				if err != nil {
					return nil, 0, err
				}

				var specExpr ast.Expr
				if spec.Len() > 0 {
					specExpr = &ast.Constant{Kind: ast.StringConstant, Str: spec.String(), Sp: sp}
				}

				return &ast.FormattedValue{Value: value, FormatSpec: specExpr, Conversion: conv, Sp: sp}, i + 1, nil
			}
		}

		if depth == 1 && !readingSpec {
			if ch == '!' && conv == 0 && i+1 < len(runes) {
				conv = runes[i+1]
				i += 2

				continue
			}

			if ch == ':' {
				readingSpec = true
				i++

				continue
			}
		}

		if readingSpec {
			spec.WriteRune(ch)
		} else {
			hole.WriteRune(ch)
		}

		i++
	}

	return nil, 0, p.malformed(sp, "unterminated f-string expression")
}

// parseSubExpr parses a standalone expression from text taken out of a
// source file's f-string hole (see buildFString).
func parseSubExpr(file *source.File, text string) (ast.Expr, error) {
	sub := source.NewFile(file.Filename(), []byte(text))

	toks, err := Tokenize(sub)
	if err != nil {
		return nil, err
	}

	return NewParser(sub, toks).parseExprList()
}
