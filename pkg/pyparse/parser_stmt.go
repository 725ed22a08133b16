package pyparse

import (
	"strings"

	"github.com/scriptlang/pyfrontend/pkg/ast"
)

var augOps = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "//=": "//", "%=": "%",
	"**=": "**", "&=": "&", "|=": "|", "^=": "^", "<<=": "<<", ">>=": ">>", "@=": "@",
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atKeyword("while"):
		return p.parseWhile()
	case p.atKeyword("for"):
		return p.parseFor()
	case p.atKeyword("def"):
		return p.parseFunctionDef()
	case p.atKeyword("with"):
		return p.parseWith()
	case p.atKeyword("pass") || p.atKeyword("break") || p.atKeyword("continue"):
		return nil, p.unsupported(p.cur().Sp, "'"+p.text()+"' has no IR equivalent in this lowering")
	default:
		s, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}

		if err := p.expectNewline(); err != nil {
			return nil, err
		}

		return s, nil
	}
}

func (p *Parser) parseSimpleStmt() (ast.Stmt, error) {
	switch {
	case p.atKeyword("return"):
		return p.parseReturn()
	case p.atKeyword("import"):
		return p.parseImport()
	default:
		return p.parseExprOrAssignStmt()
	}
}

// parseBlock implements the usual `:` suite rule: either a single simple
// statement on the same line, or a newline followed by an indented run of
// one or more statements.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expectOp(":"); err != nil {
		return nil, err
	}

	if p.kind() != NEWLINE {
		s, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}

		if err := p.expectNewline(); err != nil {
			return nil, err
		}

		return []ast.Stmt{s}, nil
	}

	p.advance()

	if p.kind() != INDENT {
		return nil, p.malformed(p.cur().Sp, "expected an indented block")
	}

	p.advance()

	var body []ast.Stmt

	for p.kind() != DEDENT {
		if p.kind() == EOF {
			return nil, p.malformed(p.cur().Sp, "expected 'DEDENT', found end of file")
		}

		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		body = append(body, s)
	}

	p.advance()

	return body, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.advance().Sp // 'if'

	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var orelse []ast.Stmt

	switch {
	case p.atKeyword("elif"):
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}

		orelse = []ast.Stmt{nested}

	case p.atKeyword("else"):
		p.advance()

		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &ast.If{Test: test, Body: body, Orelse: orelse, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := p.advance().Sp // 'while'

	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if p.atKeyword("else") {
		return nil, p.unsupported(p.cur().Sp, "'while ... else' is not supported")
	}

	return &ast.While{Test: test, Body: body, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	start := p.advance().Sp // 'for'

	target, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKeyword("in"); err != nil {
		return nil, err
	}

	iter, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if p.atKeyword("else") {
		return nil, p.unsupported(p.cur().Sp, "'for ... else' is not supported")
	}

	return &ast.For{Target: target, Iter: iter, Body: body, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) parseFunctionDef() (ast.Stmt, error) {
	start := p.advance().Sp // 'def'

	name, err := p.expectName()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectOp("("); err != nil {
		return nil, err
	}

	var params []ast.Param

	for !p.atOp(")") {
		pname, err := p.expectName()
		if err != nil {
			return nil, err
		}

		param := ast.Param{Name: pname.Text}

		if p.atOp("=") {
			p.advance()

			defExpr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			return nil, p.malformed(defExpr.Span(), "parameters may not have default values")
		}

		params = append(params, param)

		if p.atOp(",") {
			p.advance()
			continue
		}

		break
	}

	if _, err := p.expectOp(")"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDef{Name: name.Text, Params: params, Body: body, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) parseWith() (ast.Stmt, error) {
	start := p.advance().Sp // 'with'

	var items []ast.WithItem

	for {
		ctxExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		item := ast.WithItem{ContextExpr: ctxExpr}

		if p.atKeyword("as") {
			p.advance()

			target, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			item.OptionalVars = target
		}

		items = append(items, item)

		if p.atOp(",") {
			p.advance()
			continue
		}

		break
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.With{Items: items, Body: body, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	start := p.advance().Sp // 'return'

	var value ast.Expr

	if p.kind() != NEWLINE {
		var err error

		value, err = p.parseExprList()
		if err != nil {
			return nil, err
		}
	}

	return &ast.Return{Value: value, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) parseImport() (ast.Stmt, error) {
	start := p.advance().Sp // 'import'

	var names []ast.ImportAlias

	for {
		name, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}

		alias := ast.ImportAlias{Name: name.Text, NameSp: name.Sp}

		if p.atKeyword("as") {
			p.advance()

			asName, err := p.expectName()
			if err != nil {
				return nil, err
			}

			alias.AsName = asName.Text
		}

		names = append(names, alias)

		if p.atOp(",") {
			p.advance()
			continue
		}

		break
	}

	return &ast.Import{Names: names, Sp: p.spanFrom(start)}, nil
}

func (p *Parser) parseDottedName() (Token, error) {
	first, err := p.expectName()
	if err != nil {
		return Token{}, err
	}

	var b strings.Builder
	b.WriteString(first.Text)

	for p.atOp(".") {
		p.advance()

		next, err := p.expectName()
		if err != nil {
			return Token{}, err
		}

		b.WriteString(".")
		b.WriteString(next.Text)
	}

	return Token{Kind: NAME, Text: b.String(), Sp: p.spanFrom(first.Sp)}, nil
}

// parseExprOrAssignStmt handles an expression statement, a single-target
// assignment, or an augmented assignment, disambiguated by the operator
// that (may) follow the first expression list (§9: multi-target chained
// assignment "a = b = c" is an intentional restriction, not implemented).
func (p *Parser) parseExprOrAssignStmt() (ast.Stmt, error) {
	start := p.cur().Sp

	lhs, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	if p.atOp("=") {
		p.advance()

		rhs, err := p.parseExprList()
		if err != nil {
			return nil, err
		}

		if p.atOp("=") {
			return nil, p.unsupported(p.cur().Sp, "chained assignment (a = b = c) is not supported")
		}

		return &ast.Assign{Target: lhs, Value: rhs, Sp: p.spanFrom(start)}, nil
	}

	if p.kind() == OP {
		if base, ok := augOps[p.text()]; ok {
			p.advance()

			rhs, err := p.parseExprList()
			if err != nil {
				return nil, err
			}

			return &ast.AugAssign{Target: lhs, Op: base, Value: rhs, Sp: p.spanFrom(start)}, nil
		}
	}

	return &ast.ExprStmt{Value: lhs, Sp: p.spanFrom(start)}, nil
}
