package pyparse

import (
	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/source"
)

// Parser consumes a flat token stream and builds ast nodes, one recursive-
// descent rule per method, in the conventional top-down style.
type Parser struct {
	file *source.File
	toks []Token
	pos  int
}

// NewParser constructs a parser over an already-tokenized file.
func NewParser(file *source.File, toks []Token) *Parser {
	return &Parser{file: file, toks: toks}
}

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) kind() Kind  { return p.toks[p.pos].Kind }
func (p *Parser) text() string { return p.toks[p.pos].Text }

func (p *Parser) at(kind Kind, text string) bool {
	return p.kind() == kind && p.text() == text
}

func (p *Parser) atKeyword(kw string) bool { return p.at(NAME, kw) }

func (p *Parser) atOp(op string) bool { return p.at(OP, op) }

func (p *Parser) advance() Token {
	t := p.cur()

	if t.Kind != EOF {
		p.pos++
	}

	return t
}

// unsupported reports a recognized-but-unsupported construct (§7 kind 1):
// the parser saw something it has a name for, but this subset does not
// implement it.
func (p *Parser) unsupported(sp source.Span, msg string) error {
	return p.file.SyntaxError(sp, "unsupported construct: "+msg)
}

// malformed reports a syntax error proper (§7 kind 3): the token stream
// does not match any rule of the grammar at this position.
func (p *Parser) malformed(sp source.Span, msg string) error {
	return p.file.SyntaxError(sp, "malformed input: "+msg)
}

func (p *Parser) expectOp(op string) (Token, error) {
	if !p.atOp(op) {
		return Token{}, p.malformed(p.cur().Sp, "expected '"+op+"'")
	}

	return p.advance(), nil
}

func (p *Parser) expectKeyword(kw string) (Token, error) {
	if !p.atKeyword(kw) {
		return Token{}, p.malformed(p.cur().Sp, "expected '"+kw+"'")
	}

	return p.advance(), nil
}

func (p *Parser) expectName() (Token, error) {
	if p.kind() != NAME || IsKeyword(p.text()) {
		return Token{}, p.malformed(p.cur().Sp, "expected an identifier")
	}

	return p.advance(), nil
}

func (p *Parser) expectNewline() error {
	if p.kind() != NEWLINE {
		return p.malformed(p.cur().Sp, "expected end of line")
	}

	p.advance()

	return nil
}

// spanFrom builds a span from start's beginning to the token just consumed.
func (p *Parser) spanFrom(start source.Span) source.Span {
	end := p.toks[p.pos-1].Sp

	return source.NewSpan(start.Start(), end.End())
}

// ParseModule parses an entire token stream into a module.
func (p *Parser) ParseModule() (*ast.Module, error) {
	start := p.cur().Sp

	var body []ast.Stmt

	for p.kind() != EOF {
		if p.kind() == NEWLINE {
			p.advance()
			continue
		}

		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		body = append(body, s)
	}

	return &ast.Module{Body: body, Sp: p.spanFromStart(start)}, nil
}

func (p *Parser) spanFromStart(start source.Span) source.Span {
	if len(p.toks) == 0 {
		return start
	}

	return source.NewSpan(start.Start(), p.toks[len(p.toks)-1].Sp.End())
}
