package pyparse

import (
	"strings"

	"github.com/scriptlang/pyfrontend/pkg/source"
)

// lexer turns source runes into a flat token stream, synthesizing NEWLINE/
// INDENT/DEDENT the way Python's own tokenizer does: indentation is only
// significant at statement (paren-depth zero) position, and an open (),
// [], or {} suspends it entirely so a call or literal can wrap lines freely.
type lexer struct {
	file   *source.File
	src    []rune
	pos    int
	parens int

	indents []int
	tokens  []Token
}

func newLexer(file *source.File) *lexer {
	return &lexer{file: file, src: file.Contents(), indents: []int{0}}
}

// Tokenize scans file into a token stream ending in a single EOF token.
func Tokenize(file *source.File) ([]Token, error) {
	l := newLexer(file)
	if err := l.run(); err != nil {
		return nil, err
	}

	return l.tokens, nil
}

func (l *lexer) errAt(pos int, msg string) *source.SyntaxError {
	return l.file.SyntaxError(source.NewSpan(pos, pos+1), msg)
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}

	return l.src[l.pos]
}

func (l *lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}

	return l.src[l.pos+off]
}

func (l *lexer) emit(kind Kind, text string, start int) {
	l.tokens = append(l.tokens, Token{kind, text, source.NewSpan(start, l.pos)})
}

func (l *lexer) run() error {
	atLineStart := true

	for l.pos < len(l.src) {
		if atLineStart && l.parens == 0 {
			blank, err := l.handleIndentation()
			if err != nil {
				return err
			}

			if blank {
				continue
			}

			atLineStart = false
		}

		c := l.peek()

		switch {
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}

		case c == '\n':
			l.pos++

			if l.parens == 0 {
				l.emit(NEWLINE, "\n", l.pos-1)
				atLineStart = true
			}

		case c == ' ' || c == '\r':
			l.pos++

		case c == '\t':
			return l.errAt(l.pos, "tabs are not supported; use spaces for indentation")

		case c == '\\' && l.peekAt(1) == '\n':
			l.pos += 2

		case isIdentStart(c):
			if err := l.lexNameOrString(); err != nil {
				return err
			}

		case isDigit(c):
			l.lexNumber()

		case c == '\'' || c == '"':
			if err := l.lexString(false); err != nil {
				return err
			}

		default:
			if err := l.lexOperator(); err != nil {
				return err
			}
		}
	}

	if l.parens > 0 {
		return l.errAt(l.pos, "unexpected end of file inside parentheses")
	}

	if len(l.tokens) > 0 && l.tokens[len(l.tokens)-1].Kind != NEWLINE {
		l.emit(NEWLINE, "\n", l.pos)
	}

	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(DEDENT, "", l.pos)
	}

	l.emit(EOF, "", l.pos)

	return nil
}

// handleIndentation measures one logical line's leading whitespace and
// emits INDENT/DEDENT tokens to reconcile it against the indent stack. It
// reports blank=true for blank or comment-only lines, which carry no
// indentation significance at all.
func (l *lexer) handleIndentation() (bool, error) {
	start := l.pos
	col := 0

	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ':
			col++
			l.pos++
		case '\t':
			return false, l.errAt(l.pos, "tabs are not supported; use spaces for indentation")
		default:
			goto measured
		}
	}

measured:
	if l.pos >= len(l.src) || l.src[l.pos] == '\n' || l.src[l.pos] == '#' {
		// Blank or comment-only line: skip to (and including) its newline
		// without touching the indent stack.
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}

		if l.pos < len(l.src) {
			l.pos++
		}

		return true, nil
	}

	top := l.indents[len(l.indents)-1]

	switch {
	case col > top:
		l.indents = append(l.indents, col)
		l.emit(INDENT, "", start)

	case col < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > col {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(DEDENT, "", start)
		}

		if l.indents[len(l.indents)-1] != col {
			return false, l.errAt(start, "unindent does not match any outer indentation level")
		}
	}

	return false, nil
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) lexNameOrString() error {
	start := l.pos

	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}

	text := string(l.src[start:l.pos])

	if (text == "f" || text == "F") && l.pos < len(l.src) && (l.src[l.pos] == '\'' || l.src[l.pos] == '"') {
		return l.lexString(true)
	}

	l.emit(NAME, text, start)

	return nil
}

func (l *lexer) lexNumber() {
	start := l.pos

	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}

	l.emit(INT, string(l.src[start:l.pos]), start)
}

// lexString scans a single- or double-quoted literal, resolving the usual
// backslash escapes. f-strings keep their `{...}` holes as unparsed text
// (escapes inside them are resolved too, except `\{`/`\}`) since the parser
// re-lexes each hole as its own expression.
func (l *lexer) lexString(isF bool) error {
	start := l.pos
	quote := l.src[l.pos]
	l.pos++

	var b strings.Builder

	for {
		if l.pos >= len(l.src) {
			return l.errAt(start, "unterminated string literal")
		}

		c := l.src[l.pos]

		switch {
		case c == quote:
			l.pos++

			if isF {
				l.emit(FSTRING, b.String(), start)
			} else {
				l.emit(STRING, b.String(), start)
			}

			return nil

		case c == '\n':
			return l.errAt(start, "unterminated string literal")

		case c == '\\':
			l.pos++

			if l.pos >= len(l.src) {
				return l.errAt(start, "unterminated string literal")
			}

			esc := l.src[l.pos]
			l.pos++

			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case '\\', '\'', '"':
				b.WriteRune(esc)
			case '{', '}':
				// f-string escapes for literal braces; kept verbatim so the
				// f-string hole splitter can tell a `\{` apart from a hole.
				b.WriteRune('\\')
				b.WriteRune(esc)
			default:
				b.WriteRune('\\')
				b.WriteRune(esc)
			}

		case isF && (c == '{' || c == '}'):
			b.WriteRune(c)
			l.pos++

		default:
			b.WriteRune(c)
			l.pos++
		}
	}
}

// threeCharOps and twoCharOps are checked longest-match-first.
var threeCharOps = []string{"**=", "//=", "<<=", ">>="}
var twoCharOps = []string{
	"**", "//", "==", "!=", "<=", ">=", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
}

func (l *lexer) lexOperator() error {
	start := l.pos

	for _, op := range threeCharOps {
		if l.match(op) {
			l.emit(OP, op, start)
			return nil
		}
	}

	for _, op := range twoCharOps {
		if l.match(op) {
			l.emit(OP, op, start)
			return nil
		}
	}

	c := l.peek()

	switch c {
	case '(', '[', '{':
		l.parens++
	case ')', ']', '}':
		if l.parens > 0 {
			l.parens--
		}
	case '+', '-', '*', '/', '%', '@', '&', '|', '^', '~', '<', '>', '=', ',', ':', '.':
		// single-char operator, handled below
	default:
		return l.errAt(l.pos, "unexpected character")
	}

	l.pos++
	l.emit(OP, string(c), start)

	return nil
}

func (l *lexer) match(s string) bool {
	rs := []rune(s)
	if l.pos+len(rs) > len(l.src) {
		return false
	}

	for i, r := range rs {
		if l.src[l.pos+i] != r {
			return false
		}
	}

	l.pos += len(rs)

	return true
}
