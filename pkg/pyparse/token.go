// Package pyparse is the supplemental host parser: it turns indentation-
// sensitive source text into the ast.Module values pkg/frontend lowers.
// It is deliberately kept out of pkg/frontend's import graph (§1 scopes AST
// construction to a host parser, and this one is only a stand-in for it).
package pyparse

import "github.com/scriptlang/pyfrontend/pkg/source"

// Kind identifies a lexical token class.
type Kind int

const (
	// EOF marks the end of input.
	EOF Kind = iota
	// NEWLINE marks the end of a logical (non-blank, non-comment-only) line.
	NEWLINE
	// INDENT marks an increase in leading whitespace starting a new block.
	INDENT
	// DEDENT marks a decrease in leading whitespace closing one or more blocks.
	DEDENT
	// NAME is an identifier or keyword; Kind is still NAME for keywords, and
	// the parser distinguishes them by Token.Text.
	NAME
	// INT is a decimal integer literal.
	INT
	// STRING is a quoted string literal with escapes already resolved.
	STRING
	// FSTRING is an f-prefixed string literal. Escapes are resolved as for
	// STRING, except that `\{` and `\}` are kept verbatim; the `{...}` holes
	// are left as unparsed text for the parser to re-lex as expressions.
	FSTRING
	// OP is any punctuation/operator token; Token.Text carries its spelling.
	OP
)

// Token is one lexical unit together with its source span.
type Token struct {
	Kind Kind
	Text string
	Sp   source.Span
}

// keywords lists every reserved word this subset recognizes. Any other NAME
// is an ordinary identifier.
var keywords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"if": true, "elif": true, "else": true,
	"while": true, "for": true,
	"def": true, "return": true, "lambda": true,
	"import": true, "as": true, "with": true,
	"True": true, "False": true, "None": true,
}

// IsKeyword reports whether text is a reserved word.
func IsKeyword(text string) bool { return keywords[text] }
