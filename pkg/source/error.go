package source

import (
	"fmt"
	"strings"
)

// SyntaxError is a structured, fatal diagnostic which retains a precise
// location within a source file (§7 requires every fatal diagnostic to carry
// a source line and column).
type SyntaxError struct {
	file *File
	span Span
	msg  string
}

// NewSyntaxError constructs a syntax error for span within file; it is the
// same as file.SyntaxError(span, msg).
func NewSyntaxError(file *File, span Span, msg string) *SyntaxError {
	return &SyntaxError{file, span, msg}
}

// File returns the file this error was raised against.
func (e *SyntaxError) File() *File { return e.file }

// Span returns the span of the offending text.
func (e *SyntaxError) Span() Span { return e.span }

// Message returns the raw diagnostic message, without position prefix.
func (e *SyntaxError) Message() string { return e.msg }

// Position returns the line/column this error is anchored to.
func (e *SyntaxError) Position() Position {
	if e.file == nil {
		return Position{}
	}

	return e.file.PositionOf(e.span.Start())
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Position(), e.msg)
}

// UnresolvedNames formats the "Unknown variables" diagnostic of §3/§7: a
// single fatal error listing every free reference left unbound at module
// scope, each with its own coordinates.
func UnresolvedNames(errs []*SyntaxError) error {
	if len(errs) == 0 {
		return nil
	}

	var b strings.Builder

	b.WriteString("Unknown variables:\n")

	for _, e := range errs {
		fmt.Fprintf(&b, "  %s\n", e.Error())
	}

	return &unresolvedNamesError{errs, b.String()}
}

type unresolvedNamesError struct {
	errs []*SyntaxError
	msg  string
}

func (e *unresolvedNamesError) Error() string { return e.msg }

// Errors returns the individual unresolved-name diagnostics.
func (e *unresolvedNamesError) Errors() []*SyntaxError { return e.errs }
