// Package source provides file/span/syntax-error primitives shared by the
// parser and the lowering frontend, so every diagnostic can be traced back to
// a line and column in the original input.
package source

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Span identifies a half-open range of runes within a File.
type Span struct {
	start int
	end   int
}

// NewSpan constructs a span, checking the basic well-formedness invariant.
func NewSpan(start, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the starting rune index of this span.
func (s Span) Start() int { return s.start }

// End returns one past the final rune index of this span.
func (s Span) End() int { return s.end }

// Position is a 1-indexed line/column pair, the unit every diagnostic in this
// frontend is ultimately reported in (§7: "fatal diagnostic with source line
// and column").
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// File represents a source file read into memory as runes, so spans can be
// indexed independently of multi-byte UTF-8 sequences.
type File struct {
	filename string
	contents []rune
	// lineStarts[i] is the rune index at which line i+1 (1-indexed) begins.
	lineStarts []int
}

// ReadFile reads a UTF-8 source file from disk. A leading UTF-8 byte-order
// mark, if present, is stripped before decoding — callers piping files
// through editors or Windows tooling routinely produce one, and Python-like
// tokenizers must not see it as part of the first token.
func ReadFile(filename string) (*File, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return NewFile(filename, decoded), nil
}

// NewFile constructs a File directly from raw UTF-8 bytes (used by tests and
// by ReadFile).
func NewFile(filename string, contents []byte) *File {
	runes := []rune(string(contents))
	starts := []int{0}

	for i, r := range runes {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &File{filename, runes, starts}
}

// Filename returns the name this file was loaded from.
func (f *File) Filename() string { return f.filename }

// Contents returns the decoded rune contents of this file.
func (f *File) Contents() []rune { return f.contents }

// PositionOf converts a rune offset into a 1-indexed line/column position.
func (f *File) PositionOf(offset int) Position {
	// Binary search would be overkill for source files in practice; linear
	// scan mirrors the teacher's own FindFirstEnclosingLine.
	line := 1

	for i := 1; i < len(f.lineStarts); i++ {
		if f.lineStarts[i] > offset {
			break
		}

		line = i + 1
	}

	col := offset - f.lineStarts[line-1] + 1

	return Position{line, col}
}

// SyntaxError constructs a syntax error anchored at the start of span within
// this file.
func (f *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{f, span, msg}
}
