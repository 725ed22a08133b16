package pyparse

import (
	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/source"
)

// ParseFile reads and parses a source file from disk into an ast.Module. It
// always returns the *source.File it read, even on a parse error, so a
// caller can report the error's position against the right source text.
func ParseFile(path string) (*source.File, *ast.Module, error) {
	file, err := source.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	mod, err := Parse(file)

	return file, mod, err
}

// Parse tokenizes and parses an already-loaded source file.
func Parse(file *source.File) (*ast.Module, error) {
	toks, err := Tokenize(file)
	if err != nil {
		return nil, err
	}

	return NewParser(file, toks).ParseModule()
}
