// Package ir is the opaque IR-builder API the frontend is built against
// (§6.2 of the spec): contexts, modules, functions, regions, blocks,
// values, attributes and the three dialects (builtin, cf, script) the
// lowering core emits into. The dialect's own runtime semantics (how an
// AddOp or InvokeOp actually executes) are out of scope here — this package
// only has to let the frontend build a well-formed module and print it.
package ir

import "fmt"

// Kind enumerates the handful of value types the scripting dialect needs
// (§6.2: "type constructors for Value, Cell, Scope, ReturnValue").
type Kind int

const (
	// ValueKind is a boxed runtime value of the source language.
	ValueKind Kind = iota
	// CellKind is a mutable one-slot container addressed by an IR value.
	CellKind
	// ScopeKind is a runtime name-to-cell binding.
	ScopeKind
	// ReturnValueKind is the tagged return/exception discriminator every
	// function returns (§4.10 Landing pad, GLOSSARY).
	ReturnValueKind
)

// Type is the type of an IR value.
type Type struct {
	kind Kind
}

// ValueT constructs the boxed-runtime-value type.
func ValueT() Type { return Type{ValueKind} }

// CellT constructs the Cell type.
func CellT() Type { return Type{CellKind} }

// ScopeT constructs the Scope type.
func ScopeT() Type { return Type{ScopeKind} }

// ReturnValueT constructs the ReturnValue type.
func ReturnValueT() Type { return Type{ReturnValueKind} }

// String renders a type's textual name, used by the printer.
func (t Type) String() string {
	switch t.kind {
	case ValueKind:
		return "!script.value"
	case CellKind:
		return "!script.cell"
	case ScopeKind:
		return "!script.scope"
	case ReturnValueKind:
		return "!script.retval"
	default:
		return "!script.unknown"
	}
}

// Attribute is an immutable, typed constant attached to an operation. The
// four kinds listed in §6.2 (string, array-of-string, signed-64, flat
// symbol reference) are each a distinct Go type implementing this
// interface, following the teacher's own "boxedBinding"-style tagged-union
// idiom rather than a single struct with unused fields.
type Attribute interface {
	fmt.Stringer
	isAttribute()
}

// StringAttr is a string-valued attribute, printed as a quoted literal.
type StringAttr string

func (StringAttr) isAttribute()    {}
func (a StringAttr) String() string { return fmt.Sprintf("%q", string(a)) }

// ArrayAttr is an ordered array of strings, e.g. keyword-argument names on
// an invoke, or the bound-name lists on scope_extend.
type ArrayAttr []string

func (ArrayAttr) isAttribute() {}
func (a ArrayAttr) String() string {
	s := "["
	for i, v := range a {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%q", v)
	}

	return s + "]"
}

// IntAttr is a signed 64-bit integer attribute.
type IntAttr int64

func (IntAttr) isAttribute()     {}
func (a IntAttr) String() string { return fmt.Sprintf("%d", int64(a)) }

// SymbolRefAttr is a flat reference to a function symbol by name.
type SymbolRefAttr string

func (SymbolRefAttr) isAttribute()    {}
func (a SymbolRefAttr) String() string { return "@" + string(a) }
