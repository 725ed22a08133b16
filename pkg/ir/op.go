package ir

// AttrEntry is one named attribute on an Operation. Operations keep
// attributes in an ordered slice rather than a map so that printing (and
// therefore the byte-identical-output invariant of §5) never depends on Go's
// randomized map iteration order.
type AttrEntry struct {
	Key   string
	Value Attribute
}

// Operation is a single instruction in the IR: a dialect-qualified opcode
// over some operand values, carrying zero or more attributes, zero or more
// successor blocks (for control-flow and fallible ops), and producing zero
// or more result values.
//
// A "fallible" operation (§4.5.1) is one with exactly two successors: the
// first is the normal-return block (whose single block argument carries the
// result), the second is the function's landing pad. Such an operation has
// no Results of its own — callers read the result off the first successor's
// block argument once the builder's cursor has moved there.
type Operation struct {
	Dialect       string
	Op            string
	Operands      []*Value
	Attrs         []AttrEntry
	Successors    []*Block
	SuccessorArgs [][]*Value
	Results       []*Value

	block *Block
}

// Block returns the block this operation has been appended to, or nil if it
// has not been appended yet.
func (o *Operation) Block() *Block { return o.block }

// IsTerminator reports whether this operation ends its block, i.e. is a
// branch, conditional branch, return, or any other op carrying successors.
func (o *Operation) IsTerminator() bool {
	return len(o.Successors) > 0 || o.Op == "return"
}

// Result returns this operation's single result value. It panics if the
// operation has no result, which would indicate a bug in the lowerer (every
// call site knows statically whether the op it just built is fallible).
func (o *Operation) Result() *Value {
	if len(o.Results) == 0 {
		panic("operation \"" + o.Dialect + "." + o.Op + "\" has no result")
	}

	return o.Results[0]
}

// Attr looks up a named attribute, returning (value, true) if present.
func (o *Operation) Attr(key string) (Attribute, bool) {
	for _, e := range o.Attrs {
		if e.Key == key {
			return e.Value, true
		}
	}

	return nil, false
}
