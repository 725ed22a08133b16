package ir

import (
	"fmt"
	"io"
	"strings"
)

// WriteTo renders the full textual form of a module (§6.2: "Textual
// serialization of the finished module"): one builtin.func per function
// declared in the module, in declaration order.
// Output is a pure function of the module's structure (block/value ids are
// assigned in deterministic creation order), satisfying the §5
// byte-identical-output invariant.
func (m *Module) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "builtin.module @%s {\n", m.name)

	for _, fn := range m.functions {
		writeFunction(&b, fn)
	}

	b.WriteString("}\n")

	n, err := io.WriteString(w, b.String())

	return int64(n), err
}

// String renders the module as text.
func (m *Module) String() string {
	var b strings.Builder
	m.WriteTo(&b) //nolint:errcheck

	return b.String()
}

func writeFunction(b *strings.Builder, fn *Function) {
	fmt.Fprintf(b, "  builtin.func @%s(", fn.name)

	for i, arg := range fn.Entry().Args() {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(b, "%s: %s", arg, arg.Type())
	}

	fmt.Fprintf(b, ") -> %s {\n", ReturnValueT())

	for _, blk := range fn.Region().Blocks() {
		writeBlock(b, blk)
	}

	b.WriteString("  }\n")
}

func writeBlock(b *strings.Builder, blk *Block) {
	fmt.Fprintf(b, "  ^bb%d", blk.ID())

	if len(blk.Args()) > 0 {
		b.WriteString("(")

		for i, arg := range blk.Args() {
			if i > 0 {
				b.WriteString(", ")
			}

			fmt.Fprintf(b, "%s: %s", arg, arg.Type())
		}

		b.WriteString(")")
	}

	b.WriteString(":\n")

	for _, op := range blk.Ops() {
		writeOp(b, op)
	}
}

func writeOp(b *strings.Builder, op *Operation) {
	b.WriteString("    ")

	if len(op.Results) == 1 {
		fmt.Fprintf(b, "%s = ", op.Results[0])
	}

	fmt.Fprintf(b, "%s.%s", op.Dialect, op.Op)

	if len(op.Operands) > 0 {
		b.WriteString(" ")

		for i, v := range op.Operands {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(v.String())
		}
	}

	for _, a := range op.Attrs {
		fmt.Fprintf(b, " %s=%s", a.Key, a.Value)
	}

	if len(op.Successors) > 0 {
		b.WriteString(" [")

		for i, succ := range op.Successors {
			if i > 0 {
				b.WriteString(", ")
			}

			fmt.Fprintf(b, "^bb%d", succ.ID())

			if i < len(op.SuccessorArgs) && len(op.SuccessorArgs[i]) > 0 {
				b.WriteString("(")

				for j, v := range op.SuccessorArgs[i] {
					if j > 0 {
						b.WriteString(", ")
					}

					b.WriteString(v.String())
				}

				b.WriteString(")")
			}
		}

		b.WriteString("]")
	}

	b.WriteString("\n")
}
