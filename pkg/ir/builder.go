package ir

// Builder emits operations into one function's region, tracking a single
// "current block" cursor. It is the concrete realization of the
// insertion-point-scoped construction API described in §6.2.
type Builder struct {
	ctx *Context
	fn  *Function
	cur *Block
}

// NewBuilder constructs a builder positioned at fn's entry block.
func NewBuilder(ctx *Context, fn *Function) *Builder {
	return &Builder{ctx: ctx, fn: fn, cur: fn.Entry()}
}

// Context returns the context this builder allocates blocks and values
// from.
func (b *Builder) Context() *Context { return b.ctx }

// Function returns the function this builder is emitting into.
func (b *Builder) Function() *Function { return b.fn }

// CurrentBlock returns the block the next emitted operation will be
// appended to.
func (b *Builder) CurrentBlock() *Block { return b.cur }

// SetCurrentBlock moves the cursor to blk. Every statement and expression
// lowering routine that splits control flow (if/while/for, fallible ops)
// calls this once it has finished filling in the block(s) it created.
func (b *Builder) SetCurrentBlock(blk *Block) { b.cur = blk }

// NewBlock allocates a new block, with the given argument types, appended
// after the function's current last block.
func (b *Builder) NewBlock(argTypes ...Type) *Block {
	return b.fn.AddBlock(b.ctx, argTypes...)
}

// WithInsertionPoint runs body with the cursor temporarily set to blk,
// restoring the prior cursor on every exit path including a panic — the
// "scoped acquisition with guaranteed release" §6.2 requires of insertion
// point changes.
func (b *Builder) WithInsertionPoint(blk *Block, body func()) {
	prev := b.cur
	b.cur = blk

	defer func() { b.cur = prev }()

	body()
}

// op appends a non-terminating, non-fallible operation to the current
// block, giving it zero or one result of the given type.
func (b *Builder) op(dialect, opcode string, operands []*Value, attrs []AttrEntry, resultType *Type) *Operation {
	o := &Operation{Dialect: dialect, Op: opcode, Operands: operands, Attrs: attrs}

	if resultType != nil {
		o.Results = []*Value{b.ctx.newValue(*resultType, o, nil)}
	}

	b.cur.Append(o)

	return o
}

// Fallible emits a two-successor operation implementing the invoke protocol
// of §4.5.1: the operation itself is appended to the current block with
// successors (ret, except); the cursor moves to ret; the returned value is
// ret's sole block argument, i.e. the operation's result on the success
// path. ret must already have exactly one ValueT argument (the caller
// allocates it via NewBlock(ir.ValueT())), matching step 1 of §4.5.1.
func (b *Builder) Fallible(dialect, opcode string, operands []*Value, attrs []AttrEntry, ret, except *Block) *Value {
	o := &Operation{
		Dialect:    dialect,
		Op:         opcode,
		Operands:   operands,
		Attrs:      attrs,
		Successors: []*Block{ret, except},
	}

	b.cur.Append(o)
	b.cur = ret

	return ret.Arg(0)
}

// Br emits an unconditional control-flow branch to target, optionally
// passing block arguments.
func (b *Builder) Br(target *Block, args ...*Value) *Operation {
	o := &Operation{
		Dialect:       "cf",
		Op:            "br",
		Successors:    []*Block{target},
		SuccessorArgs: [][]*Value{args},
	}

	return b.cur.Append(o)
}

// CondBr emits a two-way conditional branch on cond, to trueBlk (with
// trueArgs) or falseBlk (with falseArgs).
func (b *Builder) CondBr(cond *Value, trueBlk *Block, trueArgs []*Value, falseBlk *Block, falseArgs []*Value) *Operation {
	o := &Operation{
		Dialect:       "cf",
		Op:            "cond_br",
		Operands:      []*Value{cond},
		Successors:    []*Block{trueBlk, falseBlk},
		SuccessorArgs: [][]*Value{trueArgs, falseArgs},
	}

	return b.cur.Append(o)
}

// Return emits a function-terminating return of a ReturnValue discriminator
// (produced by MkReturn or MkExcept — see script.go).
func (b *Builder) Return(discriminator *Value) *Operation {
	o := &Operation{Dialect: "builtin", Op: "return", Operands: []*Value{discriminator}}
	return b.cur.Append(o)
}
