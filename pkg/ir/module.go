package ir

// Region is an ordered list of blocks forming one control-flow graph. Each
// Function owns exactly one region in this frontend (the scripting dialect
// has no nested-region ops), but the type is kept distinct from Function so
// the builder API reads the way a real MLIR-flavoured toolkit's would.
type Region struct {
	blocks []*Block
}

// Blocks returns the blocks of this region, in the order they were created.
func (r *Region) Blocks() []*Block { return r.blocks }

// Entry returns the region's first block.
func (r *Region) Entry() *Block { return r.blocks[0] }

// Function is a `builtin.func`-style container: a name, its declared
// parameter types, and a single region holding its body.
type Function struct {
	module *Module
	name   string
	params []Type
	region Region
}

// Name returns this function's symbol name.
func (f *Function) Name() string { return f.name }

// Region returns this function's body.
func (f *Function) Region() *Region { return &f.region }

// Entry returns the function's entry block, whose arguments are exactly its
// declared parameters, in order.
func (f *Function) Entry() *Block { return f.region.Entry() }

// AddBlock allocates a new block (with the given argument types) and
// appends it to this function's region, after the current last block. New
// blocks are always appended at the end: "block creation appends after the
// current block in a stable order" (§5).
func (f *Function) AddBlock(ctx *Context, argTypes ...Type) *Block {
	blk := ctx.NewBlock(argTypes...)
	f.region.blocks = append(f.region.blocks, blk)

	return blk
}

// Module is a `builtin.module`-style top-level container of functions.
type Module struct {
	ctx       *Context
	name      string
	functions []*Function
}

// Name returns this module's name.
func (m *Module) Name() string { return m.name }

// Functions returns the functions declared in this module, in declaration
// order.
func (m *Module) Functions() []*Function { return m.functions }

// NewFunction declares a new function in this module with the given
// parameter types, creates its entry block (whose arguments are the
// parameters), and returns the function.
func (m *Module) NewFunction(name string, paramTypes ...Type) *Function {
	fn := &Function{module: m, name: name, params: paramTypes}
	entry := m.ctx.NewBlock(paramTypes...)
	fn.region.blocks = []*Block{entry}
	m.functions = append(m.functions, fn)

	return fn
}
