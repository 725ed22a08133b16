package ir

// Context owns every block and value allocated during a lowering run. A
// fresh Context is created once per compilation and discarded once the
// module has been printed (§5: "an IR context owns all operations, blocks,
// values, and attributes; the frontend holds references into it ... The
// frontend never retains IR references across context boundaries").
type Context struct {
	nextValueID uint
	nextBlockID uint
}

// NewContext constructs a fresh, empty context.
func NewContext() *Context {
	return &Context{}
}

// NewBlock allocates a new, empty block with the given argument types. Block
// identifiers are assigned in strictly increasing order of allocation,
// which is the deterministic "stable order" §5 requires of block creation.
func (c *Context) NewBlock(argTypes ...Type) *Block {
	c.nextBlockID++
	blk := &Block{id: c.nextBlockID}

	for _, t := range argTypes {
		blk.args = append(blk.args, c.newValue(t, nil, blk))
	}

	return blk
}

func (c *Context) newValue(t Type, def *Operation, owner *Block) *Value {
	c.nextValueID++
	return &Value{id: c.nextValueID, typ: t, def: def, owner: owner}
}

// NewModule constructs an empty module owned by this context.
func (c *Context) NewModule(name string) *Module {
	return &Module{ctx: c, name: name}
}
