package cfg

import (
	"fmt"

	"fortio.org/safecast"

	"brine/internal/intern"
	"brine/internal/mir"
)

// Builder accumulates the blocks of one function. A Builder is not safe for
// concurrent use and must not be shared between functions.
type Builder struct {
	blocks   []Block
	cur      BlockID
	ret      BlockID
	nextTemp int
}

// NewBuilder returns an empty builder with no current block.
func NewBuilder() *Builder {
	return &Builder{cur: NoBlockID, ret: NoBlockID}
}

// AddBlock allocates a new empty block.
func (b *Builder) AddBlock() BlockID {
	raw, err := safecast.Conv[int32](len(b.blocks))
	if err != nil {
		panic(fmt.Errorf("cfg: block id overflow: %w", err))
	}
	id := BlockID(raw)
	b.blocks = append(b.blocks, Block{ID: id, Jump: Jump{Kind: JumpNone, Target: NoBlockID, Then: NoBlockID, Else: NoBlockID}})
	return id
}

// SwitchToBlock moves the cursor; later AddInstr and SetJump calls target id.
func (b *Builder) SwitchToBlock(id BlockID) {
	if b.block(id) == nil {
		panic(fmt.Sprintf("cfg: switch to unknown block %s", id))
	}
	b.cur = id
}

// Current returns the block under the cursor.
func (b *Builder) Current() BlockID {
	return b.cur
}

// Terminated reports whether the current block already has a jump.
func (b *Builder) Terminated() bool {
	return b.block(b.cur).Terminated()
}

// AddInstr appends a do-line to the current block.
func (b *Builder) AddInstr(line DoLine) {
	blk := b.block(b.cur)
	if blk == nil {
		panic("cfg: AddInstr without a current block")
	}
	if blk.Terminated() {
		panic(fmt.Sprintf("cfg: AddInstr on terminated block %s", blk.ID))
	}
	if line.Expr == nil {
		panic(fmt.Sprintf("cfg: AddInstr with nil expression in %s", blk.ID))
	}
	blk.Lines = append(blk.Lines, line)
}

// SetJump sets the exit of the current block. A block's jump is set once.
func (b *Builder) SetJump(j Jump) {
	blk := b.block(b.cur)
	if blk == nil {
		panic("cfg: SetJump without a current block")
	}
	if blk.Terminated() {
		panic(fmt.Sprintf("cfg: jump of %s already set to %s", blk.ID, blk.Jump))
	}
	if j.Kind == JumpNone {
		panic(fmt.Sprintf("cfg: empty jump for %s", blk.ID))
	}
	blk.Jump = j
}

// SetReturnBlock designates the function's exit block. It may be called once.
func (b *Builder) SetReturnBlock(id BlockID) {
	if b.ret != NoBlockID {
		panic(fmt.Sprintf("cfg: return block already set to %s", b.ret))
	}
	if b.block(id) == nil {
		panic(fmt.Sprintf("cfg: return block %s does not exist", id))
	}
	b.ret = id
}

// ReturnBlock returns the designated exit block or NoBlockID.
func (b *Builder) ReturnBlock() BlockID {
	return b.ret
}

// Gensym returns a fresh identifier that cannot clash with source names.
func (b *Builder) Gensym(prefix string) intern.Name {
	name := fmt.Sprintf("__%s%d", prefix, b.nextTemp)
	b.nextTemp++
	return intern.Get(name)
}

// Func snapshots the builder state into a function graph.
func (b *Builder) Func(name string, entry BlockID, slots int) *Func {
	blocks := make([]Block, len(b.blocks))
	for i := range b.blocks {
		blocks[i] = b.blocks[i]
		blocks[i].Lines = append([]DoLine(nil), b.blocks[i].Lines...)
	}
	return &Func{
		Name:   name,
		Blocks: blocks,
		Entry:  entry,
		Return: b.ret,
		Slots:  slots,
		temp:   b.nextTemp,
	}
}

// Finish validates the graph and assembles it into one MIR program that runs
// entry on a state of slots null cells and yields the returned value.
func (b *Builder) Finish(entry BlockID, slots int) (*mir.Expr, error) {
	return b.Func("", entry, slots).Program()
}

func (b *Builder) block(id BlockID) *Block {
	idx := int(id)
	if idx < 0 || idx >= len(b.blocks) {
		return nil
	}
	return &b.blocks[idx]
}
