package cfg

import (
	"fmt"

	"brine/internal/intern"
	"brine/internal/mir"
)

// BlockID is a dense, zero-based basic block index.
type BlockID int32

// NoBlockID marks an unset block reference.
const NoBlockID BlockID = -1

func (id BlockID) String() string {
	if id == NoBlockID {
		return "bb?"
	}
	return fmt.Sprintf("bb%d", int32(id))
}

// JumpKind enumerates block exits.
type JumpKind uint8

const (
	// JumpNone means the block has no exit yet. Only the return block keeps it.
	JumpNone JumpKind = iota
	// JumpGoto transfers control unconditionally.
	JumpGoto
	// JumpBranch selects Then or Else by the most recently computed value.
	JumpBranch
)

// Jump describes how control leaves a block.
type Jump struct {
	Kind   JumpKind
	Target BlockID // JumpGoto
	Then   BlockID // JumpBranch
	Else   BlockID // JumpBranch
}

// Goto builds an unconditional jump.
func Goto(target BlockID) Jump {
	return Jump{Kind: JumpGoto, Target: target, Then: NoBlockID, Else: NoBlockID}
}

// Branch builds a two-way conditional jump.
func Branch(then, els BlockID) Jump {
	return Jump{Kind: JumpBranch, Target: NoBlockID, Then: then, Else: els}
}

func (j Jump) String() string {
	switch j.Kind {
	case JumpGoto:
		return "goto " + j.Target.String()
	case JumpBranch:
		return fmt.Sprintf("br %s, %s", j.Then, j.Else)
	default:
		return "<no jump>"
	}
}

// DoKind enumerates do-line shapes.
type DoKind uint8

const (
	// DoAction runs an action; its result becomes the current value.
	DoAction DoKind = iota
	// DoBind runs an action and binds its result to Name for the rest of the block.
	DoBind
	// DoPure makes a pure value the current value.
	DoPure
	// DoMap applies a function to the current value.
	DoMap
)

// DoLine is one step of a block's action sequence.
type DoLine struct {
	Kind DoKind
	Name intern.Name // DoBind
	Expr *mir.Expr
}

// Action builds a DoAction line.
func Action(action *mir.Expr) DoLine { return DoLine{Kind: DoAction, Expr: action} }

// Bind builds a DoBind line.
func Bind(name intern.Name, action *mir.Expr) DoLine {
	return DoLine{Kind: DoBind, Name: name, Expr: action}
}

// Pure builds a DoPure line.
func Pure(value *mir.Expr) DoLine { return DoLine{Kind: DoPure, Expr: value} }

// Map builds a DoMap line.
func Map(fn *mir.Expr) DoLine { return DoLine{Kind: DoMap, Expr: fn} }

// Block is a basic block: ordered do-lines and at most one jump.
type Block struct {
	ID    BlockID
	Lines []DoLine
	Jump  Jump
}

// Terminated reports whether the block already has its exit.
func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Jump.Kind != JumpNone
}
