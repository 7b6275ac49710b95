package cfg

import (
	"fmt"

	"brine/internal/intern"
	"brine/internal/mir"
)

// Func is a lowered function: its blocks, entry and exit, and the number of
// state slots its declarations use.
type Func struct {
	Name      string
	Blocks    []Block
	Entry     BlockID
	Return    BlockID
	Slots     int
	SlotNames []string // declared name per slot, for dumps
	temp      int
}

var (
	nameCur = intern.Get("__cur")
	nameGo  = intern.Get("__go")
	nameBB  = intern.Get("__bb")
)

// Program validates f and assembles it into one MIR expression.
//
// Every block becomes a function from the incoming current value to a state
// action. A y-recursive dispatcher maps block ids to those functions, so a
// jump is a call through the dispatcher. The program runs the entry block
// on null and a state of f.Slots null cells, and yields the value the
// return block receives.
func (f *Func) Program() (*mir.Expr, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	bodies := make([]*mir.Expr, len(f.Blocks))
	for i := range f.Blocks {
		bodies[i] = mir.NewComment(f.Blocks[i].ID.String(), f.blockTerm(&f.Blocks[i]))
	}
	disc := intern.Get(fmt.Sprintf("__d%d", f.temp))
	dispatch := mir.NewLambda(nameGo, mir.NewLambda(nameBB, Switch(disc, mir.Ref(nameBB), bodies)))
	run := mir.Call(mir.Prim(mir.PrimY), dispatch, mir.LitInt(int64(f.Entry)), mir.LitNull())
	prog := mir.RunAction(run, f.Slots)
	if f.Name != "" {
		prog = mir.NewComment("fn "+f.Name, prog)
	}
	return prog, nil
}

func (f *Func) blockTerm(b *Block) *mir.Expr {
	var tail *mir.Expr
	switch b.Jump.Kind {
	case JumpGoto:
		tail = jumpTo(b.Jump.Target)
	case JumpBranch:
		tail = mir.NewIf(mir.Ref(nameCur), jumpTo(b.Jump.Then), jumpTo(b.Jump.Else))
	default:
		tail = mir.NewApply(mir.Prim(mir.PrimPure), mir.Ref(nameCur))
	}
	return mir.NewLambda(nameCur, foldLines(b.Lines, tail))
}

// ((__go target) __cur)
func jumpTo(target BlockID) *mir.Expr {
	return mir.Call(mir.Ref(nameGo), mir.LitInt(int64(target)), mir.Ref(nameCur))
}

// foldLines chains lines right-to-left in front of tail. Each line sees the
// previous result as __cur.
func foldLines(lines []DoLine, tail *mir.Expr) *mir.Expr {
	rest := tail
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		switch line.Kind {
		case DoAction:
			rest = mir.Call(mir.Prim(mir.PrimThen), line.Expr, mir.NewLambda(nameCur, rest))
		case DoBind:
			bound := mir.NewLet(line.Name, mir.Ref(nameCur), rest)
			rest = mir.Call(mir.Prim(mir.PrimThen), line.Expr, mir.NewLambda(nameCur, bound))
		case DoPure:
			rest = mir.NewLet(nameCur, line.Expr, rest)
		case DoMap:
			rest = mir.NewLet(nameCur, mir.NewApply(line.Expr, mir.Ref(nameCur)), rest)
		default:
			panic(fmt.Sprintf("cfg: unknown do-line kind %d", line.Kind))
		}
	}
	return rest
}
