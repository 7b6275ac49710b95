package cfg

import (
	"fmt"

	"brine/internal/hir"
	"brine/internal/mir"
)

type funcLowerer struct {
	b      *Builder
	ret    BlockID
	scopes []map[string]int
	slots  int
	names  []string
}

// Lower translates fn into a block graph. Block 0 is the entry and block 1
// the return block.
func Lower(fn *hir.Func) (*Func, error) {
	if fn == nil {
		return nil, fmt.Errorf("cfg: lower: nil function")
	}
	l := &funcLowerer{b: NewBuilder()}
	entry := l.b.AddBlock()
	l.ret = l.b.AddBlock()
	l.b.SetReturnBlock(l.ret)
	l.b.SwitchToBlock(entry)

	if err := l.lowerScoped(fn.Body); err != nil {
		return nil, fmt.Errorf("cfg: lower %s: %w", fn.Name, err)
	}
	if !l.b.Terminated() {
		l.b.AddInstr(Pure(mir.LitNull()))
		l.b.SetJump(Goto(l.ret))
	}
	f := l.b.Func(fn.Name, entry, l.slots)
	f.SlotNames = l.names
	return f, nil
}

// Compile lowers fn and assembles the MIR program. The result still uses
// let and the state primitives; run it through mir.Desugar before
// evaluation.
func Compile(fn *hir.Func) (*mir.Expr, error) {
	f, err := Lower(fn)
	if err != nil {
		return nil, err
	}
	return f.Program()
}

func (l *funcLowerer) lowerScoped(b *hir.Block) error {
	l.scopes = append(l.scopes, make(map[string]int))
	defer func() { l.scopes = l.scopes[:len(l.scopes)-1] }()
	return l.lowerBlock(b)
}

func (l *funcLowerer) lowerBlock(b *hir.Block) error {
	if b == nil {
		return nil
	}
	for i := range b.Stmts {
		if l.b.Terminated() {
			return nil
		}
		if err := l.lowerStmt(&b.Stmts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (l *funcLowerer) lowerStmt(st *hir.Stmt) error {
	switch st.Kind {
	case hir.StmtBlock:
		data, ok := st.Data.(hir.BlockStmtData)
		if !ok {
			return fmt.Errorf("block: unexpected payload %T", st.Data)
		}
		return l.lowerScoped(data.Block)

	case hir.StmtLet:
		data, ok := st.Data.(hir.LetData)
		if !ok {
			return fmt.Errorf("let: unexpected payload %T", st.Data)
		}
		// The initializer is evaluated before the new name is visible.
		var init *mir.Expr
		if data.Value != nil {
			v, err := l.lowerOperand(data.Value)
			if err != nil {
				return err
			}
			init = v
		}
		slot := l.declare(data.Name)
		if init != nil {
			l.b.AddInstr(Action(setSlot(slot, init)))
		}
		return nil

	case hir.StmtExpr:
		data, ok := st.Data.(hir.ExprStmtData)
		if !ok {
			return fmt.Errorf("expr stmt: unexpected payload %T", st.Data)
		}
		if data.Expr == nil {
			return nil
		}
		v, err := l.lowerOperand(data.Expr)
		if err != nil {
			return err
		}
		l.b.AddInstr(Pure(v))
		return nil

	case hir.StmtReturn:
		data, ok := st.Data.(hir.ReturnData)
		if !ok {
			return fmt.Errorf("return: unexpected payload %T", st.Data)
		}
		v := mir.LitNull()
		if data.Value != nil {
			op, err := l.lowerOperand(data.Value)
			if err != nil {
				return err
			}
			v = op
		}
		l.b.AddInstr(Pure(v))
		l.b.SetJump(Goto(l.ret))
		return nil

	case hir.StmtIf:
		data, ok := st.Data.(hir.IfStmtData)
		if !ok {
			return fmt.Errorf("if: unexpected payload %T", st.Data)
		}
		return l.lowerIf(data)
	}
	return fmt.Errorf("unsupported statement kind %s", st.Kind)
}

// lowerIf branches into fresh blocks. The join block is allocated only when
// some arm falls through or there is no else arm.
func (l *funcLowerer) lowerIf(data hir.IfStmtData) error {
	cond, err := l.lowerOperand(data.Cond)
	if err != nil {
		return err
	}
	l.b.AddInstr(Pure(cond))

	join := NoBlockID
	ensureJoin := func() BlockID {
		if join == NoBlockID {
			join = l.b.AddBlock()
		}
		return join
	}

	thenBB := l.b.AddBlock()
	elseBB := NoBlockID
	if data.Else != nil {
		elseBB = l.b.AddBlock()
	} else {
		elseBB = ensureJoin()
	}
	l.b.SetJump(Branch(thenBB, elseBB))

	l.b.SwitchToBlock(thenBB)
	if err := l.lowerScoped(data.Then); err != nil {
		return err
	}
	if !l.b.Terminated() {
		l.b.SetJump(Goto(ensureJoin()))
	}

	if data.Else != nil {
		l.b.SwitchToBlock(elseBB)
		if err := l.lowerScoped(data.Else); err != nil {
			return err
		}
		if !l.b.Terminated() {
			l.b.SetJump(Goto(ensureJoin()))
		}
	}

	if join != NoBlockID {
		l.b.SwitchToBlock(join)
	}
	return nil
}

func (l *funcLowerer) declare(name string) int {
	slot := l.slots
	l.slots++
	l.names = append(l.names, name)
	l.scopes[len(l.scopes)-1][name] = slot
	return slot
}

func (l *funcLowerer) lookup(name string) (int, bool) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if slot, ok := l.scopes[i][name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// (set slot value)
func setSlot(slot int, value *mir.Expr) *mir.Expr {
	return mir.Call(mir.Prim(mir.PrimSet), mir.LitInt(int64(slot)), value)
}

// (get slot)
func getSlot(slot int) *mir.Expr {
	return mir.NewApply(mir.Prim(mir.PrimGet), mir.LitInt(int64(slot)))
}
