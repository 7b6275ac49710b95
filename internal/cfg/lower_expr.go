package cfg

import (
	"fmt"

	"brine/internal/hir"
	"brine/internal/mir"
)

var binaryPrims = map[hir.BinaryOp]mir.Primitive{
	hir.BinaryAdd: mir.PrimPlus,
	hir.BinarySub: mir.PrimMinus,
	hir.BinaryMul: mir.PrimTimes,
	hir.BinaryDiv: mir.PrimDiv,
	hir.BinaryMod: mir.PrimMod,
	hir.BinaryAnd: mir.PrimAnd,
	hir.BinaryOr:  mir.PrimOr,
	hir.BinaryXor: mir.PrimXor,
	hir.BinaryEq:  mir.PrimEq,
	hir.BinaryLt:  mir.PrimLt,
	hir.BinaryLe:  mir.PrimLe,
	hir.BinaryGt:  mir.PrimGt,
	hir.BinaryGe:  mir.PrimGe,
}

// lowerOperand returns a pure MIR expression for e's value. State reads and
// writes are emitted as do-lines on the current block, in evaluation order,
// and their results are bound to fresh names the returned expression uses.
func (l *funcLowerer) lowerOperand(e *hir.Expr) (*mir.Expr, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}
	switch e.Kind {
	case hir.ExprLiteral:
		data, ok := e.Data.(hir.LiteralData)
		if !ok {
			return nil, fmt.Errorf("literal: unexpected payload %T", e.Data)
		}
		switch data.Kind {
		case hir.LiteralInt:
			return mir.LitInt(data.IntValue), nil
		case hir.LiteralBool:
			return mir.LitBool(data.BoolValue), nil
		default:
			return mir.LitNull(), nil
		}

	case hir.ExprVarRef:
		data, ok := e.Data.(hir.VarRefData)
		if !ok {
			return nil, fmt.Errorf("var: unexpected payload %T", e.Data)
		}
		slot, found := l.lookup(data.Name)
		if !found {
			return nil, fmt.Errorf("undefined variable %q", data.Name)
		}
		tmp := l.b.Gensym("t")
		l.b.AddInstr(Bind(tmp, getSlot(slot)))
		return mir.Ref(tmp), nil

	case hir.ExprAssign:
		data, ok := e.Data.(hir.AssignData)
		if !ok {
			return nil, fmt.Errorf("assign: unexpected payload %T", e.Data)
		}
		slot, found := l.lookup(data.Name)
		if !found {
			return nil, fmt.Errorf("assignment to undefined variable %q", data.Name)
		}
		v, err := l.lowerOperand(data.Value)
		if err != nil {
			return nil, err
		}
		if v.Kind != mir.ExprLiteral && v.Kind != mir.ExprRef {
			tmp := l.b.Gensym("t")
			l.b.AddInstr(Pure(v))
			l.b.AddInstr(Bind(tmp, mir.NewApply(mir.Prim(mir.PrimPure), mir.Ref(nameCur))))
			v = mir.Ref(tmp)
		}
		l.b.AddInstr(Action(setSlot(slot, v)))
		return v, nil

	case hir.ExprUnaryOp:
		data, ok := e.Data.(hir.UnaryOpData)
		if !ok {
			return nil, fmt.Errorf("unary: unexpected payload %T", e.Data)
		}
		v, err := l.lowerOperand(data.Operand)
		if err != nil {
			return nil, err
		}
		switch data.Op {
		case hir.UnaryNeg:
			return mir.Call(mir.Prim(mir.PrimMinus), mir.LitInt(0), v), nil
		case hir.UnaryNot:
			return mir.NewApply(mir.Prim(mir.PrimNeg), v), nil
		case hir.UnaryToInt:
			return mir.NewApply(mir.Prim(mir.PrimBoolToInt), v), nil
		}
		return nil, fmt.Errorf("unsupported unary operator %s", data.Op)

	case hir.ExprBinaryOp:
		data, ok := e.Data.(hir.BinaryOpData)
		if !ok {
			return nil, fmt.Errorf("binary: unexpected payload %T", e.Data)
		}
		left, err := l.lowerOperand(data.Left)
		if err != nil {
			return nil, err
		}
		right, err := l.lowerOperand(data.Right)
		if err != nil {
			return nil, err
		}
		if data.Op == hir.BinaryNe {
			return mir.NewApply(mir.Prim(mir.PrimNeg), mir.Call(mir.Prim(mir.PrimEq), left, right)), nil
		}
		p, ok := binaryPrims[data.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported binary operator %s", data.Op)
		}
		return mir.Call(mir.Prim(p), left, right), nil
	}
	return nil, fmt.Errorf("unsupported expression kind %s", e.Kind)
}
