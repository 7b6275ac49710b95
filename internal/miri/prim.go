package miri

import (
	"fmt"

	"brine/internal/mir"
)

// applyPrimitive feeds arg to p. The partial itself is never modified, so a
// failed application leaves it usable.
func applyPrimitive(p *Partial, arg Value) (Value, error) {
	pos := len(p.Args)
	want := p.Prim.ArgClass(pos)
	if !arg.Matches(want) {
		return Value{}, typeMismatch("%s expects %s as argument %d, got %s", p.Prim, want, pos+1, arg)
	}
	args := make([]Value, pos+1)
	copy(args, p.Args)
	args[pos] = arg
	if len(args) < p.Prim.Arity() {
		return makePartial(p.Prim, args), nil
	}
	return fire(p.Prim, args)
}

func fire(p mir.Primitive, args []Value) (Value, error) {
	switch p {
	case mir.PrimPlus:
		return MakeInt(args[0].Int + args[1].Int), nil
	case mir.PrimMinus:
		return MakeInt(args[0].Int - args[1].Int), nil
	case mir.PrimTimes:
		return MakeInt(args[0].Int * args[1].Int), nil
	case mir.PrimDiv:
		if args[1].Int == 0 {
			return Value{}, &Error{Code: ErrDivisionByZero, Message: fmt.Sprintf("division by zero: div %d 0", args[0].Int)}
		}
		return MakeInt(args[0].Int / args[1].Int), nil
	case mir.PrimMod:
		if args[1].Int == 0 {
			return Value{}, &Error{Code: ErrDivisionByZero, Message: fmt.Sprintf("division by zero: mod %d 0", args[0].Int)}
		}
		return MakeInt(args[0].Int % args[1].Int), nil
	case mir.PrimNeg:
		return MakeBool(!args[0].Bool), nil
	case mir.PrimAnd:
		return MakeBool(args[0].Bool && args[1].Bool), nil
	case mir.PrimOr:
		return MakeBool(args[0].Bool || args[1].Bool), nil
	case mir.PrimXor:
		return MakeBool(args[0].Bool != args[1].Bool), nil
	case mir.PrimCons:
		return MakePair(args[0], args[1]), nil
	case mir.PrimCar:
		return args[0].Pair.Car, nil
	case mir.PrimCdr:
		return args[0].Pair.Cdr, nil
	case mir.PrimEq:
		return MakeBool(args[0].Int == args[1].Int), nil
	case mir.PrimLt:
		return MakeBool(args[0].Int < args[1].Int), nil
	case mir.PrimLe:
		return MakeBool(args[0].Int <= args[1].Int), nil
	case mir.PrimGt:
		return MakeBool(args[0].Int > args[1].Int), nil
	case mir.PrimGe:
		return MakeBool(args[0].Int >= args[1].Int), nil
	case mir.PrimBoolToInt:
		if args[0].Bool {
			return MakeInt(1), nil
		}
		return MakeInt(0), nil
	}
	panic(fmt.Sprintf("miri: primitive %s fired undesugared", p))
}
