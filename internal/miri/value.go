// Package miri evaluates desugared MIR with an explicit continuation stack,
// so program recursion depth is bounded by memory rather than the Go stack.
package miri

import (
	"fmt"
	"strings"

	"brine/internal/intern"
	"brine/internal/mir"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind uint8

const (
	// VKInvalid represents an invalid value.
	VKInvalid ValueKind = iota
	// VKBool represents a boolean value.
	VKBool
	// VKInt represents a 64-bit signed integer.
	VKInt
	// VKNull represents the unit value.
	VKNull
	// VKClosure represents a lambda paired with its captured environment.
	VKClosure
	// VKPartial represents a primitive waiting for more arguments.
	VKPartial
	// VKPair represents a cons cell.
	VKPair
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case VKInvalid:
		return "invalid"
	case VKBool:
		return "bool"
	case VKInt:
		return "int"
	case VKNull:
		return "null"
	case VKClosure:
		return "closure"
	case VKPartial:
		return "primitive"
	case VKPair:
		return "pair"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Value is a runtime value. Closures, partial applications and pairs are
// immutable once built and shared by pointer.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Int     int64
	Closure *Closure
	Partial *Partial
	Pair    *Pair
}

// Closure captures the environment a lambda was evaluated in.
type Closure struct {
	Env   *Env
	Param intern.Name
	Body  *mir.Expr
}

// Partial is a primitive with fewer arguments than its arity.
type Partial struct {
	Prim mir.Primitive
	Args []Value
}

// Pair is a cons cell.
type Pair struct {
	Car Value
	Cdr Value
}

// MakeBool creates a boolean value.
func MakeBool(b bool) Value { return Value{Kind: VKBool, Bool: b} }

// MakeInt creates an integer value.
func MakeInt(n int64) Value { return Value{Kind: VKInt, Int: n} }

// MakeNull creates the unit value.
func MakeNull() Value { return Value{Kind: VKNull} }

// MakePair creates a cons cell.
func MakePair(car, cdr Value) Value {
	return Value{Kind: VKPair, Pair: &Pair{Car: car, Cdr: cdr}}
}

func makeClosure(env *Env, param intern.Name, body *mir.Expr) Value {
	return Value{Kind: VKClosure, Closure: &Closure{Env: env, Param: param, Body: body}}
}

func makePartial(p mir.Primitive, args []Value) Value {
	return Value{Kind: VKPartial, Partial: &Partial{Prim: p, Args: args}}
}

// Matches reports whether v belongs to the argument class c.
func (v Value) Matches(c mir.ArgClass) bool {
	switch c {
	case mir.ArgBool:
		return v.Kind == VKBool
	case mir.ArgInt:
		return v.Kind == VKInt
	case mir.ArgPair:
		return v.Kind == VKPair
	default:
		return v.Kind != VKInvalid
	}
}

// String renders v for the driver: 5, true, null, <closure x>,
// <primitive plus [1]>, (1 . 2).
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.Kind {
	case VKBool:
		fmt.Fprintf(sb, "%t", v.Bool)
	case VKInt:
		fmt.Fprintf(sb, "%d", v.Int)
	case VKNull:
		sb.WriteString("null")
	case VKClosure:
		fmt.Fprintf(sb, "<closure %s>", v.Closure.Param)
	case VKPartial:
		fmt.Fprintf(sb, "<primitive %s [", v.Partial.Prim)
		for i, a := range v.Partial.Args {
			if i > 0 {
				sb.WriteByte(' ')
			}
			a.write(sb)
		}
		sb.WriteString("]>")
	case VKPair:
		sb.WriteByte('(')
		v.Pair.Car.write(sb)
		sb.WriteString(" . ")
		v.Pair.Cdr.write(sb)
		sb.WriteByte(')')
	default:
		sb.WriteString("<invalid>")
	}
}
