package mir

import "fmt"

// Primitive identifies a built-in operation.
type Primitive uint8

const (
	PrimInvalid Primitive = iota
	PrimPlus
	PrimMinus
	PrimTimes
	PrimDiv
	PrimMod
	PrimNeg
	PrimAnd
	PrimOr
	PrimXor
	PrimCons
	PrimCar
	PrimCdr
	PrimEq
	PrimLt
	PrimLe
	PrimGt
	PrimGe
	PrimBoolToInt

	// State-threading helpers. They only exist before desugaring.
	PrimGet
	PrimSet
	PrimPure
	PrimLift
	PrimThen
	PrimY

	primCount
)

// ArgClass is the runtime type class a primitive expects at one argument
// position.
type ArgClass uint8

const (
	ArgAny ArgClass = iota
	ArgBool
	ArgInt
	ArgPair
)

// String returns the class name.
func (c ArgClass) String() string {
	switch c {
	case ArgBool:
		return "bool"
	case ArgInt:
		return "int"
	case ArgPair:
		return "pair"
	default:
		return "any"
	}
}

type primInfo struct {
	name     string
	args     []ArgClass
	stateful bool
}

var primTable = [primCount]primInfo{
	PrimPlus:      {name: "plus", args: []ArgClass{ArgInt, ArgInt}},
	PrimMinus:     {name: "minus", args: []ArgClass{ArgInt, ArgInt}},
	PrimTimes:     {name: "times", args: []ArgClass{ArgInt, ArgInt}},
	PrimDiv:       {name: "div", args: []ArgClass{ArgInt, ArgInt}},
	PrimMod:       {name: "mod", args: []ArgClass{ArgInt, ArgInt}},
	PrimNeg:       {name: "neg", args: []ArgClass{ArgBool}},
	PrimAnd:       {name: "and", args: []ArgClass{ArgBool, ArgBool}},
	PrimOr:        {name: "or", args: []ArgClass{ArgBool, ArgBool}},
	PrimXor:       {name: "xor", args: []ArgClass{ArgBool, ArgBool}},
	PrimCons:      {name: "cons", args: []ArgClass{ArgAny, ArgAny}},
	PrimCar:       {name: "car", args: []ArgClass{ArgPair}},
	PrimCdr:       {name: "cdr", args: []ArgClass{ArgPair}},
	PrimEq:        {name: "eq", args: []ArgClass{ArgInt, ArgInt}},
	PrimLt:        {name: "lt", args: []ArgClass{ArgInt, ArgInt}},
	PrimLe:        {name: "le", args: []ArgClass{ArgInt, ArgInt}},
	PrimGt:        {name: "gt", args: []ArgClass{ArgInt, ArgInt}},
	PrimGe:        {name: "ge", args: []ArgClass{ArgInt, ArgInt}},
	PrimBoolToInt: {name: "bool-to-int", args: []ArgClass{ArgBool}},

	PrimGet:  {name: "get", args: []ArgClass{ArgInt}, stateful: true},
	PrimSet:  {name: "set", args: []ArgClass{ArgInt, ArgAny}, stateful: true},
	PrimPure: {name: "pure", args: []ArgClass{ArgAny}, stateful: true},
	PrimLift: {name: "lift", args: []ArgClass{ArgAny, ArgAny}, stateful: true},
	PrimThen: {name: "then", args: []ArgClass{ArgAny, ArgAny}, stateful: true},
	PrimY:    {name: "y-combinator", args: []ArgClass{ArgAny}, stateful: true},
}

var primByName = func() map[string]Primitive {
	m := make(map[string]Primitive, primCount)
	for p := PrimPlus; p < primCount; p++ {
		m[primTable[p].name] = p
	}
	return m
}()

// Valid reports whether p is a known primitive.
func (p Primitive) Valid() bool {
	return p > PrimInvalid && p < primCount
}

// String returns the serialized symbol of p, e.g. "bool-to-int".
func (p Primitive) String() string {
	if !p.Valid() {
		return fmt.Sprintf("<prim#%d>", uint8(p))
	}
	return primTable[p].name
}

// Arity returns the number of arguments p consumes before firing.
func (p Primitive) Arity() int {
	if !p.Valid() {
		return 0
	}
	return len(primTable[p].args)
}

// ArgClass returns the class expected at argument position i (zero-based).
func (p Primitive) ArgClass(i int) ArgClass {
	if !p.Valid() || i < 0 || i >= len(primTable[p].args) {
		return ArgAny
	}
	return primTable[p].args[i]
}

// IsStateful reports whether p is a higher-level helper that Desugar must
// remove.
func (p Primitive) IsStateful() bool {
	return p.Valid() && primTable[p].stateful
}

// PrimitiveByName resolves a serialized primitive symbol.
func PrimitiveByName(name string) (Primitive, bool) {
	p, ok := primByName[name]
	return p, ok
}

// Primitives returns every known primitive in declaration order.
func Primitives() []Primitive {
	out := make([]Primitive, 0, primCount-1)
	for p := PrimPlus; p < primCount; p++ {
		out = append(out, p)
	}
	return out
}
