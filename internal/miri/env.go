package miri

import "brine/internal/intern"

// Env is one binding frame of a persistent environment chain. The nil *Env
// is the empty environment. Frames are never mutated; Extend allocates.
type Env struct {
	name   intern.Name
	value  Value
	parent *Env
}

// Extend returns a new frame binding name to v on top of e.
func (e *Env) Extend(name intern.Name, v Value) *Env {
	return &Env{name: name, value: v, parent: e}
}

// Lookup finds the nearest binding of name.
func (e *Env) Lookup(name intern.Name) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if f.name == name {
			return f.value, true
		}
	}
	return Value{}, false
}

// Depth returns the number of frames in the chain.
func (e *Env) Depth() int {
	n := 0
	for f := e; f != nil; f = f.parent {
		n++
	}
	return n
}
