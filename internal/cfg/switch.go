package cfg

import (
	"brine/internal/intern"
	"brine/internal/mir"
)

// Switch binds disc to name and selects candidates[i] for the first i with
// disc == i. The last candidate is the fall-through and is not compared.
// Panics when candidates is empty.
func Switch(name intern.Name, disc *mir.Expr, candidates []*mir.Expr) *mir.Expr {
	if len(candidates) == 0 {
		panic("cfg: switch without candidates")
	}
	sel := candidates[len(candidates)-1]
	for i := len(candidates) - 2; i >= 0; i-- {
		test := mir.Call(mir.Prim(mir.PrimEq), mir.Ref(name), mir.LitInt(int64(i)))
		sel = mir.NewIf(test, candidates[i], sel)
	}
	return mir.NewLet(name, disc, sel)
}

// Switch is the builder-scoped form of Switch using a fresh name.
func (b *Builder) Switch(disc *mir.Expr, candidates []*mir.Expr) *mir.Expr {
	return Switch(b.Gensym("d"), disc, candidates)
}
