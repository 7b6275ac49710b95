package hir

// Func represents an HIR function: a name and a body. Parameters are not
// modelled; the body reads only its own declarations.
type Func struct {
	Name string
	Body *Block
}
