package mir

import "brine/internal/intern"

// LitInt builds an integer literal.
func LitInt(v int64) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: Literal{Kind: LitKindInt, Int: v}}
}

// LitBool builds a boolean literal.
func LitBool(v bool) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: Literal{Kind: LitKindBool, Bool: v}}
}

// LitNull builds the null literal.
func LitNull() *Expr {
	return &Expr{Kind: ExprLiteral, Lit: Literal{Kind: LitKindNull}}
}

// Lit wraps an existing literal value.
func Lit(l Literal) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: l}
}

// Ref builds a variable reference.
func Ref(name intern.Name) *Expr {
	return &Expr{Kind: ExprRef, Ref: name}
}

// RefName interns name and builds a reference to it.
func RefName(name string) *Expr {
	return Ref(intern.Get(name))
}

// NewLambda builds a single-argument function.
func NewLambda(arg intern.Name, body *Expr) *Expr {
	return &Expr{Kind: ExprLambda, Lambda: &Lambda{Arg: arg, Body: body}}
}

// NewApply builds a single application.
func NewApply(fn, arg *Expr) *Expr {
	return &Expr{Kind: ExprApply, Apply: &Apply{Func: fn, Arg: arg}}
}

// Call applies fn to args one at a time: Call(f, a, b) = ((f a) b).
func Call(fn *Expr, args ...*Expr) *Expr {
	out := fn
	for _, a := range args {
		out = NewApply(out, a)
	}
	return out
}

// NewIf builds a conditional.
func NewIf(cond, then, els *Expr) *Expr {
	return &Expr{Kind: ExprIf, If: &If{Cond: cond, Then: then, Else: els}}
}

// NewLet builds a let-binding.
func NewLet(name intern.Name, value, body *Expr) *Expr {
	return &Expr{Kind: ExprLet, Let: &Let{Name: name, Value: value, Body: body}}
}

// Prim builds a primitive value.
func Prim(p Primitive) *Expr {
	return &Expr{Kind: ExprPrim, Prim: p}
}

// NewComment wraps inner with an annotation.
func NewComment(text string, inner *Expr) *Expr {
	return &Expr{Kind: ExprComment, Comment: &Comment{Text: text, Inner: inner}}
}

// Nop is the side-effect-free unit action: (pure null).
func Nop() *Expr {
	return NewApply(Prim(PrimPure), LitNull())
}
