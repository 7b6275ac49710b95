package mir

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b *Expr) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ExprLiteral:
		return a.Lit == b.Lit
	case ExprRef:
		return a.Ref == b.Ref
	case ExprPrim:
		return a.Prim == b.Prim
	case ExprLambda:
		return a.Lambda.Arg == b.Lambda.Arg && Equal(a.Lambda.Body, b.Lambda.Body)
	case ExprApply:
		return Equal(a.Apply.Func, b.Apply.Func) && Equal(a.Apply.Arg, b.Apply.Arg)
	case ExprIf:
		return Equal(a.If.Cond, b.If.Cond) && Equal(a.If.Then, b.If.Then) && Equal(a.If.Else, b.If.Else)
	case ExprLet:
		return a.Let.Name == b.Let.Name && Equal(a.Let.Value, b.Let.Value) && Equal(a.Let.Body, b.Let.Body)
	case ExprComment:
		return a.Comment.Text == b.Comment.Text && Equal(a.Comment.Inner, b.Comment.Inner)
	}
	return false
}

// Walk calls fn for e and every descendant in pre-order. Returning false from
// fn skips the node's children.
func Walk(e *Expr, fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch e.Kind {
	case ExprLambda:
		Walk(e.Lambda.Body, fn)
	case ExprApply:
		Walk(e.Apply.Func, fn)
		Walk(e.Apply.Arg, fn)
	case ExprIf:
		Walk(e.If.Cond, fn)
		Walk(e.If.Then, fn)
		Walk(e.If.Else, fn)
	case ExprLet:
		Walk(e.Let.Value, fn)
		Walk(e.Let.Body, fn)
	case ExprComment:
		Walk(e.Comment.Inner, fn)
	}
}
