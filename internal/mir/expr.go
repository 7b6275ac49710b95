// Package mir describes the mid-level intermediate representation: a small
// purely-functional expression language with single-argument lambdas,
// curried primitives and a handful of state-threading helpers that are
// desugared away before evaluation.
package mir

import "brine/internal/intern"

// ExprKind enumerates MIR expression kinds.
type ExprKind uint8

const (
	// ExprInvalid is the zero kind; it never appears in a well-formed tree.
	ExprInvalid ExprKind = iota
	// ExprLiteral is a bool, int or null constant.
	ExprLiteral
	// ExprRef is a lexical variable reference.
	ExprRef
	// ExprLambda is a single-argument function.
	ExprLambda
	// ExprApply applies a function to one argument.
	ExprApply
	// ExprIf selects a branch on a boolean condition.
	ExprIf
	// ExprLet binds a name; removed by Desugar.
	ExprLet
	// ExprPrim is a primitive operation value.
	ExprPrim
	// ExprComment wraps an expression with an annotation.
	ExprComment
)

// String returns the kind name.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "literal"
	case ExprRef:
		return "ref"
	case ExprLambda:
		return "lambda"
	case ExprApply:
		return "apply"
	case ExprIf:
		return "if"
	case ExprLet:
		return "let"
	case ExprPrim:
		return "prim"
	case ExprComment:
		return "comment"
	default:
		return "invalid"
	}
}

// Expr is a MIR expression node. Nodes are immutable once built and may be
// shared between trees.
type Expr struct {
	Kind ExprKind

	Lit     Literal
	Ref     intern.Name
	Lambda  *Lambda
	Apply   *Apply
	If      *If
	Let     *Let
	Prim    Primitive
	Comment *Comment
}

// LitKind distinguishes literal kinds.
type LitKind uint8

const (
	// LitKindNull is the unit value.
	LitKindNull LitKind = iota
	// LitKindBool is a boolean.
	LitKindBool
	// LitKindInt is a 64-bit signed integer.
	LitKindInt
)

// Literal is a constant value.
type Literal struct {
	Kind LitKind
	Bool bool
	Int  int64
}

// Lambda is a single-argument function.
type Lambda struct {
	Arg  intern.Name
	Body *Expr
}

// Apply is a function application.
type Apply struct {
	Func *Expr
	Arg  *Expr
}

// If is a two-way conditional.
type If struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

// Let binds Name to Value within Body.
type Let struct {
	Name  intern.Name
	Value *Expr
	Body  *Expr
}

// Comment carries a human-readable note; it evaluates as Inner.
type Comment struct {
	Text  string
	Inner *Expr
}
