package mir

import (
	"errors"
	"fmt"
	"strings"

	"brine/internal/intern"
)

// Validate checks that e is well formed: every node has its payload, every
// primitive is known and every identifier can be written back as a symbol.
// Returns all problems joined.
func Validate(e *Expr) error {
	if e == nil {
		return errors.New("mir: nil expression")
	}
	var errs []error
	Walk(e, func(n *Expr) bool {
		if err := validateNode(n); err != nil {
			errs = append(errs, err)
			return false
		}
		return true
	})
	return errors.Join(errs...)
}

func validateNode(n *Expr) error {
	switch n.Kind {
	case ExprLiteral:
		if n.Lit.Kind > LitKindInt {
			return fmt.Errorf("mir: unknown literal kind %d", n.Lit.Kind)
		}
	case ExprRef:
		return validateIdent(n.Ref)
	case ExprPrim:
		if !n.Prim.Valid() {
			return fmt.Errorf("mir: unknown primitive %s", n.Prim)
		}
	case ExprLambda:
		if n.Lambda == nil || n.Lambda.Body == nil {
			return errors.New("mir: lambda without body")
		}
		return validateIdent(n.Lambda.Arg)
	case ExprApply:
		if n.Apply == nil || n.Apply.Func == nil || n.Apply.Arg == nil {
			return errors.New("mir: incomplete application")
		}
	case ExprIf:
		if n.If == nil || n.If.Cond == nil || n.If.Then == nil || n.If.Else == nil {
			return errors.New("mir: incomplete if")
		}
	case ExprLet:
		if n.Let == nil || n.Let.Value == nil || n.Let.Body == nil {
			return errors.New("mir: incomplete let")
		}
		return validateIdent(n.Let.Name)
	case ExprComment:
		if n.Comment == nil || n.Comment.Inner == nil {
			return errors.New("mir: comment without body")
		}
	default:
		return fmt.Errorf("mir: invalid expression kind %d", n.Kind)
	}
	return nil
}

func validateIdent(name intern.Name) error {
	s, ok := intern.Global().Lookup(name)
	if !ok {
		return fmt.Errorf("mir: unknown identifier id %d", uint32(name))
	}
	if !IsIdentifier(s) {
		return fmt.Errorf("mir: %q is not a valid identifier", s)
	}
	return nil
}

// IsIdentifier reports whether s reads back as a reference symbol.
func IsIdentifier(s string) bool {
	if s == "" || isReserved(s) || looksNumeric(s) {
		return false
	}
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "#") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if isDelimiter(s[i]) {
			return false
		}
	}
	return true
}
