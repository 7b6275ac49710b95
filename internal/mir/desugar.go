package mir

import (
	"fmt"

	"brine/internal/intern"
)

// Desugar rewrites e into the core language accepted by the interpreter:
//
//   - (:let (x v) b) becomes ((:lambda x b) v);
//   - every state-threading primitive is replaced by a closed pure term.
//
// Actions are functions from a state to (cons result state'). The state is a
// cons-list of slot values terminated by null. Desugar is total and
// idempotent; leaves are returned unchanged.
func Desugar(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ExprLiteral, ExprRef:
		return e
	case ExprPrim:
		if e.Prim.IsStateful() {
			return stateTerm(e.Prim)
		}
		return e
	case ExprLet:
		return NewApply(NewLambda(e.Let.Name, Desugar(e.Let.Body)), Desugar(e.Let.Value))
	case ExprLambda:
		return NewLambda(e.Lambda.Arg, Desugar(e.Lambda.Body))
	case ExprApply:
		return NewApply(Desugar(e.Apply.Func), Desugar(e.Apply.Arg))
	case ExprIf:
		return NewIf(Desugar(e.If.Cond), Desugar(e.If.Then), Desugar(e.If.Else))
	case ExprComment:
		return NewComment(e.Comment.Text, Desugar(e.Comment.Inner))
	}
	panic(fmt.Sprintf("mir: desugar: invalid expression kind %d", e.Kind))
}

// IsDesugared reports whether e contains neither let nor stateful primitives.
func IsDesugared(e *Expr) bool {
	return CheckDesugared(e) == nil
}

// CheckDesugared returns an error naming the first node that Desugar would
// have removed.
func CheckDesugared(e *Expr) error {
	var err error
	Walk(e, func(n *Expr) bool {
		if err != nil {
			return false
		}
		switch {
		case n.Kind == ExprLet:
			err = fmt.Errorf("mir: let %s survived desugaring", n.Let.Name)
		case n.Kind == ExprPrim && n.Prim.IsStateful():
			err = fmt.Errorf("mir: primitive %s survived desugaring", n.Prim)
		case n.Kind == ExprInvalid:
			err = fmt.Errorf("mir: invalid expression node")
		}
		return err == nil
	})
	return err
}

// InitialState builds a state with slots null-initialized cells.
func InitialState(slots int) *Expr {
	st := LitNull()
	for range slots {
		st = Call(Prim(PrimCons), LitNull(), st)
	}
	return st
}

// RunAction builds an expression that runs action on a fresh state of slots
// cells and yields the action's result.
func RunAction(action *Expr, slots int) *Expr {
	return NewApply(Prim(PrimCar), NewApply(action, InitialState(slots)))
}

var (
	nameF   = intern.Get("__f")
	nameX   = intern.Get("__x")
	nameV   = intern.Get("__v")
	nameS   = intern.Get("__s")
	nameI   = intern.Get("__i")
	nameM   = intern.Get("__m")
	nameK   = intern.Get("__k")
	nameR   = intern.Get("__r")
	nameNth = intern.Get("__nth")
	nameUpd = intern.Get("__upd")
)

func lam(arg intern.Name, body *Expr) *Expr { return NewLambda(arg, body) }

// strict fixpoint: (:lambda f ((:lambda x (f (:lambda v ((x x) v)))) (:lambda x ...)))
func fixTerm() *Expr {
	half := func() *Expr {
		selfApp := Call(Ref(nameX), Ref(nameX))
		return lam(nameX, Call(Ref(nameF), lam(nameV, Call(selfApp, Ref(nameV)))))
	}
	return lam(nameF, Call(half(), half()))
}

// (y (:lambda nth (:lambda s (:lambda i (:if (eq i 0) (car s) (nth (cdr s) (minus i 1)))))))
func nthTerm() *Expr {
	body := NewIf(
		Call(Prim(PrimEq), Ref(nameI), LitInt(0)),
		Call(Prim(PrimCar), Ref(nameS)),
		Call(Ref(nameNth), Call(Prim(PrimCdr), Ref(nameS)), Call(Prim(PrimMinus), Ref(nameI), LitInt(1))),
	)
	return Call(fixTerm(), lam(nameNth, lam(nameS, lam(nameI, body))))
}

// (y (:lambda upd (:lambda s (:lambda i (:lambda v
//     (:if (eq i 0) (cons v (cdr s)) (cons (car s) (upd (cdr s) (minus i 1) v))))))))
func updateTerm() *Expr {
	body := NewIf(
		Call(Prim(PrimEq), Ref(nameI), LitInt(0)),
		Call(Prim(PrimCons), Ref(nameV), Call(Prim(PrimCdr), Ref(nameS))),
		Call(Prim(PrimCons),
			Call(Prim(PrimCar), Ref(nameS)),
			Call(Ref(nameUpd), Call(Prim(PrimCdr), Ref(nameS)), Call(Prim(PrimMinus), Ref(nameI), LitInt(1)), Ref(nameV)),
		),
	)
	return Call(fixTerm(), lam(nameUpd, lam(nameS, lam(nameI, lam(nameV, body)))))
}

// runs m on s and hands the result cell r to cont
func bindResult(cont *Expr) *Expr {
	return Call(lam(nameR, cont), Call(Ref(nameM), Ref(nameS)))
}

func buildStateTerm(p Primitive) *Expr {
	switch p {
	case PrimPure:
		// (:lambda v (:lambda s (cons v s)))
		return lam(nameV, lam(nameS, Call(Prim(PrimCons), Ref(nameV), Ref(nameS))))
	case PrimThen:
		// (:lambda m (:lambda k (:lambda s ((:lambda r (k (car r) (cdr r))) (m s)))))
		cont := Call(Ref(nameK), Call(Prim(PrimCar), Ref(nameR)), Call(Prim(PrimCdr), Ref(nameR)))
		return lam(nameM, lam(nameK, lam(nameS, bindResult(cont))))
	case PrimLift:
		// (:lambda f (:lambda m (:lambda s ((:lambda r (cons (f (car r)) (cdr r))) (m s)))))
		cont := Call(Prim(PrimCons), Call(Ref(nameF), Call(Prim(PrimCar), Ref(nameR))), Call(Prim(PrimCdr), Ref(nameR)))
		return lam(nameF, lam(nameM, lam(nameS, bindResult(cont))))
	case PrimGet:
		// (:lambda i (:lambda s (cons (nth s i) s)))
		return lam(nameI, lam(nameS, Call(Prim(PrimCons), Call(nthTerm(), Ref(nameS), Ref(nameI)), Ref(nameS))))
	case PrimSet:
		// (:lambda i (:lambda v (:lambda s (cons null (upd s i v)))))
		return lam(nameI, lam(nameV, lam(nameS,
			Call(Prim(PrimCons), LitNull(), Call(updateTerm(), Ref(nameS), Ref(nameI), Ref(nameV))))))
	case PrimY:
		return fixTerm()
	}
	panic(fmt.Sprintf("mir: no state lowering for primitive %s", p))
}

var stateTerms = func() map[Primitive]*Expr {
	m := make(map[Primitive]*Expr)
	for _, p := range Primitives() {
		if p.IsStateful() {
			m[p] = buildStateTerm(p)
		}
	}
	return m
}()

// stateTerm returns the shared closed term for p. Terms are immutable, so
// every occurrence may point at the same tree.
func stateTerm(p Primitive) *Expr {
	return stateTerms[p]
}
