package miri

import (
	"fmt"

	"brine/internal/mir"
)

type contKind uint8

const (
	contEval    contKind = iota // evaluate expr in env
	contIf                      // select a branch by the current value
	contEvalArg                 // current value is the function; evaluate the argument
	contApply                   // current value is the argument; apply fn
)

func (k contKind) String() string {
	switch k {
	case contEval:
		return "eval"
	case contIf:
		return "if"
	case contEvalArg:
		return "arg"
	case contApply:
		return "apply"
	default:
		return "?"
	}
}

type cont struct {
	kind contKind
	expr *mir.Expr // contEval, contEvalArg
	then *mir.Expr // contIf
	els  *mir.Expr // contIf
	env  *Env
	fn   Value // contApply
}

// Options configures one evaluation.
type Options struct {
	// Tracer receives one line per step when non-nil.
	Tracer *Tracer
	// OnStep, when non-nil, is called with the step number, the remaining
	// stack depth and the continuation kind of every step.
	OnStep func(step uint64, depth int, kind string)
	// MaxSteps aborts evaluation with ErrStepLimit after that many steps.
	// Zero means unlimited.
	MaxSteps uint64
	// Env is the initial environment; nil means empty.
	Env *Env
}

// Stats reports the work done by one evaluation.
type Stats struct {
	Steps    uint64
	MaxDepth int
}

// Run evaluates a desugared expression to a value.
//
// Evaluation errors are returned as *Error. A Let node, a state primitive or
// a node of unknown kind is an earlier-pass defect and panics.
func Run(e *mir.Expr, opts Options) (Value, error) {
	v, _, err := RunWithStats(e, opts)
	return v, err
}

// RunWithStats is Run that also reports step and stack-depth counters.
func RunWithStats(e *mir.Expr, opts Options) (Value, Stats, error) {
	m := &machine{opts: opts}
	m.push(cont{kind: contEval, expr: e, env: opts.Env})
	err := m.loop()
	if err != nil {
		return Value{}, m.stats, err
	}
	return m.cur, m.stats, nil
}

type machine struct {
	stack []cont
	cur   Value
	stats Stats
	opts  Options
}

func (m *machine) push(c cont) {
	m.stack = append(m.stack, c)
	if len(m.stack) > m.stats.MaxDepth {
		m.stats.MaxDepth = len(m.stack)
	}
}

func (m *machine) loop() error {
	for len(m.stack) > 0 {
		if m.opts.MaxSteps != 0 && m.stats.Steps >= m.opts.MaxSteps {
			return &Error{Code: ErrStepLimit, Message: fmt.Sprintf("step limit of %d exceeded", m.opts.MaxSteps)}
		}
		m.stats.Steps++

		top := len(m.stack) - 1
		c := m.stack[top]
		m.stack[top] = cont{}
		m.stack = m.stack[:top]
		m.opts.Tracer.traceStep(m.stats.Steps, len(m.stack), &c, m.cur)
		if m.opts.OnStep != nil {
			m.opts.OnStep(m.stats.Steps, len(m.stack), c.kind.String())
		}

		var err error
		switch c.kind {
		case contEval:
			err = m.eval(c.expr, c.env)
		case contIf:
			if m.cur.Kind != VKBool {
				return typeMismatch("if condition must be bool, got %s", m.cur)
			}
			branch := c.els
			if m.cur.Bool {
				branch = c.then
			}
			m.push(cont{kind: contEval, expr: branch, env: c.env})
		case contEvalArg:
			m.push(cont{kind: contApply, fn: m.cur, env: c.env})
			m.push(cont{kind: contEval, expr: c.expr, env: c.env})
		case contApply:
			err = m.apply(c.fn, m.cur)
		default:
			panic(fmt.Sprintf("miri: unknown continuation kind %d", c.kind))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *machine) eval(e *mir.Expr, env *Env) error {
	if e == nil {
		panic("miri: nil expression")
	}
	switch e.Kind {
	case mir.ExprLiteral:
		switch e.Lit.Kind {
		case mir.LitKindBool:
			m.cur = MakeBool(e.Lit.Bool)
		case mir.LitKindInt:
			m.cur = MakeInt(e.Lit.Int)
		default:
			m.cur = MakeNull()
		}
	case mir.ExprRef:
		v, ok := env.Lookup(e.Ref)
		if !ok {
			return undefinedRef(e.Ref.String())
		}
		m.cur = v
	case mir.ExprLambda:
		m.cur = makeClosure(env, e.Lambda.Arg, e.Lambda.Body)
	case mir.ExprPrim:
		if e.Prim.IsStateful() || !e.Prim.Valid() {
			panic(fmt.Sprintf("miri: primitive %s reached the evaluator undesugared", e.Prim))
		}
		m.cur = makePartial(e.Prim, nil)
	case mir.ExprIf:
		m.push(cont{kind: contIf, then: e.If.Then, els: e.If.Else, env: env})
		m.push(cont{kind: contEval, expr: e.If.Cond, env: env})
	case mir.ExprApply:
		m.push(cont{kind: contEvalArg, expr: e.Apply.Arg, env: env})
		m.push(cont{kind: contEval, expr: e.Apply.Func, env: env})
	case mir.ExprComment:
		m.push(cont{kind: contEval, expr: e.Comment.Inner, env: env})
	case mir.ExprLet:
		panic(fmt.Sprintf("miri: let %s reached the evaluator undesugared", e.Let.Name))
	default:
		panic(fmt.Sprintf("miri: invalid expression kind %d", e.Kind))
	}
	return nil
}

func (m *machine) apply(fn, arg Value) error {
	switch fn.Kind {
	case VKClosure:
		c := fn.Closure
		m.push(cont{kind: contEval, expr: c.Body, env: c.Env.Extend(c.Param, arg)})
		return nil
	case VKPartial:
		v, err := applyPrimitive(fn.Partial, arg)
		if err != nil {
			return err
		}
		m.cur = v
		return nil
	}
	return notApplicable(fn)
}
