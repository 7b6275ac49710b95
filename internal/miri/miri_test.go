package miri_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"brine/internal/intern"
	"brine/internal/mir"
	"brine/internal/miri"
)

func eval(t *testing.T, src string) (miri.Value, error) {
	t.Helper()
	e, err := mir.Decode(src)
	if err != nil {
		t.Fatalf("Decode(%q): %v", src, err)
	}
	return miri.Run(mir.Desugar(e), miri.Options{})
}

func TestRunValues(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"((plus 2) 3)", "5"},
		{"((minus 10) 4)", "6"},
		{"(plus 2 3)", "5"},
		{"((:let (x 5) (:lambda y (plus x y))) 3)", "8"},
		{"(:let (x 1) (:let (x 2) x))", "2"},
		{"(:if true 1 2)", "1"},
		{"(:if false 1 2)", "2"},
		{"(times 6 7)", "42"},
		{"(div -7 2)", "-3"},
		{"(mod -7 2)", "-1"},
		{"(neg true)", "false"},
		{"(and true false)", "false"},
		{"(or false true)", "true"},
		{"(xor true true)", "false"},
		{"(xor true false)", "true"},
		{"(eq 3 3)", "true"},
		{"(lt 1 2)", "true"},
		{"(le 2 2)", "true"},
		{"(gt 1 2)", "false"},
		{"(ge 1 2)", "false"},
		{"(bool-to-int true)", "1"},
		{"(cons 1 (cons true null))", "(1 . (true . null))"},
		{"(car (cons 1 2))", "1"},
		{"(cdr (cons 1 2))", "2"},
		{"plus", "<primitive plus []>"},
		{"(plus 1)", "<primitive plus [1]>"},
		{"(:lambda x x)", "<closure x>"},
		{`(:comment "transparent" 7)`, "7"},
		{"null", "null"},
		{"(minus -9223372036854775808 1)", "9223372036854775807"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, err := eval(t, tt.src)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := v.String(); got != tt.want {
				t.Fatalf("Run = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		src     string
		code    miri.ErrorCode
		message string
	}{
		{"((:lambda x y) 1)", miri.ErrUndefinedRef, "undefined reference: y"},
		{"(:if 5 1 2)", miri.ErrTypeMismatch, "got 5"},
		{"(1 2)", miri.ErrNotApplicable, "not applicable: 1"},
		{"(plus 1 true)", miri.ErrTypeMismatch, "plus expects int as argument 2, got true"},
		{"(car 1)", miri.ErrTypeMismatch, "car expects pair"},
		{"(div 1 0)", miri.ErrDivisionByZero, "division by zero"},
		{"(mod 1 0)", miri.ErrDivisionByZero, "division by zero"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := eval(t, tt.src)
			var me *miri.Error
			if !errors.As(err, &me) {
				t.Fatalf("Run error = %v, want *miri.Error", err)
			}
			if me.Code != tt.code {
				t.Fatalf("code = %s, want %s", me.Code, tt.code)
			}
			if !strings.Contains(me.Message, tt.message) {
				t.Fatalf("message %q does not contain %q", me.Message, tt.message)
			}
		})
	}
}

func TestPartialApplicationIsReusable(t *testing.T) {
	plus1, err := eval(t, "(plus 1)")
	if err != nil {
		t.Fatal(err)
	}
	env := (*miri.Env)(nil).Extend(intern.Get("p"), plus1)

	apply := func(arg string) (miri.Value, error) {
		e, err := mir.Decode("(p " + arg + ")")
		if err != nil {
			t.Fatal(err)
		}
		return miri.Run(e, miri.Options{Env: env})
	}

	for range 2 {
		if _, err := apply("true"); err == nil {
			t.Fatal("expected type error")
		}
	}
	v, err := apply("41")
	if err != nil {
		t.Fatalf("apply after failure: %v", err)
	}
	if v.Kind != miri.VKInt || v.Int != 42 {
		t.Fatalf("got %s, want 42", v)
	}
	if len(plus1.Partial.Args) != 1 {
		t.Fatalf("partial was mutated: %s", plus1)
	}
}

func TestClosuresShareParentEnv(t *testing.T) {
	v, err := eval(t, "(:let (x 10) (:let (f (:lambda a (plus x a))) (:let (g (:lambda a (minus x a))) (cons (f 1) (g 1)))))")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "(11 . 9)" {
		t.Fatalf("got %s", v)
	}
}

const sumTo = "((y-combinator (:lambda f (:lambda n (:if (eq n 0) 0 (plus n (f (minus n 1))))))) %d)"

func TestDeepRecursionUsesHeapStack(t *testing.T) {
	src := strings.Replace(sumTo, "%d", "100000", 1)
	e, err := mir.Decode(src)
	if err != nil {
		t.Fatal(err)
	}
	v, st, err := miri.RunWithStats(mir.Desugar(e), miri.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Int != 5000050000 {
		t.Fatalf("sum = %s", v)
	}
	if st.MaxDepth < 100000 {
		t.Fatalf("MaxDepth = %d, expected a deep continuation stack", st.MaxDepth)
	}
}

func TestTailLoopKeepsStackFlat(t *testing.T) {
	src := "((y-combinator (:lambda f (:lambda n (:if (eq n 0) 0 (f (minus n 1)))))) 50000)"
	e, err := mir.Decode(src)
	if err != nil {
		t.Fatal(err)
	}
	_, st, err := miri.RunWithStats(mir.Desugar(e), miri.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if st.MaxDepth > 64 {
		t.Fatalf("MaxDepth = %d for a tail loop", st.MaxDepth)
	}
}

func TestStepLimit(t *testing.T) {
	e, err := mir.Decode("((y-combinator (:lambda f (:lambda n (f n)))) 0)")
	if err != nil {
		t.Fatal(err)
	}
	_, err = miri.Run(mir.Desugar(e), miri.Options{MaxSteps: 1000})
	var me *miri.Error
	if !errors.As(err, &me) || me.Code != miri.ErrStepLimit {
		t.Fatalf("err = %v, want step limit", err)
	}
}

func TestStatePrimitivesAfterDesugar(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(pure 3)", "3"},
		{"(then ((set 1) 9) (:lambda _ (get 1)))", "9"},
		{"(then ((set 0) 4) (:lambda _ (lift (plus 1) (get 0))))", "5"},
		{"(get 1)", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := mir.Decode(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			v, err := miri.Run(mir.Desugar(mir.RunAction(e, 2)), miri.Options{})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if v.String() != tt.want {
				t.Fatalf("got %s, want %s", v, tt.want)
			}
		})
	}
}

func TestUndesugaredInputPanics(t *testing.T) {
	for _, src := range []string{"(:let (x 1) x)", "(pure 1)"} {
		t.Run(src, func(t *testing.T) {
			e, err := mir.Decode(src)
			if err != nil {
				t.Fatal(err)
			}
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			_, _ = miri.Run(e, miri.Options{})
		})
	}
}

func TestTracer(t *testing.T) {
	var buf bytes.Buffer
	e, err := mir.Decode("(plus 1 2)")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := miri.Run(e, miri.Options{Tracer: miri.NewTracer(&buf)}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "[step=1 depth=0] eval (plus 1 2)\n") {
		t.Fatalf("unexpected trace start:\n%s", out)
	}
	if !strings.Contains(out, "apply <primitive plus [1]> <- 2") {
		t.Fatalf("trace lacks final application:\n%s", out)
	}
}

func TestTracerBoundsLargeExpressions(t *testing.T) {
	e := mir.NewComment(strings.Repeat("\u00e9", 1<<16), mir.LitInt(7))
	for i := 0; i < 2000; i++ {
		e = mir.Call(mir.Prim(mir.PrimPlus), mir.LitInt(0), e)
	}
	var buf bytes.Buffer
	v, err := miri.Run(e, miri.Options{Tracer: miri.NewTracer(&buf)})
	if err != nil {
		t.Fatal(err)
	}
	if v.Int != 7 {
		t.Fatalf("result = %s", v)
	}
	first, _, _ := strings.Cut(buf.String(), "\n")
	detail := strings.TrimPrefix(first, "[step=1 depth=0] eval ")
	if !strings.HasPrefix(detail, "(plus 0 (plus 0") || !strings.HasSuffix(detail, "...") {
		t.Fatalf("unexpected first trace line %q", first)
	}
	if n := utf8.RuneCountInString(detail); n != 72 {
		t.Fatalf("trace detail has %d runes, want 72", n)
	}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !utf8.ValidString(line) {
			t.Fatalf("trace line is not valid UTF-8: %q", line)
		}
	}
}

func TestEnvShadowing(t *testing.T) {
	x := intern.Get("x")
	base := (*miri.Env)(nil).Extend(x, miri.MakeInt(1))
	inner := base.Extend(x, miri.MakeInt(2))
	if v, _ := inner.Lookup(x); v.Int != 2 {
		t.Fatalf("inner x = %s", v)
	}
	if v, _ := base.Lookup(x); v.Int != 1 {
		t.Fatalf("base x = %s", v)
	}
	if _, ok := base.Lookup(intern.Get("missing")); ok {
		t.Fatal("found unbound name")
	}
	if inner.Depth() != 2 {
		t.Fatalf("Depth = %d", inner.Depth())
	}
}
