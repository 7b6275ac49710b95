package mir_test

import (
	"strings"
	"testing"

	"brine/internal/mir"
)

func TestDesugarLet(t *testing.T) {
	e := mustDecode(t, "(:let (x 5) (plus x 1))")
	got := mir.Desugar(e)
	want := mustDecode(t, "((:lambda x (plus x 1)) 5)")
	if !mir.Equal(got, want) {
		t.Fatalf("Desugar = %s, want %s", got, want)
	}
}

func TestDesugarNestedLetInsideLambda(t *testing.T) {
	e := mustDecode(t, `(:lambda y (:comment "c" (:let (a (:let (b y) b)) (:if true a 0))))`)
	got := mir.Desugar(e)
	want := mustDecode(t, `(:lambda y (:comment "c" ((:lambda a (:if true a 0)) ((:lambda b b) y))))`)
	if !mir.Equal(got, want) {
		t.Fatalf("Desugar = %s\nwant %s", got, want)
	}
}

func TestDesugarIdempotent(t *testing.T) {
	srcs := []string{
		"1",
		"(:let (x 1) (:let (x 2) x))",
		"(then (get 0) (:lambda v (pure v)))",
		"(lift (plus 1) (pure 2))",
		"((set 0) 5)",
		"(y-combinator (:lambda f (:lambda n n)))",
		`(:comment "keep" (:let (z null) z))`,
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			once := mir.Desugar(mustDecode(t, src))
			twice := mir.Desugar(once)
			if !mir.Equal(once, twice) {
				t.Fatalf("not idempotent:\n%s\n%s", once, twice)
			}
			if err := mir.CheckDesugared(once); err != nil {
				t.Fatalf("CheckDesugared: %v", err)
			}
			if strings.Contains(mir.Encode(once), ":let") {
				t.Fatalf("let survived: %s", once)
			}
		})
	}
}

func TestDesugarKeepsLeavesShared(t *testing.T) {
	leaf := mir.LitInt(3)
	if got := mir.Desugar(leaf); got != leaf {
		t.Fatal("literal leaf was copied")
	}
	p := mir.Prim(mir.PrimPlus)
	if got := mir.Desugar(p); got != p {
		t.Fatal("pure primitive was copied")
	}
}

func TestCheckDesugaredReportsLeftovers(t *testing.T) {
	if err := mir.CheckDesugared(mustDecode(t, "(:let (x 1) x)")); err == nil {
		t.Fatal("let not reported")
	}
	err := mir.CheckDesugared(mustDecode(t, "(pure 1)"))
	if err == nil || !strings.Contains(err.Error(), "pure") {
		t.Fatalf("stateful primitive not reported: %v", err)
	}
	if !mir.IsDesugared(mustDecode(t, "((:lambda x x) (plus 1 2))")) {
		t.Fatal("core expression reported as sugared")
	}
}

func TestNop(t *testing.T) {
	if got := mir.Encode(mir.Nop()); got != "(pure null)" {
		t.Fatalf("Nop = %s", got)
	}
}

func TestInitialState(t *testing.T) {
	if got := mir.Encode(mir.InitialState(2)); got != "(cons null (cons null null))" {
		t.Fatalf("InitialState(2) = %s", got)
	}
	if got := mir.Encode(mir.InitialState(0)); got != "null" {
		t.Fatalf("InitialState(0) = %s", got)
	}
}
