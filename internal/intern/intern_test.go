package intern_test

import (
	"sync"
	"testing"

	"brine/internal/intern"
)

func TestInternStable(t *testing.T) {
	tbl := intern.NewTable()
	a := tbl.Intern("alpha")
	b := tbl.Intern("beta")
	if a == b {
		t.Fatalf("distinct strings share id %d", a)
	}
	if again := tbl.Intern("alpha"); again != a {
		t.Fatalf("re-interning alpha: got %d, want %d", again, a)
	}
	if s, ok := tbl.Lookup(b); !ok || s != "beta" {
		t.Fatalf("Lookup(%d) = %q, %v", b, s, ok)
	}
	if _, ok := tbl.Lookup(intern.Name(999)); ok {
		t.Fatal("Lookup of unknown id succeeded")
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}
}

func TestInternEmptyIsNoName(t *testing.T) {
	tbl := intern.NewTable()
	if id := tbl.Intern(""); id != intern.NoName {
		t.Fatalf("empty string id = %d, want NoName", id)
	}
}

func TestInternNormalizesNFC(t *testing.T) {
	tbl := intern.NewTable()
	composed := tbl.Intern("caf\u00e9")
	decomposed := tbl.Intern("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("NFC variants got different ids: %d vs %d", composed, decomposed)
	}
}

func TestGlobalString(t *testing.T) {
	n := intern.Get("gamma")
	if n.String() != "gamma" {
		t.Fatalf("String() = %q", n.String())
	}
	if intern.Get("gamma") != n {
		t.Fatal("global table returned a new id")
	}
}

func TestInternConcurrent(t *testing.T) {
	tbl := intern.NewTable()
	var wg sync.WaitGroup
	ids := make([]intern.Name, 32)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = tbl.Intern("shared")
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("concurrent interning diverged: %v", ids)
		}
	}
}
