package observ_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"brine/internal/observ"
)

func TestTimingsAccumulate(t *testing.T) {
	tm := observ.NewTimings()
	tm.Observe("eval", 2*time.Millisecond)
	tm.Observe("decode", time.Millisecond)
	tm.Observe("eval", 4*time.Millisecond)

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	eval := r.Phases[0]
	if eval.Name != "eval" || eval.Count != 2 || eval.TotalMS != 6 || eval.MaxMS != 4 {
		t.Fatalf("unexpected eval phase: %+v", eval)
	}
	if r.Phases[1].Name != "decode" {
		t.Fatalf("phases out of first-seen order: %+v", r.Phases)
	}
	if r.TotalMS != 7 {
		t.Fatalf("total = %v, want 7", r.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "eval") || !strings.HasPrefix(s, "timings:\n") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestTimingsConcurrent(t *testing.T) {
	tm := observ.NewTimings()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				tm.Start("eval")()
			}
		}()
	}
	wg.Wait()
	if got := tm.Report().Phases[0].Count; got != 800 {
		t.Fatalf("count = %d, want 800", got)
	}
}

func TestNilTimings(t *testing.T) {
	var tm *observ.Timings
	tm.Observe("x", time.Second)
	tm.Start("y")()
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timings reported %+v", r)
	}
}
