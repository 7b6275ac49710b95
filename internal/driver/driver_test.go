package driver_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"brine/internal/driver"
	"brine/internal/mir"
	"brine/internal/observ"
	"brine/internal/trace"
)

const program = `; arithmetic
((plus 2) 3)
((minus 10) 4)

(:let (x 5) ((:lambda y (plus x y)) 3))
(:if 5 1 2)
((:lambda x y) 1)
(:lambda x
(plus 1)
(div 1 0)
`

func runText(t *testing.T, src string, opts *driver.Options) (string, driver.Summary) {
	t.Helper()
	var out bytes.Buffer
	sum, err := driver.Run(context.Background(), strings.NewReader(src), &out, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), sum
}

func TestRunOutput(t *testing.T) {
	got, sum := runText(t, program, &driver.Options{})
	want := strings.Join([]string{
		"=> (plus 2 3)",
		"=> 5",
		"=> (minus 10 4)",
		"=> 6",
		"=> (:let (x 5) ((:lambda y (plus x y)) 3))",
		"=> 8",
		"=> (:if 5 1 2)",
		"=> error: type error: if condition must be bool, got 5",
		"=> ((:lambda x y) 1)",
		"=> error: undefined reference: y",
		"!! MIR1001 at offset 10: unclosed '(' opened at offset 0",
		"=> (plus 1)",
		"=> <primitive plus [1]>",
		"=> (div 1 0)",
		"=> error: division by zero: div 1 0",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("output:\n%s\nwant:\n%s", got, want)
	}
	if sum.Lines != 8 || sum.DecodeErrors != 1 || sum.EvalErrors != 3 || !sum.Failed() {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	var sb strings.Builder
	for range 20 {
		sb.WriteString(program)
	}
	seq, _ := runText(t, sb.String(), &driver.Options{Jobs: 1, Stats: true})
	par, _ := runText(t, sb.String(), &driver.Options{Jobs: 8, Stats: true})
	if seq != par {
		t.Fatal("parallel output differs from sequential output")
	}
}

func TestDiskCacheRejectsSugaredProgram(t *testing.T) {
	cache, err := driver.OpenDiskCache("brine", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := "(:let (x 4) (then ((set 0) x) (:lambda _ (get 0))))"
	first, _ := runText(t, src+"\n", &driver.Options{Cache: cache})

	key := driver.KeyOf(src)
	var payload driver.DiskPayload
	if ok, err := cache.Get(key, &payload); err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	sugared, err := mir.MarshalBinary(mustDecode(t, src))
	if err != nil {
		t.Fatal(err)
	}
	payload.Program = sugared
	if err := cache.Put(key, &payload); err != nil {
		t.Fatal(err)
	}

	second, sum := runText(t, src+"\n", &driver.Options{Cache: cache, Stats: true})
	if strings.Contains(second, "cached") {
		t.Fatalf("sugared entry was used:\n%s", second)
	}
	if sum.Failed() || !strings.HasPrefix(second, first) {
		t.Fatalf("output changed:\n%s\nvs\n%s", first, second)
	}
}

func mustDecode(t *testing.T, src string) *mir.Expr {
	t.Helper()
	e, err := mir.Decode(src)
	if err != nil {
		t.Fatalf("Decode(%q): %v", src, err)
	}
	return e
}

func TestTimingsCountPhases(t *testing.T) {
	tm := observ.NewTimings()
	runText(t, program, &driver.Options{Jobs: 4, Timings: tm})
	counts := map[string]int{}
	for _, p := range tm.Report().Phases {
		counts[p.Name] = p.Count
	}
	want := map[string]int{"decode": 8, "desugar": 7, "eval": 7}
	for name, n := range want {
		if counts[name] != n {
			t.Errorf("%s observed %d times, want %d", name, counts[name], n)
		}
	}
}

func TestDiskCache(t *testing.T) {
	cache, err := driver.OpenDiskCache("brine", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := "(:let (f (:lambda n (times n n))) (f 12))\n"
	first, _ := runText(t, src, &driver.Options{Cache: cache, Stats: true})
	second, _ := runText(t, src, &driver.Options{Cache: cache, Stats: true})
	if strings.Contains(first, "cached") {
		t.Fatalf("first run hit the cache:\n%s", first)
	}
	if !strings.Contains(second, "cached") {
		t.Fatalf("second run missed the cache:\n%s", second)
	}
	if strings.Replace(second, " cached", "", 1) != first {
		t.Fatalf("cached output differs:\n%s\nvs\n%s", first, second)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	third, _ := runText(t, src, &driver.Options{Cache: cache, Stats: true})
	if strings.Contains(third, "cached") {
		t.Fatal("DropAll kept entries")
	}
}

func TestEvalLineTraces(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)
	res := driver.EvalLine(ctx, 3, "(plus 1 2)", &driver.Options{})
	if res.Failed() || res.Value.Int != 3 {
		t.Fatalf("EvalLine = %+v", res)
	}
	out := buf.String()
	for _, want := range []string{"line:3", "decode", "desugar", "eval", "steps="} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace lacks %q:\n%s", want, out)
		}
	}
}

func TestEvalLineTracesFailure(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	res := driver.EvalLine(ctx, 1, "(div 1 0)", &driver.Options{})
	if res.EvalErr == nil {
		t.Fatal("expected evaluation error")
	}
	var evalEnd, point bool
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Name == "eval" && ev.Kind == trace.KindSpanEnd:
			evalEnd = ev.Extra["failed"] == "true" && ev.Detail == "division by zero: div 1 0"
		case ev.Name == "eval failed":
			point = strings.Contains(ev.Detail, "MIRI2004")
		}
	}
	if !evalEnd || !point {
		t.Fatalf("failure not traced: %+v", ring.Snapshot())
	}
}

func TestEvalLineTracesStepsAtDebug(t *testing.T) {
	tests := []struct {
		name  string
		level trace.Level
		steps bool
	}{
		{"detail", trace.LevelDetail, false},
		{"debug", trace.LevelDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ring := trace.NewRingTracer(1024, tt.level)
			ctx := trace.WithTracer(context.Background(), ring)
			res := driver.EvalLine(ctx, 1, "(plus 1 2)", &driver.Options{})
			if res.Failed() || res.Value.Int != 3 {
				t.Fatalf("EvalLine = %+v", res)
			}
			var evalID uint64
			var steps []trace.Event
			for _, ev := range ring.Snapshot() {
				switch {
				case ev.Name == "eval" && ev.Kind == trace.KindSpanBegin:
					evalID = ev.SpanID
				case ev.Scope == trace.ScopeStep:
					steps = append(steps, ev)
				}
			}
			if !tt.steps {
				if len(steps) != 0 {
					t.Fatalf("step events at %s: %+v", tt.level, steps)
				}
				return
			}
			if uint64(len(steps)) != res.Stats.Steps {
				t.Fatalf("%d step events for %d steps", len(steps), res.Stats.Steps)
			}
			first := steps[0]
			if first.Kind != trace.KindPoint || first.ParentID != evalID || first.Name != "eval" || first.Detail != "step=1 depth=0" {
				t.Fatalf("first step event = %+v (eval span %d)", first, evalID)
			}
		})
	}
}

func TestVMTraceForcesSequential(t *testing.T) {
	var vm bytes.Buffer
	out, _ := runText(t, "(plus 1 2)\n(plus 3 4)\n", &driver.Options{Jobs: 4, VMTrace: &vm})
	if out != "=> (plus 1 2)\n=> 3\n=> (plus 3 4)\n=> 7\n" {
		t.Fatalf("output:\n%s", out)
	}
	if strings.Count(vm.String(), "[step=1 ") != 2 {
		t.Fatalf("vm trace:\n%s", vm.String())
	}
}

func TestRunLongLine(t *testing.T) {
	long := `(:comment "` + strings.Repeat("x", 2<<20) + `" (plus 3 3))`
	src := "(plus 1 1)\n" + long + "\r\n(plus 2 2)"
	for _, jobs := range []int{1, 4} {
		out, sum := runText(t, src, &driver.Options{Jobs: jobs})
		if sum.Lines != 3 || sum.Failed() {
			t.Fatalf("jobs=%d: summary = %+v", jobs, sum)
		}
		if !strings.HasPrefix(out, "=> (plus 1 1)\n=> 2\n") ||
			!strings.Contains(out, "(plus 3 3))\n=> 6\n") ||
			!strings.HasSuffix(out, "=> (plus 2 2)\n=> 4\n") {
			t.Fatalf("jobs=%d: unexpected output around the long line", jobs)
		}
	}
}

func TestIsProgram(t *testing.T) {
	for line, want := range map[string]bool{"": false, "   ": false, "; c": false, "  ;c": false, "1": true} {
		if got := driver.IsProgram(line); got != want {
			t.Errorf("IsProgram(%q) = %v", line, got)
		}
	}
}
