// Package driver runs textual MIR programs line by line: decode, desugar,
// evaluate, and print.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"brine/internal/mir"
	"brine/internal/observ"
	"brine/internal/miri"
	"brine/internal/trace"
)

// Options configures a driver run.
type Options struct {
	Jobs     int          // parallel evaluations; <= 1 means sequential streaming
	Cache    *DiskCache   // optional cache of decoded programs
	VMTrace  io.Writer    // per-step interpreter trace; forces sequential mode
	Stats    bool         // print step and depth counters after each result
	MaxSteps uint64       // interpreter step budget per line, 0 = unlimited
	Style    *OutputStyle // markers; nil means plain
	Timings  *observ.Timings
}

// Result is the outcome of one input line.
type Result struct {
	Line      int    // 1-based input line number
	Source    string // the line as read
	DecodeErr error  // set when the line did not decode
	Encoded   string // re-encoded program
	Value     miri.Value
	EvalErr   error // set when evaluation failed
	Stats     miri.Stats
	Cached    bool // program came from the disk cache
}

// Failed reports whether the line produced an error of either kind.
func (r *Result) Failed() bool {
	return r.DecodeErr != nil || r.EvalErr != nil
}

// EvalLine decodes, desugars and evaluates one program. Failures are
// recorded in the Result; EvalLine itself does not fail.
func EvalLine(ctx context.Context, lineNo int, src string, opts *Options) *Result {
	res := &Result{Line: lineNo, Source: src}
	tr := trace.FromContext(ctx)
	ctx, lineSpan := trace.Start(ctx, trace.ScopeLine, "line:"+strconv.Itoa(lineNo))
	defer func() {
		detail := "ok"
		if res.Failed() {
			detail = "failed"
		}
		lineSpan.End(detail)
	}()

	prog, ok := opts.Cache.lookup(src, res)
	if !ok {
		_, sp := trace.Start(ctx, trace.ScopePass, "decode")
		done := opts.Timings.Start("decode")
		e, err := mir.Decode(src)
		done()
		if err != nil {
			sp.Fail(err)
			res.DecodeErr = err
			trace.Point(tr, trace.ScopeDriver, "decode failed", fmt.Sprintf("line %d: %v", lineNo, err), lineSpan.ID())
			return res
		}
		res.Encoded = mir.Encode(e)
		sp.End("")

		_, sp = trace.Start(ctx, trace.ScopePass, "desugar")
		done = opts.Timings.Start("desugar")
		prog = mir.Desugar(e)
		done()
		st := mir.Measure(prog)
		sp.WithExtra("nodes", strconv.Itoa(st.Nodes)).WithExtra("depth", strconv.Itoa(st.Depth)).End("")

		opts.Cache.store(src, res.Encoded, prog)
	}

	_, sp := trace.Start(ctx, trace.ScopePass, "eval")
	var vmTrace *miri.Tracer
	if opts.VMTrace != nil {
		vmTrace = miri.NewTracer(opts.VMTrace)
	}
	runOpts := miri.Options{Tracer: vmTrace, MaxSteps: opts.MaxSteps}
	if tr.Level().ShouldEmit(trace.ScopeStep) {
		evalID := sp.ID()
		runOpts.OnStep = func(step uint64, depth int, kind string) {
			trace.Point(tr, trace.ScopeStep, kind, "step="+strconv.FormatUint(step, 10)+" depth="+strconv.Itoa(depth), evalID)
		}
	}
	done := opts.Timings.Start("eval")
	v, stats, err := miri.RunWithStats(prog, runOpts)
	done()
	res.Stats = stats
	sp.WithExtra("steps", strconv.FormatUint(stats.Steps, 10)).WithExtra("max_depth", strconv.Itoa(stats.MaxDepth))
	if err != nil {
		res.EvalErr = err
		sp.Fail(err)
		code := "?"
		var me *miri.Error
		if errors.As(err, &me) {
			code = me.Code.String()
		}
		trace.Point(tr, trace.ScopeDriver, "eval failed", fmt.Sprintf("line %d: %s %v", lineNo, code, err), lineSpan.ID())
		return res
	}
	res.Value = v
	sp.End("")
	return res
}

// Summary counts what a run did.
type Summary struct {
	Lines        int
	DecodeErrors int
	EvalErrors   int
}

func (s *Summary) add(r *Result) {
	s.Lines++
	switch {
	case r.DecodeErr != nil:
		s.DecodeErrors++
	case r.EvalErr != nil:
		s.EvalErrors++
	}
}

// Failed reports whether any line failed.
func (s Summary) Failed() bool {
	return s.DecodeErrors+s.EvalErrors > 0
}
