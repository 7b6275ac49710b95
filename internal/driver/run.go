package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"brine/internal/trace"
)

// Source is one program line with its 1-based position in the input.
type Source struct {
	Line int
	Text string
}

// IsProgram reports whether a raw input line holds a program: blank lines
// and lines starting with ';' are skipped.
func IsProgram(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && !strings.HasPrefix(trimmed, ";")
}

// ReadSources collects the program lines of r.
func ReadSources(r io.Reader) ([]Source, error) {
	var out []Source
	err := scanLines(r, func(lineNo int, text string) error {
		out = append(out, Source{Line: lineNo, Text: text})
		return nil
	})
	return out, err
}

// scanLines calls fn for every program line of r. Lines may be of any
// length.
func scanLines(r io.Reader, fn func(lineNo int, text string) error) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for lineNo := 1; ; lineNo++ {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		if text == "" && err != nil {
			return nil
		}
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
		if IsProgram(text) {
			if ferr := fn(lineNo, text); ferr != nil {
				return ferr
			}
		}
		if err != nil {
			return nil
		}
	}
}

// Run evaluates every program line of r and writes results to w in input
// order. Bad lines are reported and skipped; only I/O failures and context
// cancellation end the run early.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts *Options) (Summary, error) {
	if opts == nil {
		opts = &Options{}
	}
	ctx, root := trace.Start(ctx, trace.ScopeDriver, "run")

	var (
		sum Summary
		err error
	)
	if opts.Jobs <= 1 || opts.VMTrace != nil {
		sum, err = runSequential(ctx, r, w, opts)
	} else {
		sum, err = runParallel(ctx, r, w, opts)
	}
	root.WithExtra("lines", fmt.Sprint(sum.Lines)).
		WithExtra("decode_errors", fmt.Sprint(sum.DecodeErrors)).
		WithExtra("eval_errors", fmt.Sprint(sum.EvalErrors)).
		End("")
	return sum, err
}

func runSequential(ctx context.Context, r io.Reader, w io.Writer, opts *Options) (Summary, error) {
	var sum Summary
	err := scanLines(r, func(lineNo int, text string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := EvalLine(ctx, lineNo, text, opts)
		sum.add(res)
		return WriteResult(w, res, opts)
	})
	return sum, err
}

func runParallel(ctx context.Context, r io.Reader, w io.Writer, opts *Options) (Summary, error) {
	var sum Summary
	sources, err := ReadSources(r)
	if err != nil {
		return sum, err
	}
	results, err := EvalAll(ctx, sources, opts)
	if err != nil {
		return sum, err
	}
	for _, res := range results {
		sum.add(res)
		if err := WriteResult(w, res, opts); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

// EvalAll evaluates sources concurrently, at most opts.Jobs at a time, and
// returns results in input order. Evaluations share nothing but the
// interning table and the cache.
func EvalAll(ctx context.Context, sources []Source, opts *Options) ([]*Result, error) {
	results := make([]*Result, len(sources))
	if len(sources) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(sources)))
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// each goroutine owns results[i]
			results[i] = EvalLine(gctx, src.Line, src.Text, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
