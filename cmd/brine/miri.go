package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"brine/internal/driver"
	"brine/internal/observ"
)

var miriCmd = &cobra.Command{
	Use:   "miri [file]",
	Short: "Evaluate MIR programs, one per line",
	Long: `Decode, desugar and evaluate every line of a file (or stdin) as a
standalone MIR program. Blank lines and lines starting with ';' are skipped.
With no file and a terminal on stdin, an interactive prompt is started.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMiri,
}

func init() {
	registerMiriFlags(miriCmd)
}

func registerMiriFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 1, "evaluate up to N lines in parallel (0 = GOMAXPROCS)")
	cmd.Flags().Bool("cache", false, "cache decoded programs on disk")
	cmd.Flags().String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/brine)")
	cmd.Flags().Bool("vm-trace", false, "print every interpreter step to stderr")
	cmd.Flags().Bool("stats", false, "print step and depth counters after each result")
	cmd.Flags().Uint64("max-steps", 0, "abort a program after N interpreter steps (0 = unlimited)")
	cmd.Flags().Bool("timings", false, "print per-phase timings to stderr when done")
}

// miriOptions merges brine.toml with the command flags.
func miriOptions(cmd *cobra.Command) (*driver.Options, error) {
	cfg := activeConfig
	flags := cmd.Flags()
	opts := &driver.Options{
		Jobs:     cfg.Miri.Jobs,
		Stats:    cfg.Miri.Stats,
		MaxSteps: cfg.Miri.MaxSteps,
		Style:    driver.NewOutputStyle(!color.NoColor),
	}
	vmTrace := cfg.Miri.VMTrace
	useCache := cfg.Cache.Enabled
	cacheDir := cfg.Cache.Dir

	var err error
	if flags.Changed("jobs") {
		if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("stats") {
		if opts.Stats, err = flags.GetBool("stats"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-steps") {
		if opts.MaxSteps, err = flags.GetUint64("max-steps"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("vm-trace") {
		if vmTrace, err = flags.GetBool("vm-trace"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cache") {
		if useCache, err = flags.GetBool("cache"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cache-dir") {
		if cacheDir, err = flags.GetString("cache-dir"); err != nil {
			return nil, err
		}
	}
	if opts.Jobs < 0 {
		return nil, fmt.Errorf("invalid --jobs %d: must not be negative", opts.Jobs)
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}

	if vmTrace {
		opts.VMTrace = os.Stderr
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, err
	}
	if timings {
		opts.Timings = observ.NewTimings()
	}
	if useCache {
		cache, err := driver.OpenDiskCache("brine", cacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		opts.Cache = cache
	}
	return opts, nil
}

func runMiri(cmd *cobra.Command, args []string) error {
	opts, err := miriOptions(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if opts.Timings != nil {
		defer func() { fmt.Fprint(cmd.ErrOrStderr(), opts.Timings.Summary()) }()
	}

	if len(args) == 0 && isTerminal(os.Stdin) {
		return runREPL(ctx, out, opts)
	}

	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	sum, err := driver.Run(ctx, in, out, opts)
	if err != nil {
		return err
	}
	if sum.Failed() {
		dumpRing(cmd)
		return fmt.Errorf("%d of %d lines failed (%d decode, %d eval)",
			sum.DecodeErrors+sum.EvalErrors, sum.Lines, sum.DecodeErrors, sum.EvalErrors)
	}
	return nil
}

// runREPL reads programs with line editing until EOF or Ctrl-C and prints
// each result as it is evaluated.
func runREPL(ctx context.Context, out io.Writer, opts *driver.Options) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for lineNo := 1; ; lineNo++ {
		text, err := line.Prompt("miri> ")
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(out)
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}
		if !driver.IsProgram(text) {
			continue
		}
		line.AppendHistory(strings.TrimSpace(text))
		res := driver.EvalLine(ctx, lineNo, text, opts)
		if err := driver.WriteResult(out, res, opts); err != nil {
			return err
		}
	}
}
