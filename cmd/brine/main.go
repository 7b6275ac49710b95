package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"brine/internal/config"
	"brine/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "brine",
	Short:         "MIR toolkit and reference interpreter",
	Long:          `Brine decodes, desugars and evaluates textual MIR programs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		activeConfig = cfg
		useColor, err := resolveColor(cmd, cfg)
		if err != nil {
			return err
		}
		color.NoColor = !useColor
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		if profileCleanup, err = setupProfiling(cmd); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runCleanups()
	},
}

var (
	activeConfig   = config.Default()
	traceCleanup   func()
	profileCleanup func()
)

// runCleanups stops profilers and flushes the tracer. It also runs when a
// command fails, since cobra skips PersistentPostRun on error.
func runCleanups() {
	if profileCleanup != nil {
		profileCleanup()
		profileCleanup = nil
	}
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

// main registers subcommands and persistent flags, then executes the root
// command. Any error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(miriCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to brine.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		fmt.Fprintf(os.Stderr, "brine: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// resolveColor combines --color with [output].color; the flag wins when set.
func resolveColor(cmd *cobra.Command, cfg config.Config) (bool, error) {
	flags := cmd.Root().PersistentFlags()
	mode := cfg.Output.Color
	if flags.Changed("color") {
		var err error
		if mode, err = flags.GetString("color"); err != nil {
			return false, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color %q (must be auto, on or off)", mode)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
