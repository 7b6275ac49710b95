package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"brine/internal/driver"
	"brine/internal/mir"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Print the desugared tree of each program line",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := cmd.Flags().GetBool("raw")
		if err != nil {
			return err
		}
		flat, err := cmd.Flags().GetBool("flat")
		if err != nil {
			return err
		}
		stats, err := cmd.Flags().GetBool("stats")
		if err != nil {
			return err
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
		sources, err := driver.ReadSources(in)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, src := range sources {
			e, err := mir.Decode(src.Text)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", src.Line, err)
				failed++
				continue
			}
			if !raw {
				e = mir.Desugar(e)
			}
			fmt.Fprintf(out, ";; line %d\n", src.Line)
			if flat {
				fmt.Fprintln(out, mir.Encode(e))
			} else if err := mir.Dump(out, e); err != nil {
				return err
			}
			if stats {
				st := mir.Measure(e)
				fmt.Fprintf(out, ";; nodes=%d depth=%d\n", st.Nodes, st.Depth)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d lines failed to decode", failed, len(sources))
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().Bool("raw", false, "print the decoded tree without desugaring")
	dumpCmd.Flags().Bool("flat", false, "print the textual encoding instead of the indented tree")
	dumpCmd.Flags().Bool("stats", false, "print node count and depth after each tree")
}
