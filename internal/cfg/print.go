package cfg

import (
	"fmt"
	"io"
	"strings"

	"brine/internal/mir"
)

// Dump writes a human-readable listing of f.
func Dump(w io.Writer, f *Func) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fn %s slots=%d entry=%s return=%s\n", f.Name, f.Slots, f.Entry, f.Return)
	for i, name := range f.SlotNames {
		fmt.Fprintf(&sb, "  slot %d: %s\n", i, name)
	}
	for i := range f.Blocks {
		b := &f.Blocks[i]
		if b.ID == f.Return {
			fmt.Fprintf(&sb, "%s: (return)\n", b.ID)
		} else {
			fmt.Fprintf(&sb, "%s:\n", b.ID)
		}
		for _, line := range b.Lines {
			sb.WriteString("  ")
			sb.WriteString(formatLine(line))
			sb.WriteByte('\n')
		}
		if b.Jump.Kind != JumpNone {
			fmt.Fprintf(&sb, "  %s\n", b.Jump)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatLine(line DoLine) string {
	switch line.Kind {
	case DoAction:
		return "do " + mir.Encode(line.Expr)
	case DoBind:
		return fmt.Sprintf("bind %s <- %s", line.Name, mir.Encode(line.Expr))
	case DoPure:
		return "pure " + mir.Encode(line.Expr)
	case DoMap:
		return "map " + mir.Encode(line.Expr)
	default:
		return fmt.Sprintf("<line kind %d>", line.Kind)
	}
}
