package miri

import (
	"fmt"
	"io"
	"unicode/utf8"

	"brine/internal/mir"
)

const traceExprWidth = 72

// a rune is at most utf8.UTFMax bytes, so this many bytes always holds
// more than traceExprWidth runes when the encoding is longer
const traceExprBytes = (traceExprWidth + 1) * utf8.UTFMax

// Tracer outputs execution traces for debugging.
type Tracer struct {
	w io.Writer
}

// NewTracer creates a new tracer that writes to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// traceStep traces one popped continuation.
// Format: [step=N depth=D] <kind> <detail>
func (t *Tracer) traceStep(step uint64, depth int, c *cont, cur Value) {
	if t == nil || t.w == nil {
		return
	}
	var detail string
	switch c.kind {
	case contEval:
		detail = encodeTrace(c.expr)
	case contIf:
		detail = "cond=" + cur.String()
	case contEvalArg:
		detail = fmt.Sprintf("fn=%s arg=%s", cur, encodeTrace(c.expr))
	case contApply:
		detail = fmt.Sprintf("%s <- %s", c.fn, cur)
	}
	fmt.Fprintf(t.w, "[step=%d depth=%d] %s %s\n", step, depth, c.kind, detail)
}

func encodeTrace(e *mir.Expr) string {
	s, cut := mir.EncodePrefix(e, traceExprBytes)
	if !cut && utf8.RuneCountInString(s) <= traceExprWidth {
		return s
	}
	runes := []rune(s)
	return string(runes[:traceExprWidth-3]) + "..."
}
