package driver

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// OutputStyle colors the result markers.
type OutputStyle struct {
	ok   *color.Color
	fail *color.Color
	dim  *color.Color
}

// NewOutputStyle returns a style that colors markers when enabled is true.
func NewOutputStyle(enabled bool) *OutputStyle {
	s := &OutputStyle{
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		dim:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{s.ok, s.fail, s.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s *OutputStyle) okMark(text string) string {
	if s == nil {
		return text
	}
	return s.ok.Sprint(text)
}

func (s *OutputStyle) failMark(text string) string {
	if s == nil {
		return text
	}
	return s.fail.Sprint(text)
}

func (s *OutputStyle) note(text string) string {
	if s == nil {
		return text
	}
	return s.dim.Sprint(text)
}

// WriteResult prints one result:
//
//	!! <decode error>
//	=> <encoded program>
//	=> <value>   or   => error: <message>
func WriteResult(w io.Writer, r *Result, opts *Options) error {
	st := opts.Style
	if r.DecodeErr != nil {
		_, err := fmt.Fprintf(w, "%s %v\n", st.failMark("!!"), r.DecodeErr)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", st.okMark("=>"), r.Encoded); err != nil {
		return err
	}
	var err error
	if r.EvalErr != nil {
		_, err = fmt.Fprintf(w, "%s %s %v\n", st.okMark("=>"), st.failMark("error:"), r.EvalErr)
	} else {
		_, err = fmt.Fprintf(w, "%s %s\n", st.okMark("=>"), r.Value)
	}
	if err != nil || !opts.Stats {
		return err
	}
	cached := ""
	if r.Cached {
		cached = " cached"
	}
	_, err = fmt.Fprintln(w, st.note(fmt.Sprintf(";; steps=%d max_depth=%d%s", r.Stats.Steps, r.Stats.MaxDepth, cached)))
	return err
}
