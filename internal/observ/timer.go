package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase accumulates the durations observed for one named phase.
type Phase struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
}

// Timings collects per-phase durations from any number of goroutines.
// A nil *Timings discards everything.
type Timings struct {
	mu     sync.Mutex
	order  []string
	phases map[string]*Phase
}

// NewTimings creates an empty collector.
func NewTimings() *Timings {
	return &Timings{phases: make(map[string]*Phase, 4)}
}

// Observe adds one sample for name. Phases are reported in the order they
// were first observed.
func (t *Timings) Observe(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.phases[name]
	if !ok {
		p = &Phase{Name: name}
		t.phases[name] = p
		t.order = append(t.order, name)
	}
	p.Count++
	p.Total += d
	if d > p.Max {
		p.Max = d
	}
}

// Start returns a function that records the time elapsed since Start.
func (t *Timings) Start(name string) func() {
	if t == nil {
		return func() {}
	}
	begin := time.Now()
	return func() { t.Observe(name, time.Since(begin)) }
}

// PhaseReport is the serializable form of a Phase.
type PhaseReport struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	TotalMS float64 `json:"total_ms"`
	MaxMS   float64 `json:"max_ms"`
}

// Report holds every phase and the sum of their totals.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the collected phases.
func (t *Timings) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.order) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, 0, len(t.order))}
	var total time.Duration
	for _, name := range t.order {
		p := t.phases[name]
		total += p.Total
		report.Phases = append(report.Phases, PhaseReport{
			Name:    p.Name,
			Count:   p.Count,
			TotalMS: durationToMillis(p.Total),
			MaxMS:   durationToMillis(p.Max),
		})
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary renders the report as an aligned table.
func (t *Timings) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-10s %6d x %9.2f ms  (max %.2f ms)\n", p.Name, p.Count, p.TotalMS, p.MaxMS)
	}
	fmt.Fprintf(&sb, "  %-10s %18.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
