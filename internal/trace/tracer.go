package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Tracer receives trace events. Implementations must be safe for
// concurrent use and may overwrite ev.Seq.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything.
var Nop Tracer = nopTracer{}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory for a dump
	ModeBoth                          // both of the above
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode parses stream, ring or both.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes a tracer built by New.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto: ndjson for .ndjson/.jsonl paths, text otherwise
	Output     io.Writer // stream destination; overrides OutputPath
	OutputPath string    // "" or "-" means stderr
	RingSize   int       // ring capacity, 4096 when <= 0
}

func (c Config) format() Format {
	if c.Format != FormatAuto {
		return c.Format
	}
	switch filepath.Ext(c.OutputPath) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

func (c Config) writer() (io.Writer, error) {
	switch {
	case c.Output != nil:
		return c.Output, nil
	case c.OutputPath == "" || c.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(c.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	var stream, ring Tracer
	if cfg.Mode == ModeStream || cfg.Mode == ModeBoth {
		w, err := cfg.writer()
		if err != nil {
			return nil, err
		}
		stream = NewStreamTracer(w, cfg.Level, cfg.format())
	}
	if cfg.Mode == ModeRing || cfg.Mode == ModeBoth {
		ring = NewRingTracer(cfg.RingSize, cfg.Level)
	}
	switch {
	case stream != nil && ring != nil:
		return NewMultiTracer(cfg.Level, stream, ring), nil
	case stream != nil:
		return stream, nil
	case ring != nil:
		return ring, nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}
