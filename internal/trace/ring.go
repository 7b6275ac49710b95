package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory so they can be dumped
// after a failure.
type RingTracer struct {
	mu      sync.Mutex
	buf     []Event
	written uint64 // events ever stored; buf[written%len(buf)] is next
	level   Level
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores a copy of ev, evicting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	slot := &t.buf[t.written%uint64(len(t.buf))]
	*slot = *ev
	slot.Seq = nextSeq()
	t.written++
}

// Len returns the number of events currently held.
func (t *RingTracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(min(t.written, uint64(len(t.buf))))
}

// Dropped returns how many events were evicted.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written - min(t.written, uint64(len(t.buf)))
}

// Snapshot returns the held events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	n := min(t.written, size)
	out := make([]Event, 0, n)
	for i := t.written - n; i < t.written; i++ {
		out = append(out, t.buf[i%size])
	}
	return out
}

// Dump writes the held events in format, preceded by a note when older
// events were evicted.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	if dropped := t.Dropped(); dropped > 0 && format != FormatNDJSON {
		if _, err := fmt.Fprintf(w, "... %d earlier events dropped\n", dropped); err != nil {
			return err
		}
	}
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op.
func (t *RingTracer) Flush() error { return nil }

// Close is a no-op.
func (t *RingTracer) Close() error { return nil }

// Level returns the tracer's level.
func (t *RingTracer) Level() Level { return t.level }

// Enabled reports whether the level is above LevelOff.
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
