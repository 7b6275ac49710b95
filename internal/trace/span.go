package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// Span is an open begin/end pair. A Span returned while tracing is off is
// inert: every method is a no-op and ID is 0.
type Span struct {
	tracer Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
	attrs  map[string]string
}

// Begin emits a begin event for name under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	sp := &Span{
		tracer: t,
		id:     spanCounter.Add(1),
		parent: parent,
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	sp.emit(KindSpanBegin, sp.start, "", nil)
	return sp
}

func (s *Span) live() bool { return s != nil && s.id != 0 }

func (s *Span) emit(kind Kind, at time.Time, detail string, attrs map[string]string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Extra:    attrs,
	})
}

// WithExtra records key=value on the end event and returns s.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string, 2)
	}
	s.attrs[key] = value
	return s
}

// End closes the span with an optional detail and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.attrs)
	return now.Sub(s.start)
}

// Fail closes the span with err as the detail and marks it failed.
func (s *Span) Fail(err error) time.Duration {
	if err == nil {
		return s.End("")
	}
	return s.WithExtra("failed", "true").End(err.Error())
}

// ID returns the span id, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
