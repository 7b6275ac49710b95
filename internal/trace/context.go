package trace

import "context"

type ctxKey struct{}

// ctxState is what a context carries: the tracer and the innermost open
// span, so that Start can parent new spans without being told.
type ctxState struct {
	tracer Tracer
	span   uint64
}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer attaches t to ctx. A nil t detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	st := stateOf(ctx)
	st.tracer = t
	return context.WithValue(ctx, ctxKey{}, st)
}

// SpanID returns the innermost span opened with Start, 0 at the root.
func SpanID(ctx context.Context) uint64 {
	return stateOf(ctx).span
}

// Start opens a span under the innermost span of ctx and returns a context
// in which it is the innermost span. With tracing off the span is inert and
// ctx is returned as is.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := stateOf(ctx)
	sp := Begin(st.tracer, scope, name, st.span)
	if sp.id == 0 {
		return ctx, sp
	}
	st.span = sp.id
	return context.WithValue(ctx, ctxKey{}, st), sp
}
