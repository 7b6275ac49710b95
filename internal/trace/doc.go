// Package trace records what the brine driver is doing: which input line it
// is on and which pass (decode, desugar, eval) that line is in.
//
// # Usage
//
//	brine miri --trace=- --trace-level=detail prog.mir
//
// # Tracers
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes each event as it happens
//   - RingTracer: keeps the last N events for a post-mortem dump
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopePass events, LevelDetail adds
// ScopeLine, LevelDebug emits everything.
//
// Tracers and the innermost open span travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "eval")
//	defer span.End("")
package trace
