// Package trace records what the analyzer is doing: one driver span per run,
// a pass span per file and a loop span per analysed loop.
//
//	loopkern analyze --trace=- --trace-level=detail kernels.c
//
// Tracers travel through the pipeline inside the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "analyze_file")
//	defer span.End("")
//
// Stream mode writes events as they happen (text or NDJSON); ring mode keeps
// the last N events in memory so that a failing run can dump them.
package trace
