package vect

import (
	"context"
	"fmt"
	"strconv"

	"loopkern/internal/ast"
	"loopkern/internal/trace"
)

// Options tune the analysis.
type Options struct {
	// PermissiveTripCount accepts any bare-variable loop bound as predictable
	// without proving the variable is used only for loop control.
	PermissiveTripCount bool
}

// Analyze produces the verdict for one loop. It never fails: every shape it
// does not understand degrades to "not vectorizable" with a reason.
func Analyze(ctx context.Context, b *ast.Builder, info Info, l Loop, opts Options) Verdict {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStep, "analyze", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	var v Verdict
	reason := func(format string, args ...any) {
		v.Reasons = append(v.Reasons, fmt.Sprintf(format, args...))
	}

	// trip count
	trip := analyzeTripCount(b, info, &l, opts)
	v.HasConstantTripCount = trip.Constant
	v.TripCount = trip.Count
	v.Reasons = append(v.Reasons, trip.Reason)

	// pattern
	red := detectReduction(b, info, l.Body)
	deps := dependencies(b, info, &l)
	v.HasDependencies = len(deps) > 0
	if red.Found {
		v.IsReduction = true
		v.Reduction = red
		v.ReductionVar = red.Name
		v.ReductionSym = red.Symbol
		reason("Reduction detected on variable '%s' (%s=)", red.Name, red.Op)
	}
	if eop, ok := findSimplePattern(b, l.Body); ok && !v.HasDependencies {
		v.SimplePattern = true
		v.ElementOp = eop
		reason("Simple arithmetic pattern: %s", b.ExprString(eop.Assign))
	}

	// dependency
	if v.HasDependencies {
		reason("Loop-carried dependency: %s reads the element written by the previous iteration", b.ExprString(deps[0]))
	}

	// type
	uni := checkTypeUniformity(b, info, l.Body)
	v.Elem = uni.Elem
	if !uni.Uniform {
		in := info.Types()
		reason("Mixed computation types: %s and %s", in.Label(uni.Elem), in.Label(uni.Second))
	}

	v.IsVectorizable = (v.HasConstantTripCount || v.IsReduction || v.SimplePattern) &&
		(!v.HasDependencies || v.IsReduction) &&
		uni.Uniform
	switch {
	case v.IsReduction:
		v.Kind = KindReduction
	case v.SimplePattern:
		v.Kind = KindSimpleArithmetic
	}

	// final
	switch {
	case v.IsVectorizable:
		v.Width = WidthNarrow
		if !v.IsReduction && v.HasConstantTripCount && v.TripCount >= uint64(WidthWide) {
			v.Width = WidthWide
		}
		reason("Loop is vectorizable with width %d", v.Width)
	case v.HasDependencies:
		reason("Cannot vectorize due to dependencies")
	default:
		reason("Loop is not vectorizable")
	}

	span.WithExtra("width", strconv.FormatUint(uint64(v.Width), 10)).
		WithExtra("reduction", strconv.FormatBool(v.IsReduction))
	return v
}
