package vect

import (
	"fmt"

	"loopkern/internal/ast"
	"loopkern/internal/sema"
)

type tripCount struct {
	Constant bool
	Count    uint64 // only set when the bound is a literal
	Reason   string
}

// analyzeTripCount inspects the loop condition. A literal right operand is
// the trip count. A bare variable on the left is accepted when it is the
// induction variable, the body never writes it and the bound is not written
// either; Permissive skips that proof.
func analyzeTripCount(b *ast.Builder, info Info, l *Loop, opts Options) tripCount {
	cmp, ok := b.Exprs.Binary(b.Exprs.Unparen(l.Cond))
	if !ok || !cmp.Op.IsComparison() {
		return tripCount{Reason: "No constant trip count: loop condition is not a comparison"}
	}
	if v, ok := intLiteral(b, cmp.Right); ok && v >= 0 {
		return tripCount{
			Constant: true,
			Count:    uint64(v), // #nosec G115 -- checked non-negative
			Reason:   fmt.Sprintf("Constant trip count: %d", v),
		}
	}
	lhs := b.Exprs.Unparen(cmp.Left)
	ident, ok := b.Exprs.Ident(lhs)
	if !ok {
		return tripCount{Reason: "No constant trip count: loop bound is not a literal"}
	}
	name := b.Name(ident.Name)
	if opts.PermissiveTripCount {
		return tripCount{
			Constant: true,
			Reason:   fmt.Sprintf("Loop control variable '%s' with predictable access pattern", name),
		}
	}

	sym := info.SymbolIDOf(lhs)
	switch {
	case sym == sema.NoSymbolID || sym != l.Induction:
		return tripCount{Reason: fmt.Sprintf("No constant trip count: '%s' is not the induction variable", name)}
	case writes(b, info, l.Body, sym):
		return tripCount{Reason: fmt.Sprintf("No constant trip count: '%s' is modified in the loop body", name)}
	}
	if bound := identSymbol(b, info, cmp.Right); bound != sema.NoSymbolID && writes(b, info, l.Body, bound) {
		return tripCount{Reason: "No constant trip count: loop bound is modified in the loop body"}
	}
	if !loopInvariant(b, info, l, cmp.Right) {
		return tripCount{Reason: "No constant trip count: loop bound is not loop-invariant"}
	}
	return tripCount{
		Constant: true,
		Reason:   fmt.Sprintf("Loop control variable '%s' with predictable access pattern", name),
	}
}

func writes(b *ast.Builder, info Info, body ast.StmtID, sym sema.SymbolID) bool {
	_, found := assignedIn(b, info, body, sym)
	return found
}

// loopInvariant accepts literals, identifiers and arithmetic over them; calls,
// subscripts and side effects are rejected.
func loopInvariant(b *ast.Builder, info Info, l *Loop, id ast.ExprID) bool {
	ok := true
	b.WalkExpr(id, func(eid ast.ExprID, expr *ast.Expr) bool {
		switch expr.Kind {
		case ast.ExprIdent:
			if sym := info.SymbolIDOf(eid); sym == l.Induction {
				ok = false
			}
		case ast.ExprLit, ast.ExprGroup, ast.ExprCast:
		case ast.ExprBinary:
			data, _ := b.Exprs.Binary(eid)
			ok = ok && data.Op != ast.ExprBinaryComma
		case ast.ExprUnary:
			data, _ := b.Exprs.Unary(eid)
			ok = ok && !data.Op.Mutates() && data.Op != ast.ExprUnaryDeref
		default:
			ok = false
		}
		return ok
	})
	return ok
}
