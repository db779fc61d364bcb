package vect

import (
	"loopkern/internal/ast"
)

// Kind is the loop shape reported to the user.
type Kind uint8

const (
	KindGeneral Kind = iota
	KindSimpleArithmetic
	KindReduction
)

func (k Kind) String() string {
	switch k {
	case KindReduction:
		return "Reduction"
	case KindSimpleArithmetic:
		return "Simple arithmetic"
	default:
		return "General parallel"
	}
}

// ElementOp is "dst[i] = src[i] op lit" (or "lit op src[i]").
type ElementOp struct {
	Assign   ast.ExprID
	Target   ast.ExprID // the subscript being written
	Source   ast.ExprID // the subscript being read
	Op       ast.ExprBinaryOp
	Literal  ast.ExprID
	LitFirst bool
}

// findSimplePattern returns the first element assignment whose value is an
// arithmetic combination of a subscript and a numeric literal.
func findSimplePattern(b *ast.Builder, body ast.StmtID) (ElementOp, bool) {
	var (
		found ElementOp
		ok    bool
	)
	Visitor{
		Assign: func(id ast.ExprID, data *ast.ExprAssignData) bool {
			if ok || data.Op != ast.AssignPlain {
				return !ok
			}
			if _, isIndex := b.Exprs.Index(b.Exprs.Unparen(data.Target)); !isIndex {
				return true
			}
			if eop, match := matchElementOp(b, data.Value); match {
				eop.Assign = id
				eop.Target = b.Exprs.Unparen(data.Target)
				found, ok = eop, true
				return false
			}
			return true
		},
	}.Walk(b, body)
	return found, ok
}

func matchElementOp(b *ast.Builder, value ast.ExprID) (ElementOp, bool) {
	bin, ok := b.Exprs.Binary(b.Exprs.Unparen(value))
	if !ok || !bin.Op.IsArithmetic() {
		return ElementOp{}, false
	}
	left, right := b.Exprs.Unparen(bin.Left), b.Exprs.Unparen(bin.Right)
	switch {
	case isIndex(b, left) && isNumericLiteral(b, right):
		return ElementOp{Source: left, Op: bin.Op, Literal: right}, true
	case isNumericLiteral(b, left) && isIndex(b, right):
		return ElementOp{Source: right, Op: bin.Op, Literal: left, LitFirst: true}, true
	}
	return ElementOp{}, false
}

func isIndex(b *ast.Builder, id ast.ExprID) bool {
	_, ok := b.Exprs.Index(id)
	return ok
}

func isNumericLiteral(b *ast.Builder, id ast.ExprID) bool {
	lit, ok := b.Exprs.Literal(id)
	return ok && (lit.Kind == ast.ExprLitInt || lit.Kind == ast.ExprLitFloat)
}

// FirstElementStore is the fallback for kernels without a simple pattern:
// the first "a[...] = value" of the body. Source is the first subscript read
// in value that is indexed by the induction variable; the kernel then copies
// it unchanged. Source stays invalid when value reads no such element.
func FirstElementStore(b *ast.Builder, info Info, l Loop) (ElementOp, bool) {
	var (
		found ElementOp
		ok    bool
	)
	Visitor{
		Assign: func(id ast.ExprID, data *ast.ExprAssignData) bool {
			if ok {
				return false
			}
			target := b.Exprs.Unparen(data.Target)
			if data.Op != ast.AssignPlain || !isIndex(b, target) {
				return true
			}
			found = ElementOp{Assign: id, Target: target, Source: firstAlignedRead(b, info, l, data.Value)}
			ok = true
			return false
		},
	}.Walk(b, l.Body)
	return found, ok
}

func firstAlignedRead(b *ast.Builder, info Info, l Loop, value ast.ExprID) ast.ExprID {
	src := ast.NoExprID
	Visitor{
		Index: func(id ast.ExprID, data *ast.ExprIndexData) bool {
			if src.IsValid() {
				return false
			}
			if ClassifyIndex(b, info, data.Index, l.Induction).Kind == InductionAligned {
				src = id
				return false
			}
			return true
		},
	}.WalkExpr(b, value)
	return src
}
