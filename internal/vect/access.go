package vect

import (
	"loopkern/internal/ast"
	"loopkern/internal/sema"
)

// PatternKind is the shape of one subscript index.
type PatternKind uint8

const (
	Unclassified PatternKind = iota
	Constant
	InductionAligned
	InductionMinusOne
)

func (k PatternKind) String() string {
	switch k {
	case Constant:
		return "constant"
	case InductionAligned:
		return "induction"
	case InductionMinusOne:
		return "induction-1"
	default:
		return "unclassified"
	}
}

// AccessPattern describes an index. Offset is the literal for Constant
// and -1 for InductionMinusOne.
type AccessPattern struct {
	Kind   PatternKind
	Offset int64
}

// ClassifyIndex tags an index expression relative to the induction variable.
// Only "i - 1" is treated as a dependency; every shape that cannot be proven
// independent ("i + 1", "2 * i", "idx[i]") stays Unclassified.
func ClassifyIndex(b *ast.Builder, info Info, index ast.ExprID, induction sema.SymbolID) AccessPattern {
	index = b.Exprs.Unparen(index)
	if v, ok := intLiteral(b, index); ok {
		return AccessPattern{Kind: Constant, Offset: v}
	}
	if induction == sema.NoSymbolID {
		return AccessPattern{Kind: Unclassified}
	}
	if identSymbol(b, info, index) == induction {
		return AccessPattern{Kind: InductionAligned}
	}
	bin, ok := b.Exprs.Binary(index)
	if !ok || bin.Op != ast.ExprBinarySub {
		return AccessPattern{Kind: Unclassified}
	}
	if identSymbol(b, info, bin.Left) != induction {
		return AccessPattern{Kind: Unclassified}
	}
	if k, ok := intLiteral(b, bin.Right); ok && k == 1 {
		return AccessPattern{Kind: InductionMinusOne, Offset: -1}
	}
	return AccessPattern{Kind: Unclassified}
}

// intLiteral folds a (parenthesised) integer literal.
func intLiteral(b *ast.Builder, id ast.ExprID) (int64, bool) {
	lit, ok := b.Exprs.Literal(b.Exprs.Unparen(id))
	if !ok || lit.Kind != ast.ExprLitInt {
		return 0, false
	}
	v, err := sema.ParseIntLiteral(b.Name(lit.Value))
	if err != nil || v > 1<<62 {
		return 0, false
	}
	return int64(v), true // #nosec G115 -- bounded above
}

// dependencies collects every subscript in the body whose index reads the
// previous iteration's element.
func dependencies(b *ast.Builder, info Info, l *Loop) []ast.ExprID {
	var deps []ast.ExprID
	Visitor{
		Index: func(id ast.ExprID, data *ast.ExprIndexData) bool {
			if ClassifyIndex(b, info, data.Index, l.Induction).Kind == InductionMinusOne {
				deps = append(deps, id)
			}
			return true
		},
	}.Walk(b, l.Body)
	return deps
}
