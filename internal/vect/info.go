package vect

import (
	"loopkern/internal/ast"
	"loopkern/internal/sema"
	"loopkern/internal/source"
	"loopkern/internal/types"
)

// Info is what the analyzer needs from the front end's checker.
// *sema.Result implements it.
type Info interface {
	TypeOf(id ast.ExprID) types.TypeID
	SymbolOf(id ast.ExprID) (*sema.Symbol, bool)
	SymbolIDOf(id ast.ExprID) sema.SymbolID
	Types() *types.Interner
	Line(span source.Span) uint32
}

var _ Info = (*sema.Result)(nil)
