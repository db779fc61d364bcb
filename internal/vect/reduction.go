package vect

import (
	"loopkern/internal/ast"
	"loopkern/internal/sema"
	"loopkern/internal/source"
)

// Accumulator is the reduction found in a loop body; Expr is the compound
// assignment that updates it.
type Accumulator struct {
	Found  bool
	Symbol sema.SymbolID
	Name   string
	Op     ast.ExprBinaryOp
	Expr   ast.ExprID
}

// detectReduction finds the first "s op= expr" with op in + - * / and s a
// named scalar. Array element targets never qualify.
func detectReduction(b *ast.Builder, info Info, body ast.StmtID) Accumulator {
	var red Accumulator
	Visitor{
		Assign: func(id ast.ExprID, data *ast.ExprAssignData) bool {
			if red.Found {
				return false
			}
			op, ok := data.Op.Binary()
			if !ok || !op.IsArithmetic() {
				return true
			}
			target := b.Exprs.Unparen(data.Target)
			ident, ok := b.Exprs.Ident(target)
			if !ok {
				return true
			}
			sym, ok := info.SymbolOf(target)
			if !ok {
				return true
			}
			if tt, ok := info.Types().Lookup(sym.Type); !ok || !tt.IsArithmetic() {
				return true
			}
			red = Accumulator{
				Found:  true,
				Symbol: info.SymbolIDOf(target),
				Name:   b.Name(ident.Name),
				Op:     op,
				Expr:   id,
			}
			return false
		},
	}.Walk(b, body)
	return red
}

// assignedIn reports whether sym is written anywhere in the statement tree.
func assignedIn(b *ast.Builder, info Info, stmt ast.StmtID, sym sema.SymbolID) (source.Span, bool) {
	var (
		found bool
		where source.Span
	)
	mark := func(target ast.ExprID) {
		if !found && identSymbol(b, info, target) == sym {
			found = true
			where = b.Exprs.Get(target).Span
		}
	}
	Visitor{
		Assign: func(_ ast.ExprID, data *ast.ExprAssignData) bool {
			mark(data.Target)
			return !found
		},
		Unary: func(_ ast.ExprID, data *ast.ExprUnaryData) bool {
			if data.Op.Mutates() || data.Op == ast.ExprUnaryAddr {
				mark(data.Operand)
			}
			return !found
		},
	}.Walk(b, stmt)
	return where, found
}
