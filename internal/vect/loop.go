package vect

import (
	"fmt"

	"loopkern/internal/ast"
	"loopkern/internal/sema"
	"loopkern/internal/source"
)

// Loop is the read-only view of one counted loop.
type Loop struct {
	Stmt      ast.StmtID
	Init      ast.StmtID
	Cond      ast.ExprID
	Post      ast.ExprID
	Body      ast.StmtID
	Span      source.Span
	Line      uint32
	Induction sema.SymbolID // NoSymbolID when no induction variable was recognized
}

// LoopOf builds the view of a for statement.
func LoopOf(b *ast.Builder, info Info, stmt ast.StmtID) (Loop, error) {
	st := b.Stmts.Get(stmt)
	fs, ok := b.Stmts.For(stmt)
	if !ok {
		return Loop{}, fmt.Errorf("statement %d is not a for loop", stmt)
	}
	l := Loop{
		Stmt: stmt,
		Init: fs.Init,
		Cond: fs.Cond,
		Post: fs.Post,
		Body: fs.Body,
		Span: st.Span,
		Line: info.Line(st.Span),
	}
	l.Induction = inductionVar(b, info, &l)
	return l, nil
}

// inductionVar looks at the increment first ("i++", "i += 1", "i = i + 1"),
// then at the left side of the condition.
func inductionVar(b *ast.Builder, info Info, l *Loop) sema.SymbolID {
	post := b.Exprs.Unparen(l.Post)
	if un, ok := b.Exprs.Unary(post); ok && un.Op.Mutates() {
		if sym := identSymbol(b, info, un.Operand); sym != sema.NoSymbolID {
			return sym
		}
	}
	if as, ok := b.Exprs.Assign(post); ok {
		if sym := identSymbol(b, info, as.Target); sym != sema.NoSymbolID {
			return sym
		}
	}
	if cmp, ok := b.Exprs.Binary(b.Exprs.Unparen(l.Cond)); ok && cmp.Op.IsComparison() {
		return identSymbol(b, info, cmp.Left)
	}
	return sema.NoSymbolID
}

// identSymbol resolves a (parenthesised) identifier to its declaration.
func identSymbol(b *ast.Builder, info Info, id ast.ExprID) sema.SymbolID {
	id = b.Exprs.Unparen(id)
	if _, ok := b.Exprs.Ident(id); !ok {
		return sema.NoSymbolID
	}
	return info.SymbolIDOf(id)
}
