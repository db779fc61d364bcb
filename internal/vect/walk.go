package vect

import "loopkern/internal/ast"

// Visitor holds one callback per node kind an analysis cares about. Nil
// callbacks are skipped. Returning false from a callback prunes the subtree.
type Visitor struct {
	Index  func(id ast.ExprID, data *ast.ExprIndexData) bool
	Binary func(id ast.ExprID, data *ast.ExprBinaryData) bool
	Assign func(id ast.ExprID, data *ast.ExprAssignData) bool
	Unary  func(id ast.ExprID, data *ast.ExprUnaryData) bool
}

// Walk runs v over every expression of the statement tree in pre-order.
func (v Visitor) Walk(b *ast.Builder, stmt ast.StmtID) {
	b.WalkStmtExprs(stmt, v.visitor(b))
}

// WalkExpr is Walk for a single expression tree.
func (v Visitor) WalkExpr(b *ast.Builder, expr ast.ExprID) {
	b.WalkExpr(expr, v.visitor(b))
}

func (v Visitor) visitor(b *ast.Builder) ast.ExprVisitor {
	return func(id ast.ExprID, expr *ast.Expr) bool {
		switch expr.Kind {
		case ast.ExprIndex:
			if v.Index != nil {
				data, _ := b.Exprs.Index(id)
				return v.Index(id, data)
			}
		case ast.ExprBinary:
			if v.Binary != nil {
				data, _ := b.Exprs.Binary(id)
				return v.Binary(id, data)
			}
		case ast.ExprAssign:
			if v.Assign != nil {
				data, _ := b.Exprs.Assign(id)
				return v.Assign(id, data)
			}
		case ast.ExprUnary:
			if v.Unary != nil {
				data, _ := b.Exprs.Unary(id)
				return v.Unary(id, data)
			}
		}
		return true
	}
}
