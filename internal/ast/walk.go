package ast

// ExprVisitor is called for every expression in pre-order. Returning false
// skips the children of that node.
type ExprVisitor func(id ExprID, expr *Expr) bool

// WalkExpr visits id and its sub-expressions in pre-order.
func (b *Builder) WalkExpr(id ExprID, visit ExprVisitor) {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return
	}
	if !visit(id, expr) {
		return
	}
	for _, child := range b.Exprs.Children(id) {
		b.WalkExpr(child, visit)
	}
}

// WalkStmtExprs visits every expression reachable from a statement tree:
// expression statements, initializers, conditions, loop headers and returns.
func (b *Builder) WalkStmtExprs(id StmtID, visit ExprVisitor) {
	st := b.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case StmtBlock:
		blk, _ := b.Stmts.Block(id)
		for _, s := range blk.Stmts {
			b.WalkStmtExprs(s, visit)
		}
	case StmtExpr:
		es, _ := b.Stmts.Expr(id)
		b.WalkExpr(es.Expr, visit)
	case StmtDecl:
		ds, _ := b.Stmts.Decl(id)
		for _, d := range ds.Decls {
			b.WalkExpr(d.Init, visit)
		}
	case StmtFor:
		fs, _ := b.Stmts.For(id)
		b.WalkStmtExprs(fs.Init, visit)
		b.WalkExpr(fs.Cond, visit)
		b.WalkExpr(fs.Post, visit)
		b.WalkStmtExprs(fs.Body, visit)
	case StmtWhile:
		ws, _ := b.Stmts.While(id)
		b.WalkExpr(ws.Cond, visit)
		b.WalkStmtExprs(ws.Body, visit)
	case StmtDo:
		ds, _ := b.Stmts.Do(id)
		b.WalkStmtExprs(ds.Body, visit)
		b.WalkExpr(ds.Cond, visit)
	case StmtIf:
		is, _ := b.Stmts.If(id)
		b.WalkExpr(is.Cond, visit)
		b.WalkStmtExprs(is.Then, visit)
		b.WalkStmtExprs(is.Else, visit)
	case StmtReturn:
		rs, _ := b.Stmts.Return(id)
		b.WalkExpr(rs.Value, visit)
	}
}

// WalkStmts visits id and every nested statement in pre-order.
func (b *Builder) WalkStmts(id StmtID, visit func(StmtID, *Stmt) bool) {
	st := b.Stmts.Get(id)
	if st == nil || !visit(id, st) {
		return
	}
	switch st.Kind {
	case StmtBlock:
		blk, _ := b.Stmts.Block(id)
		for _, s := range blk.Stmts {
			b.WalkStmts(s, visit)
		}
	case StmtFor:
		fs, _ := b.Stmts.For(id)
		b.WalkStmts(fs.Init, visit)
		b.WalkStmts(fs.Body, visit)
	case StmtWhile:
		ws, _ := b.Stmts.While(id)
		b.WalkStmts(ws.Body, visit)
	case StmtDo:
		ds, _ := b.Stmts.Do(id)
		b.WalkStmts(ds.Body, visit)
	case StmtIf:
		is, _ := b.Stmts.If(id)
		b.WalkStmts(is.Then, visit)
		b.WalkStmts(is.Else, visit)
	}
}
