package sema

import (
	"loopkern/internal/ast"
	"loopkern/internal/diag"
)

func (tc *typeChecker) checkStmt(id ast.StmtID) {
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		blk, _ := tc.builder.Stmts.Block(id)
		tc.scopes.push()
		for _, s := range blk.Stmts {
			tc.checkStmt(s)
		}
		tc.scopes.pop()
	case ast.StmtExpr:
		es, _ := tc.builder.Stmts.Expr(id)
		tc.checkExpr(es.Expr)
	case ast.StmtDecl:
		ds, _ := tc.builder.Stmts.Decl(id)
		for i := range ds.Decls {
			tc.declareVar(&ds.Decls[i], StorageLocal)
		}
	case ast.StmtFor:
		fs, _ := tc.builder.Stmts.For(id)
		tc.recordLoop(id, LoopFor, st)
		// for (int i = 0; ...) scopes i to the loop
		tc.scopes.push()
		tc.checkStmt(fs.Init)
		tc.checkExpr(fs.Cond)
		tc.checkExpr(fs.Post)
		tc.checkStmt(fs.Body)
		tc.scopes.pop()
	case ast.StmtWhile:
		ws, _ := tc.builder.Stmts.While(id)
		tc.recordLoop(id, LoopWhile, st)
		diag.ReportInfo(tc.reporter, diag.SemaWhileNotAnalyzed, st.Span.Head(),
			"while loop is listed but not analyzed for vectorization").Emit()
		tc.checkExpr(ws.Cond)
		tc.checkStmt(ws.Body)
	case ast.StmtDo:
		ds, _ := tc.builder.Stmts.Do(id)
		tc.recordLoop(id, LoopDo, st)
		diag.ReportInfo(tc.reporter, diag.SemaUnsupportedLoop, st.Span.Head(),
			"do-while loop is not analyzed for vectorization").Emit()
		tc.checkStmt(ds.Body)
		tc.checkExpr(ds.Cond)
	case ast.StmtIf:
		is, _ := tc.builder.Stmts.If(id)
		tc.checkExpr(is.Cond)
		tc.checkStmt(is.Then)
		tc.checkStmt(is.Else)
	case ast.StmtReturn:
		rs, _ := tc.builder.Stmts.Return(id)
		tc.checkExpr(rs.Value)
	}
}

func (tc *typeChecker) recordLoop(id ast.StmtID, kind LoopKind, st *ast.Stmt) {
	loop := Loop{Stmt: id, Kind: kind, Fn: tc.fn, Span: st.Span}
	if tc.result.files != nil {
		loop.Line = tc.result.files.Line(st.Span)
	}
	tc.result.Loops = append(tc.result.Loops, loop)
}
