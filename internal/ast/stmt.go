package ast

import (
	"loopkern/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtExpr
	StmtDecl
	StmtFor
	StmtWhile
	StmtDo
	StmtIf
	StmtReturn
	StmtBreak
	StmtContinue
	StmtEmpty
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "Block"
	case StmtExpr:
		return "Expr"
	case StmtDecl:
		return "Decl"
	case StmtFor:
		return "For"
	case StmtWhile:
		return "While"
	case StmtDo:
		return "Do"
	case StmtIf:
		return "If"
	case StmtReturn:
		return "Return"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtEmpty:
		return "Empty"
	}
	return "Unknown"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type BlockStmt struct {
	Stmts []StmtID
}

type ExprStmt struct {
	Expr ExprID
}

// VarDecl is one declarator of a declaration statement or global.
type VarDecl struct {
	Span    source.Span
	Name    source.StringID
	Type    TypeID
	Init    ExprID
	Storage Storage
}

type DeclStmt struct {
	Decls []VarDecl
}

// ForStmt: Init is a StmtDecl, a StmtExpr or NoStmtID.
type ForStmt struct {
	Init StmtID
	Cond ExprID
	Post ExprID
	Body StmtID
}

type WhileStmt struct {
	Cond ExprID
	Body StmtID
}

type DoStmt struct {
	Body StmtID
	Cond ExprID
}

type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type ReturnStmt struct {
	Value ExprID
}
