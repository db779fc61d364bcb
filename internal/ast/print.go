package ast

import (
	"strings"
)

// ExprString renders an expression back to compact C source.
func (b *Builder) ExprString(id ExprID) string {
	var sb strings.Builder
	b.writeExpr(&sb, id)
	return sb.String()
}

func (b *Builder) writeExpr(sb *strings.Builder, id ExprID) {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ExprIdent:
		d, _ := b.Exprs.Ident(id)
		sb.WriteString(b.Name(d.Name))
	case ExprLit:
		d, _ := b.Exprs.Literal(id)
		sb.WriteString(b.Name(d.Value))
	case ExprBinary:
		d, _ := b.Exprs.Binary(id)
		b.writeExpr(sb, d.Left)
		if d.Op == ExprBinaryComma {
			sb.WriteString(", ")
		} else {
			sb.WriteString(" " + d.Op.String() + " ")
		}
		b.writeExpr(sb, d.Right)
	case ExprAssign:
		d, _ := b.Exprs.Assign(id)
		b.writeExpr(sb, d.Target)
		sb.WriteString(" " + d.Op.String() + " ")
		b.writeExpr(sb, d.Value)
	case ExprUnary:
		d, _ := b.Exprs.Unary(id)
		if d.Op.IsPostfix() {
			b.writeExpr(sb, d.Operand)
			sb.WriteString(d.Op.String())
			return
		}
		sb.WriteString(d.Op.String())
		b.writeExpr(sb, d.Operand)
	case ExprCast:
		d, _ := b.Exprs.Cast(id)
		sb.WriteString("(" + b.TypeString(d.Type) + ")")
		b.writeExpr(sb, d.Value)
	case ExprIndex:
		d, _ := b.Exprs.Index(id)
		b.writeExpr(sb, d.Target)
		sb.WriteByte('[')
		b.writeExpr(sb, d.Index)
		sb.WriteByte(']')
	case ExprCall:
		d, _ := b.Exprs.Call(id)
		b.writeExpr(sb, d.Target)
		sb.WriteByte('(')
		for i, a := range d.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			b.writeExpr(sb, a)
		}
		sb.WriteByte(')')
	case ExprTernary:
		d, _ := b.Exprs.Ternary(id)
		b.writeExpr(sb, d.Cond)
		sb.WriteString(" ? ")
		b.writeExpr(sb, d.Then)
		sb.WriteString(" : ")
		b.writeExpr(sb, d.Else)
	case ExprGroup:
		d, _ := b.Exprs.Group(id)
		sb.WriteByte('(')
		b.writeExpr(sb, d.Inner)
		sb.WriteByte(')')
	}
}

var baseNames = [...]string{
	BaseInt:    "int",
	BaseVoid:   "void",
	BaseChar:   "char",
	BaseShort:  "short",
	BaseLong:   "long",
	BaseFloat:  "float",
	BaseDouble: "double",
}

// TypeString renders a written type, e.g. "const unsigned int *".
func (b *Builder) TypeString(id TypeID) string {
	te := b.Types.Get(id)
	if te == nil {
		return "<invalid>"
	}
	var sb strings.Builder
	if te.Const {
		sb.WriteString("const ")
	}
	if te.Unsigned {
		sb.WriteString("unsigned ")
	}
	sb.WriteString(baseNames[te.Base])
	if te.Pointers > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strings.Repeat("*", int(te.Pointers)))
	}
	for _, d := range te.Dims {
		sb.WriteByte('[')
		b.writeExpr(&sb, d)
		sb.WriteByte(']')
	}
	return sb.String()
}

// StmtHeader renders the init part of a for header, which may be a declaration.
func (b *Builder) StmtHeader(id StmtID) string {
	if es, ok := b.Stmts.Expr(id); ok {
		return b.ExprString(es.Expr)
	}
	ds, ok := b.Stmts.Decl(id)
	if !ok || len(ds.Decls) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(b.TypeString(ds.Decls[0].Type))
	for i, d := range ds.Decls {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(b.Name(d.Name))
		if d.Init.IsValid() {
			sb.WriteString(" = ")
			b.writeExpr(&sb, d.Init)
		}
	}
	return sb.String()
}
