package sema

import (
	"strings"

	"loopkern/internal/ast"
	"loopkern/internal/diag"
	"loopkern/internal/types"
)

// checkExpr computes and records the type of id and its sub-expressions.
func (tc *typeChecker) checkExpr(id ast.ExprID) types.TypeID {
	if !id.IsValid() {
		return types.NoTypeID
	}
	expr := tc.builder.Exprs.Get(id)
	if expr == nil {
		return types.NoTypeID
	}
	ty := tc.typeExpr(id, expr)
	tc.result.ExprTypes[id] = ty
	return ty
}

func (tc *typeChecker) typeExpr(id ast.ExprID, expr *ast.Expr) types.TypeID {
	b := tc.types.Builtins()
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := tc.builder.Exprs.Ident(id)
		sym, ok := tc.scopes.lookup(data.Name)
		if !ok {
			diag.ReportError(tc.reporter, diag.SemaUnresolvedSymbol, expr.Span,
				"use of undeclared identifier '"+tc.builder.Name(data.Name)+"'").Emit()
			return types.NoTypeID
		}
		tc.result.ExprSymbols[id] = sym
		return tc.result.Symbols[sym].Type

	case ast.ExprLit:
		data, _ := tc.builder.Exprs.Literal(id)
		return tc.literalType(data)

	case ast.ExprGroup:
		data, _ := tc.builder.Exprs.Group(id)
		return tc.checkExpr(data.Inner)

	case ast.ExprBinary:
		data, _ := tc.builder.Exprs.Binary(id)
		left := tc.checkExpr(data.Left)
		right := tc.checkExpr(data.Right)
		return tc.binaryType(expr, data.Op, left, right)

	case ast.ExprAssign:
		data, _ := tc.builder.Exprs.Assign(id)
		target := tc.checkExpr(data.Target)
		value := tc.checkExpr(data.Value)
		if !tc.isLValue(data.Target) {
			diag.ReportError(tc.reporter, diag.SemaNotAssignable, tc.builder.Exprs.Get(data.Target).Span,
				"left side of assignment is not assignable").Emit()
		}
		if op, ok := data.Op.Binary(); ok {
			tc.binaryType(expr, op, target, value)
		}
		return target

	case ast.ExprUnary:
		data, _ := tc.builder.Exprs.Unary(id)
		operand := tc.checkExpr(data.Operand)
		return tc.unaryType(expr, data, operand)

	case ast.ExprCast:
		data, _ := tc.builder.Exprs.Cast(id)
		tc.checkExpr(data.Value)
		return tc.resolveType(data.Type)

	case ast.ExprIndex:
		data, _ := tc.builder.Exprs.Index(id)
		target := tc.checkExpr(data.Target)
		tc.checkExpr(data.Index)
		if target == types.NoTypeID {
			return types.NoTypeID
		}
		elem, ok := tc.types.Elem(target)
		if !ok {
			diag.ReportError(tc.reporter, diag.SemaNotSubscriptable, expr.Span,
				"subscripted value of type '"+tc.types.Label(target)+"' is not an array or pointer").Emit()
			return types.NoTypeID
		}
		return elem

	case ast.ExprCall:
		data, _ := tc.builder.Exprs.Call(id)
		for _, arg := range data.Args {
			tc.checkExpr(arg)
		}
		return tc.callType(data)

	case ast.ExprTernary:
		data, _ := tc.builder.Exprs.Ternary(id)
		tc.checkExpr(data.Cond)
		then := tc.checkExpr(data.Then)
		els := tc.checkExpr(data.Else)
		if common := tc.types.Common(then, els); common != types.NoTypeID {
			return common
		}
		return then
	}
	return b.Invalid
}

func (tc *typeChecker) binaryType(expr *ast.Expr, op ast.ExprBinaryOp, left, right types.TypeID) types.TypeID {
	b := tc.types.Builtins()
	if left == types.NoTypeID || right == types.NoTypeID {
		return types.NoTypeID
	}
	switch {
	case op == ast.ExprBinaryComma:
		return right
	case op.IsComparison(), op == ast.ExprBinaryLogicalAnd, op == ast.ExprBinaryLogicalOr:
		return b.Int
	}
	lt := tc.types.MustLookup(tc.types.Decay(left))
	rt := tc.types.MustLookup(tc.types.Decay(right))
	if op == ast.ExprBinaryAdd || op == ast.ExprBinarySub {
		switch {
		case lt.Kind == types.KindPointer && rt.IsInteger():
			return tc.types.Decay(left)
		case rt.Kind == types.KindPointer && lt.IsInteger() && op == ast.ExprBinaryAdd:
			return tc.types.Decay(right)
		case lt.Kind == types.KindPointer && rt.Kind == types.KindPointer && op == ast.ExprBinarySub:
			return b.Long
		}
	}
	if op == ast.ExprBinaryShl || op == ast.ExprBinaryShr {
		if lt.IsInteger() && rt.IsInteger() {
			return tc.types.Promote(left)
		}
	}
	common := tc.types.Common(left, right)
	intOnly := op == ast.ExprBinaryMod || op == ast.ExprBinaryBitAnd || op == ast.ExprBinaryBitOr || op == ast.ExprBinaryBitXor
	if common == types.NoTypeID || (intOnly && tc.types.MustLookup(common).IsFloat()) {
		diag.ReportError(tc.reporter, diag.SemaInvalidOperands, expr.Span,
			"invalid operands to binary '"+op.String()+"' ('"+tc.types.Label(left)+"' and '"+tc.types.Label(right)+"')").Emit()
		return types.NoTypeID
	}
	return common
}

func (tc *typeChecker) unaryType(expr *ast.Expr, data *ast.ExprUnaryData, operand types.TypeID) types.TypeID {
	b := tc.types.Builtins()
	if data.Op == ast.ExprUnarySizeof {
		return b.ULong
	}
	if operand == types.NoTypeID {
		return types.NoTypeID
	}
	switch data.Op {
	case ast.ExprUnaryNot:
		return b.Int
	case ast.ExprUnaryAddr:
		return tc.types.Intern(types.MakePointer(operand))
	case ast.ExprUnaryDeref:
		elem, ok := tc.types.Elem(operand)
		if !ok {
			diag.ReportError(tc.reporter, diag.SemaInvalidOperands, expr.Span,
				"indirection requires pointer operand ('"+tc.types.Label(operand)+"' invalid)").Emit()
			return types.NoTypeID
		}
		return elem
	case ast.ExprUnaryPreInc, ast.ExprUnaryPreDec, ast.ExprUnaryPostInc, ast.ExprUnaryPostDec:
		if !tc.isLValue(data.Operand) {
			diag.ReportError(tc.reporter, diag.SemaNotAssignable, expr.Span,
				"operand of '"+data.Op.String()+"' is not assignable").Emit()
		}
		return operand
	case ast.ExprUnaryMinus, ast.ExprUnaryPlus, ast.ExprUnaryBitNot:
		return tc.types.Promote(operand)
	}
	return operand
}

// callType resolves the callee; unknown functions get the implicit
// "int f()" declaration of C89 with a warning.
func (tc *typeChecker) callType(data *ast.ExprCallData) types.TypeID {
	b := tc.types.Builtins()
	target := tc.builder.Exprs.Unparen(data.Target)
	ident, ok := tc.builder.Exprs.Ident(target)
	if !ok {
		callee := tc.checkExpr(data.Target)
		if tt, ok := tc.types.Lookup(callee); ok && tt.Kind == types.KindFunc {
			return tt.Elem
		}
		return b.Int
	}
	sym, found := tc.scopes.lookup(ident.Name)
	if !found {
		diag.ReportWarning(tc.reporter, diag.SemaUnresolvedSymbol, tc.builder.Exprs.Get(target).Span,
			"implicit declaration of function '"+tc.builder.Name(ident.Name)+"'").Emit()
		return b.Int
	}
	tc.result.ExprSymbols[target] = sym
	fnType := tc.result.Symbols[sym].Type
	tc.result.ExprTypes[target] = fnType
	if tt, ok := tc.types.Lookup(fnType); ok && tt.Kind == types.KindFunc {
		return tt.Elem
	}
	return b.Int
}

func (tc *typeChecker) isLValue(id ast.ExprID) bool {
	id = tc.builder.Exprs.Unparen(id)
	expr := tc.builder.Exprs.Get(id)
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ast.ExprIdent, ast.ExprIndex:
		return true
	case ast.ExprUnary:
		data, _ := tc.builder.Exprs.Unary(id)
		return data.Op == ast.ExprUnaryDeref
	}
	return false
}

func (tc *typeChecker) literalType(data *ast.ExprLiteralData) types.TypeID {
	b := tc.types.Builtins()
	text := strings.ToLower(tc.builder.Name(data.Value))
	switch data.Kind {
	case ast.ExprLitFloat:
		if strings.HasSuffix(text, "f") && !strings.HasPrefix(text, "0x") {
			return b.Float
		}
		return b.Double
	case ast.ExprLitChar:
		return b.Int
	case ast.ExprLitString:
		return tc.types.Intern(types.MakePointer(b.Char))
	}
	unsigned := strings.ContainsRune(text, 'u')
	long := strings.ContainsRune(text, 'l')
	switch {
	case unsigned && long:
		return b.ULong
	case long:
		return b.Long
	case unsigned:
		return b.UInt
	}
	return b.Int
}
