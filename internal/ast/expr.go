package ast

import (
	"loopkern/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprLit
	ExprBinary
	ExprAssign
	ExprUnary
	ExprCast
	ExprIndex
	ExprCall
	ExprTernary
	ExprGroup
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "Ident"
	case ExprLit:
		return "Lit"
	case ExprBinary:
		return "Binary"
	case ExprAssign:
		return "Assign"
	case ExprUnary:
		return "Unary"
	case ExprCast:
		return "Cast"
	case ExprIndex:
		return "Index"
	case ExprCall:
		return "Call"
	case ExprTernary:
		return "Ternary"
	case ExprGroup:
		return "Group"
	}
	return "Unknown"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprIdentData struct {
	Name source.StringID
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitChar
	ExprLitString
)

// ExprLiteralData keeps the raw spelling, suffix included ("2.0f", "8u").
type ExprLiteralData struct {
	Kind  ExprLitKind
	Value source.StringID
}

type ExprBinaryOp uint8

const (
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod
	ExprBinaryShl
	ExprBinaryShr
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
	ExprBinaryComma
)

var binaryOpText = [...]string{
	ExprBinaryAdd:        "+",
	ExprBinarySub:        "-",
	ExprBinaryMul:        "*",
	ExprBinaryDiv:        "/",
	ExprBinaryMod:        "%",
	ExprBinaryShl:        "<<",
	ExprBinaryShr:        ">>",
	ExprBinaryBitAnd:     "&",
	ExprBinaryBitOr:      "|",
	ExprBinaryBitXor:     "^",
	ExprBinaryLogicalAnd: "&&",
	ExprBinaryLogicalOr:  "||",
	ExprBinaryEq:         "==",
	ExprBinaryNotEq:      "!=",
	ExprBinaryLess:       "<",
	ExprBinaryLessEq:     "<=",
	ExprBinaryGreater:    ">",
	ExprBinaryGreaterEq:  ">=",
	ExprBinaryComma:      ",",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsArithmetic reports + - * /.
func (op ExprBinaryOp) IsArithmetic() bool {
	return op <= ExprBinaryDiv
}

// IsComparison reports relational and equality operators.
func (op ExprBinaryOp) IsComparison() bool {
	return op >= ExprBinaryEq && op <= ExprBinaryGreaterEq
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type AssignOp uint8

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignShl
	AssignShr
	AssignBitAnd
	AssignBitOr
	AssignBitXor
)

var assignOpText = [...]string{
	AssignPlain:  "=",
	AssignAdd:    "+=",
	AssignSub:    "-=",
	AssignMul:    "*=",
	AssignDiv:    "/=",
	AssignMod:    "%=",
	AssignShl:    "<<=",
	AssignShr:    ">>=",
	AssignBitAnd: "&=",
	AssignBitOr:  "|=",
	AssignBitXor: "^=",
}

func (op AssignOp) String() string {
	if int(op) < len(assignOpText) {
		return assignOpText[op]
	}
	return "?="
}

// IsCompound reports every form other than plain '='.
func (op AssignOp) IsCompound() bool { return op != AssignPlain }

// Binary returns the operator a compound assignment applies.
func (op AssignOp) Binary() (ExprBinaryOp, bool) {
	switch op {
	case AssignAdd:
		return ExprBinaryAdd, true
	case AssignSub:
		return ExprBinarySub, true
	case AssignMul:
		return ExprBinaryMul, true
	case AssignDiv:
		return ExprBinaryDiv, true
	case AssignMod:
		return ExprBinaryMod, true
	case AssignShl:
		return ExprBinaryShl, true
	case AssignShr:
		return ExprBinaryShr, true
	case AssignBitAnd:
		return ExprBinaryBitAnd, true
	case AssignBitOr:
		return ExprBinaryBitOr, true
	case AssignBitXor:
		return ExprBinaryBitXor, true
	}
	return 0, false
}

type ExprAssignData struct {
	Op     AssignOp
	Target ExprID
	Value  ExprID
}

type ExprUnaryOp uint8

const (
	ExprUnaryPlus ExprUnaryOp = iota
	ExprUnaryMinus
	ExprUnaryNot
	ExprUnaryBitNot
	ExprUnaryDeref
	ExprUnaryAddr
	ExprUnaryPreInc
	ExprUnaryPreDec
	ExprUnaryPostInc
	ExprUnaryPostDec
	ExprUnarySizeof
)

var unaryOpText = [...]string{
	ExprUnaryPlus:    "+",
	ExprUnaryMinus:   "-",
	ExprUnaryNot:     "!",
	ExprUnaryBitNot:  "~",
	ExprUnaryDeref:   "*",
	ExprUnaryAddr:    "&",
	ExprUnaryPreInc:  "++",
	ExprUnaryPreDec:  "--",
	ExprUnaryPostInc: "++",
	ExprUnaryPostDec: "--",
	ExprUnarySizeof:  "sizeof ",
}

func (op ExprUnaryOp) String() string {
	if int(op) < len(unaryOpText) {
		return unaryOpText[op]
	}
	return "?"
}

// IsPostfix reports x++ and x--.
func (op ExprUnaryOp) IsPostfix() bool {
	return op == ExprUnaryPostInc || op == ExprUnaryPostDec
}

// Mutates reports the increment and decrement forms.
func (op ExprUnaryOp) Mutates() bool {
	return op >= ExprUnaryPreInc && op <= ExprUnaryPostDec
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprCastData struct {
	Type  TypeID
	Value ExprID
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}

type ExprTernaryData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type ExprGroupData struct {
	Inner ExprID
}
