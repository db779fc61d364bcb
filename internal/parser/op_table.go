package parser

import (
	"loopkern/internal/ast"
	"loopkern/internal/token"
)

// Binary precedence, higher binds tighter. Assignment, ternary and comma are
// parsed by dedicated functions above this table.
const (
	precLogicalOr      = 1  // ||
	precLogicalAnd     = 2  // &&
	precBitwiseOr      = 3  // |
	precBitwiseXor     = 4  // ^
	precBitwiseAnd     = 5  // &
	precEquality       = 6  // == !=
	precComparison     = 7  // < <= > >=
	precShift          = 8  // << >>
	precAdditive       = 9  // + -
	precMultiplicative = 10 // * / %
)

var binaryOps = map[token.Kind]struct {
	prec int
	op   ast.ExprBinaryOp
}{
	token.OrOr:    {precLogicalOr, ast.ExprBinaryLogicalOr},
	token.AndAnd:  {precLogicalAnd, ast.ExprBinaryLogicalAnd},
	token.Pipe:    {precBitwiseOr, ast.ExprBinaryBitOr},
	token.Caret:   {precBitwiseXor, ast.ExprBinaryBitXor},
	token.Amp:     {precBitwiseAnd, ast.ExprBinaryBitAnd},
	token.EqEq:    {precEquality, ast.ExprBinaryEq},
	token.BangEq:  {precEquality, ast.ExprBinaryNotEq},
	token.Lt:      {precComparison, ast.ExprBinaryLess},
	token.LtEq:    {precComparison, ast.ExprBinaryLessEq},
	token.Gt:      {precComparison, ast.ExprBinaryGreater},
	token.GtEq:    {precComparison, ast.ExprBinaryGreaterEq},
	token.Shl:     {precShift, ast.ExprBinaryShl},
	token.Shr:     {precShift, ast.ExprBinaryShr},
	token.Plus:    {precAdditive, ast.ExprBinaryAdd},
	token.Minus:   {precAdditive, ast.ExprBinarySub},
	token.Star:    {precMultiplicative, ast.ExprBinaryMul},
	token.Slash:   {precMultiplicative, ast.ExprBinaryDiv},
	token.Percent: {precMultiplicative, ast.ExprBinaryMod},
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.Assign:        ast.AssignPlain,
	token.PlusAssign:    ast.AssignAdd,
	token.MinusAssign:   ast.AssignSub,
	token.StarAssign:    ast.AssignMul,
	token.SlashAssign:   ast.AssignDiv,
	token.PercentAssign: ast.AssignMod,
	token.ShlAssign:     ast.AssignShl,
	token.ShrAssign:     ast.AssignShr,
	token.AmpAssign:     ast.AssignBitAnd,
	token.PipeAssign:    ast.AssignBitOr,
	token.CaretAssign:   ast.AssignBitXor,
}

var prefixOps = map[token.Kind]ast.ExprUnaryOp{
	token.Plus:       ast.ExprUnaryPlus,
	token.Minus:      ast.ExprUnaryMinus,
	token.Bang:       ast.ExprUnaryNot,
	token.Tilde:      ast.ExprUnaryBitNot,
	token.Star:       ast.ExprUnaryDeref,
	token.Amp:        ast.ExprUnaryAddr,
	token.PlusPlus:   ast.ExprUnaryPreInc,
	token.MinusMinus: ast.ExprUnaryPreDec,
}
