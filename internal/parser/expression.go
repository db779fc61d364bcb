package parser

import (
	"strconv"

	"loopkern/internal/ast"
	"loopkern/internal/diag"
	"loopkern/internal/source"
	"loopkern/internal/token"
)

// parseExpr parses a full expression including the comma operator.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	left, ok := p.parseAssignExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for p.at(token.Comma) {
		p.advance()
		right, ok := p.parseAssignExpr()
		if !ok {
			return ast.NoExprID, false
		}
		left = p.arenas.Exprs.NewBinary(p.cover(left, right), ast.ExprBinaryComma, left, right)
	}
	return left, true
}

// parseAssignExpr handles the right-associative assignment level.
func (p *Parser) parseAssignExpr() (ast.ExprID, bool) {
	left, ok := p.parseTernaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	op, isAssign := assignOps[p.peek().Kind]
	if !isAssign {
		return left, true
	}
	p.advance()
	right, ok := p.parseAssignExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after assignment operator")
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewAssign(p.cover(left, right), op, left, right), true
}

func (p *Parser) parseTernaryExpr() (ast.ExprID, bool) {
	cond, ok := p.parseBinaryExpr(precLogicalOr)
	if !ok || !p.at(token.Question) {
		return cond, ok
	}
	p.advance()
	then, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok = p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression"); !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseTernaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewTernary(p.cover(cond, els), cond, then, els), true
}

// parseBinaryExpr is a precedence-climbing loop over binaryOps.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		info, isBinary := binaryOps[p.peek().Kind]
		if !isBinary || info.prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinaryExpr(info.prec + 1)
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after binary operator")
			return ast.NoExprID, false
		}
		left = p.arenas.Exprs.NewBinary(p.cover(left, right), info.op, left, right)
	}
}

func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	if op, isPrefix := prefixOps[tok.Kind]; isPrefix {
		p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnary(tok.Span.Cover(p.span(operand)), op, operand), true
	}
	switch tok.Kind {
	case token.KwSizeof:
		return p.parseSizeof()
	case token.LParen:
		if p.peekAt(1).Kind.IsTypeSpecifier() {
			p.advance()
			typ, ok := p.parseTypeName()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after cast type"); !ok {
				return ast.NoExprID, false
			}
			value, ok := p.parseUnaryExpr()
			if !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewCast(tok.Span.Cover(p.span(value)), typ, value), true
		}
	}
	return p.parsePostfixExpr()
}

// parseSizeof folds "sizeof(type)" to an integer literal using LP64 sizes.
func (p *Parser) parseSizeof() (ast.ExprID, bool) {
	kw := p.advance()
	if p.at(token.LParen) && p.peekAt(1).Kind.IsTypeSpecifier() {
		p.advance()
		typ, ok := p.parseTypeName()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after sizeof type"); !ok {
			return ast.NoExprID, false
		}
		size := strconv.FormatUint(sizeOf(p.arenas.Types.Get(typ)), 10)
		return p.arenas.Exprs.NewLiteral(kw.Span.Cover(p.lastSpan), ast.ExprLitInt, p.intern(size)), true
	}
	operand, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnary(kw.Span.Cover(p.span(operand)), ast.ExprUnarySizeof, operand), true
}

func sizeOf(te *ast.TypeExpr) uint64 {
	if te.Pointers > 0 {
		return 8
	}
	switch te.Base {
	case ast.BaseChar:
		return 1
	case ast.BaseShort:
		return 2
	case ast.BaseLong, ast.BaseDouble:
		return 8
	case ast.BaseVoid:
		return 1
	default:
		return 4
	}
}

func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		switch p.peek().Kind {
		case token.LBracket:
			p.advance()
			index, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok = p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after index"); !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewIndex(p.span(expr).Cover(p.lastSpan), expr, index)
		case token.LParen:
			p.advance()
			var args []ast.ExprID
			for !p.at(token.RParen) {
				arg, ok := p.parseAssignExpr()
				if !ok {
					return ast.NoExprID, false
				}
				args = append(args, arg)
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments"); !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewCall(p.span(expr).Cover(p.lastSpan), expr, args)
		case token.PlusPlus:
			tok := p.advance()
			expr = p.arenas.Exprs.NewUnary(p.span(expr).Cover(tok.Span), ast.ExprUnaryPostInc, expr)
		case token.MinusMinus:
			tok := p.advance()
			expr = p.arenas.Exprs.NewUnary(p.span(expr).Cover(tok.Span), ast.ExprUnaryPostDec, expr)
		case token.Dot, token.Arrow:
			p.err(diag.SynUnexpectedToken, "member access is not supported")
			return ast.NoExprID, false
		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, p.intern(tok.Text)), true
	case token.IntLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLitInt, p.intern(tok.Text)), true
	case token.FloatLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLitFloat, p.intern(tok.Text)), true
	case token.CharLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.ExprLitChar, p.intern(tok.Text)), true
	case token.StringLit:
		p.advance()
		// adjacent literals concatenate
		text := tok.Text
		sp := tok.Span
		for p.at(token.StringLit) {
			next := p.advance()
			text = text[:len(text)-1] + next.Text[1:]
			sp = sp.Cover(next.Span)
		}
		return p.arenas.Exprs.NewLiteral(sp, ast.ExprLitString, p.intern(text)), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(tok.Span.Cover(p.lastSpan), inner), true
	}
	p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
	return ast.NoExprID, false
}

func (p *Parser) span(id ast.ExprID) source.Span {
	return p.arenas.Exprs.Get(id).Span
}

func (p *Parser) cover(a, b ast.ExprID) source.Span {
	return p.span(a).Cover(p.span(b))
}
