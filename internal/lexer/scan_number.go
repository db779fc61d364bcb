package lexer

import (
	"loopkern/internal/diag"
	"loopkern/internal/token"
)

// scanNumber accepts C89 integer and floating constants:
// 0x1F, 017, 42u, 7L, 1.5, .5f, 1e-3, 2.0F.
// Suffixes stay in Token.Text; the parser interprets them.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		if !isHex(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected hex digit after 0x")
		}
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.finishInt(start)
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit in exponent")
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	if kind == token.FloatLit {
		if b := lx.cursor.Peek(); b == 'f' || b == 'F' || b == 'l' || b == 'L' {
			lx.cursor.Bump()
		}
		return lx.finish(start, kind)
	}

	// октальные литералы с цифрами 8/9 недопустимы
	sp := lx.cursor.SpanFrom(start)
	if text := lx.text(sp); len(text) > 1 && text[0] == '0' {
		for i := 1; i < len(text); i++ {
			if !isOct(text[i]) {
				return lx.badNumber(start, "invalid digit in octal constant")
			}
		}
	}
	return lx.finishInt(start)
}

func (lx *Lexer) finishInt(start Mark) token.Token {
	for {
		b := lx.cursor.Peek()
		if b != 'u' && b != 'U' && b != 'l' && b != 'L' {
			break
		}
		lx.cursor.Bump()
	}
	if isIdentContinue(lx.cursor.Peek()) {
		return lx.badNumber(start, "invalid suffix on integer constant")
	}
	return lx.finish(start, token.IntLit)
}

func (lx *Lexer) finish(start Mark, kind token.Kind) token.Token {
	if isIdentContinue(lx.cursor.Peek()) {
		return lx.badNumber(start, "invalid suffix on numeric constant")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	for isIdentContinue(lx.cursor.Peek()) || lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
