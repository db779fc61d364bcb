package lexer

import "loopkern/internal/diag"

// skipTrivia drops whitespace, comments and preprocessor lines.
func (lx *Lexer) skipTrivia() {
	atLineStart := lx.cursor.Off == 0 || lx.file.Content[lx.cursor.Off-1] == '\n'
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == '\n':
			lx.cursor.Bump()
			atLineStart = true
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v':
			lx.cursor.Bump()
		case ch == '#' && atLineStart:
			lx.skipDirective()
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			lx.skipBlockComment()
			atLineStart = false
		default:
			return
		}
	}
}

// skipDirective consumes a '#' line, honouring backslash continuations.
func (lx *Lexer) skipDirective() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Bump()
		if ch == '\\' && lx.cursor.Peek() == '\n' {
			lx.cursor.Bump()
			continue
		}
		if lx.cursor.Peek() == '\n' {
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return
		}
		lx.cursor.Bump()
	}
	lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
}
