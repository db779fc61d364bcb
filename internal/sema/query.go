package sema

import (
	"strconv"
	"strings"

	"loopkern/internal/ast"
	"loopkern/internal/source"
	"loopkern/internal/types"
)

// TypeOf returns the checked type of an expression, NoTypeID when it failed.
func (r *Result) TypeOf(id ast.ExprID) types.TypeID {
	return r.ExprTypes[id]
}

// SymbolOf returns the declaration an identifier expression resolved to.
func (r *Result) SymbolOf(id ast.ExprID) (*Symbol, bool) {
	sym, ok := r.ExprSymbols[id]
	if !ok || sym == NoSymbolID || int(sym) >= len(r.Symbols) {
		return nil, false
	}
	return &r.Symbols[sym], true
}

// SymbolIDOf is SymbolOf without the lookup.
func (r *Result) SymbolIDOf(id ast.ExprID) SymbolID {
	return r.ExprSymbols[id]
}

func (r *Result) Types() *types.Interner {
	return r.TypeInterner
}

// Line maps a span to its 1-based source line.
func (r *Result) Line(span source.Span) uint32 {
	if r.files == nil {
		return 0
	}
	return r.files.Line(span)
}

// ParseIntLiteral decodes a C integer literal spelling, suffixes included.
func ParseIntLiteral(text string) (uint64, error) {
	text = strings.TrimRight(text, "uUlL")
	base := 10
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		base = 16
		text = text[2:]
	case len(text) > 1 && text[0] == '0':
		base = 8
		text = text[1:]
	}
	return strconv.ParseUint(text, base, 64)
}

// ParseFloatLiteral decodes a C floating literal, dropping the f/l suffix.
func ParseFloatLiteral(text string) (float64, error) {
	if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		text = strings.TrimRight(text, "fFlL")
	}
	return strconv.ParseFloat(text, 64)
}
