package sema

import (
	"loopkern/internal/ast"
	"loopkern/internal/source"
)

type LoopKind uint8

const (
	LoopFor LoopKind = iota
	LoopWhile
	LoopDo
)

func (k LoopKind) String() string {
	switch k {
	case LoopFor:
		return "for"
	case LoopWhile:
		return "while"
	case LoopDo:
		return "do"
	}
	return "loop"
}

// Loop is a loop statement found inside a function body.
type Loop struct {
	Stmt ast.StmtID
	Kind LoopKind
	Fn   ast.ItemID
	Span source.Span
	Line uint32 // 1-based; 0 when no file set was supplied
}

// ForLoops returns the counted loops in source order.
func (r *Result) ForLoops() []Loop {
	out := make([]Loop, 0, len(r.Loops))
	for _, l := range r.Loops {
		if l.Kind == LoopFor {
			out = append(out, l)
		}
	}
	return out
}
