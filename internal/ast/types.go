package ast

import (
	"loopkern/internal/source"
)

// BaseType is the arithmetic or void specifier of a declaration.
type BaseType uint8

const (
	BaseInt BaseType = iota // plain "int", also the implicit default
	BaseVoid
	BaseChar
	BaseShort
	BaseLong
	BaseFloat
	BaseDouble
)

type Storage uint8

const (
	StorageNone Storage = iota
	StorageStatic
	StorageExtern
	StorageRegister
	StorageAuto
)

// TypeExpr is a written C type: specifiers, pointer depth and array extents.
type TypeExpr struct {
	Span     source.Span
	Base     BaseType
	Unsigned bool
	Const    bool
	Pointers uint8
	// Dims lists array extents outermost first; NoExprID marks "[]".
	Dims []ExprID
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{Arena: NewArena[TypeExpr](capHint)}
}

func (t *TypeExprs) New(te TypeExpr) TypeID {
	te.Dims = append([]ExprID(nil), te.Dims...)
	return TypeID(t.Arena.Allocate(te))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
