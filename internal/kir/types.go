package kir

import (
	"fmt"
	"strconv"
)

type TypeKind uint8

const (
	TVoid TypeKind = iota
	TInt
	TFloat
)

// AddrSpace follows the SPIR numbering.
type AddrSpace uint8

const (
	SpacePrivate AddrSpace = 0
	SpaceGlobal  AddrSpace = 1
	SpaceLocal   AddrSpace = 3
)

func (s AddrSpace) String() string {
	switch s {
	case SpaceGlobal:
		return "global"
	case SpaceLocal:
		return "local"
	default:
		return "private"
	}
}

// Type is a scalar, a vector of scalars, or a single-level pointer to either.
// It is comparable, so == is type identity.
type Type struct {
	Kind    TypeKind
	Bits    uint8  // 1 for booleans
	Lanes   uint16 // 0 for scalars
	Pointer bool
	Space   AddrSpace
}

var (
	Void = Type{Kind: TVoid}
	I1   = Type{Kind: TInt, Bits: 1}
	I32  = Type{Kind: TInt, Bits: 32}
	I64  = Type{Kind: TInt, Bits: 64}
	F32  = Type{Kind: TFloat, Bits: 32}
	F64  = Type{Kind: TFloat, Bits: 64}
)

func IntType(bits uint8) Type { return Type{Kind: TInt, Bits: bits} }

func FloatType(bits uint8) Type { return Type{Kind: TFloat, Bits: bits} }

// Vec returns a vector of lanes elements of scalar t.
func Vec(t Type, lanes uint16) Type {
	t.Lanes = lanes
	return t
}

// Ptr returns a pointer to t in the given address space.
func Ptr(t Type, space AddrSpace) Type {
	t.Pointer = true
	t.Space = space
	return t
}

// Elem is the pointee of a pointer type.
func (t Type) Elem() Type {
	t.Pointer = false
	t.Space = SpacePrivate
	return t
}

// Scalar is the lane type of a vector (or t itself).
func (t Type) Scalar() Type {
	t.Lanes = 0
	return t
}

func (t Type) IsVoid() bool   { return t.Kind == TVoid && !t.Pointer }
func (t Type) IsInt() bool    { return t.Kind == TInt && !t.Pointer }
func (t Type) IsFloat() bool  { return t.Kind == TFloat && !t.Pointer }
func (t Type) IsVector() bool { return t.Lanes > 0 && !t.Pointer }
func (t Type) IsBool() bool   { return t.Kind == TInt && t.Bits == 1 && t.Lanes == 0 && !t.Pointer }

// String renders LLVM-like spelling: "float", "<4 x float>", "float addrspace(1)*".
func (t Type) String() string {
	var s string
	switch t.Kind {
	case TVoid:
		s = "void"
	case TInt:
		s = "i" + strconv.Itoa(int(t.Bits))
	case TFloat:
		if t.Bits == 64 {
			s = "double"
		} else {
			s = "float"
		}
	}
	if t.Lanes > 0 {
		s = fmt.Sprintf("<%d x %s>", t.Lanes, s)
	}
	if t.Pointer {
		if t.Space != SpacePrivate {
			s += fmt.Sprintf(" addrspace(%d)", t.Space)
		}
		s += "*"
	}
	return s
}
