package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the C types the front end models.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindInt
	KindUint
	KindFloat
	KindArray
	KindPointer
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindFunc:
		return "func"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers and floats in bits.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// ArrayUnsized marks "T x[]".
const ArrayUnsized = ^uint64(0)

// Type is a compact structural descriptor.
type Type struct {
	Kind  Kind
	Elem  TypeID // array/pointer element, function result
	Count uint64 // array length
	Width Width  // numeric primitives
}

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes float (32) or double (64).
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

func MakeArray(elem TypeID, count uint64) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeFunc describes a function by its result type only; parameters are
// checked loosely, as in K&R C.
func MakeFunc(result TypeID) Type {
	return Type{Kind: KindFunc, Elem: result}
}

func (t Type) IsInteger() bool { return t.Kind == KindInt || t.Kind == KindUint }

func (t Type) IsFloat() bool { return t.Kind == KindFloat }

func (t Type) IsArithmetic() bool { return t.IsInteger() || t.IsFloat() }

// IsIndexable reports arrays and pointers.
func (t Type) IsIndexable() bool { return t.Kind == KindArray || t.Kind == KindPointer }
