package types

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the C arithmetic types.
type Builtins struct {
	Invalid TypeID
	Void    TypeID
	Char    TypeID
	Short   TypeID
	Int     TypeID
	Long    TypeID
	UChar   TypeID
	UShort  TypeID
	UInt    TypeID
	ULong   TypeID
	Float   TypeID
	Double  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 32),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Char = in.Intern(MakeInt(Width8))
	in.builtins.Short = in.Intern(MakeInt(Width16))
	in.builtins.Int = in.Intern(MakeInt(Width32))
	in.builtins.Long = in.Intern(MakeInt(Width64))
	in.builtins.UChar = in.Intern(MakeUint(Width8))
	in.builtins.UShort = in.Intern(MakeUint(Width16))
	in.builtins.UInt = in.Intern(MakeUint(Width32))
	in.builtins.ULong = in.Intern(MakeUint(Width64))
	in.builtins.Float = in.Intern(MakeFloat(Width32))
	in.builtins.Double = in.Intern(MakeFloat(Width64))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Elem returns the element type of an array or pointer.
func (in *Interner) Elem(id TypeID) (TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || !tt.IsIndexable() {
		return NoTypeID, false
	}
	return tt.Elem, true
}

// Decay turns arrays into pointers to their element, as for parameters and rvalues.
func (in *Interner) Decay(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArray {
		return id
	}
	return in.Intern(MakePointer(tt.Elem))
}

// Promote applies the integer promotions: anything narrower than int becomes int.
func (in *Interner) Promote(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if ok && tt.IsInteger() && tt.Width < Width32 {
		return in.builtins.Int
	}
	return id
}

// Common implements the usual arithmetic conversions of C89.
// Non-arithmetic operands yield NoTypeID.
func (in *Interner) Common(a, b TypeID) TypeID {
	ta, okA := in.Lookup(a)
	tb, okB := in.Lookup(b)
	if !okA || !okB || !ta.IsArithmetic() || !tb.IsArithmetic() {
		return NoTypeID
	}
	switch {
	case ta.IsFloat() && tb.IsFloat():
		if ta.Width >= tb.Width {
			return a
		}
		return b
	case ta.IsFloat():
		return a
	case tb.IsFloat():
		return b
	}
	a, b = in.Promote(a), in.Promote(b)
	ta, tb = in.MustLookup(a), in.MustLookup(b)
	switch {
	case ta.Width > tb.Width:
		return a
	case tb.Width > ta.Width:
		return b
	case ta.Kind == KindUint:
		return a
	default:
		return b
	}
}

// Label renders a type in C spelling: "float", "unsigned int", "float *", "int[16]".
func (in *Interner) Label(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindVoid:
		return "void"
	case KindInt, KindUint:
		name := intName(tt.Width)
		if tt.Kind == KindUint {
			return "unsigned " + name
		}
		return name
	case KindFloat:
		if tt.Width == Width64 {
			return "double"
		}
		return "float"
	case KindPointer:
		return in.Label(tt.Elem) + " *"
	case KindArray:
		if tt.Count == ArrayUnsized {
			return in.Label(tt.Elem) + "[]"
		}
		return in.Label(tt.Elem) + "[" + strconv.FormatUint(tt.Count, 10) + "]"
	case KindFunc:
		return in.Label(tt.Elem) + " ()"
	}
	return tt.Kind.String()
}

func intName(w Width) string {
	switch w {
	case Width8:
		return "char"
	case Width16:
		return "short"
	case Width64:
		return "long"
	default:
		return "int"
	}
}
