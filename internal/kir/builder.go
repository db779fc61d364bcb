package kir

import (
	"fmt"

	"fortio.org/safecast"
)

// Builder appends blocks and instructions to one function. It owns no state
// beyond the function under construction and its insertion point.
type Builder struct {
	m   *Module
	f   *Func
	cur BlockID
}

// NewFunc adds an empty kernel to m and returns a builder for it.
func NewFunc(m *Module, name string, shape Shape) *Builder {
	f := &Func{Name: name, Shape: shape, Entry: NoBlockID}
	m.Funcs = append(m.Funcs, f)
	return &Builder{m: m, f: f, cur: NoBlockID}
}

func (b *Builder) Func() *Func { return b.f }

func (b *Builder) value(v Value) ValueID {
	id, err := safecast.Conv[int32](len(b.f.Values))
	if err != nil {
		panic(fmt.Errorf("kir: too many values: %w", err))
	}
	v.ID = ValueID(id)
	b.f.Values = append(b.f.Values, v)
	return v.ID
}

func (b *Builder) Param(name string, t Type) ValueID {
	id := b.value(Value{Kind: ValParam, Type: t, Name: name})
	b.f.Params = append(b.f.Params, Param{Name: name, Type: t, Value: id})
	return id
}

// Buffer declares a local-memory array and returns a pointer to its first element.
func (b *Builder) Buffer(name string, elem Type, count uint32) ValueID {
	b.f.LocalBuffers = append(b.f.LocalBuffers, LocalBuffer{Name: name, Elem: elem, Count: count})
	return b.value(Value{
		Kind:   ValBuffer,
		Type:   Ptr(elem, SpaceLocal),
		Name:   name,
		Buffer: len(b.f.LocalBuffers) - 1,
	})
}

func (b *Builder) ConstInt(t Type, v int64) ValueID {
	return b.value(Value{Kind: ValConst, Type: t, Int: v})
}

func (b *Builder) ConstFloat(t Type, v float64) ValueID {
	return b.value(Value{Kind: ValConst, Type: t, Float: v})
}

// Splat is a vector constant with every lane equal to the scalar constant.
func (b *Builder) Splat(scalar ValueID, lanes uint16) ValueID {
	s := b.f.Values[scalar]
	s.Type = Vec(s.Type, lanes)
	s.Name = ""
	return b.value(s)
}

// NewBlock appends a block; the first block becomes the entry.
func (b *Builder) NewBlock(name string) BlockID {
	n, err := safecast.Conv[int32](len(b.f.Blocks))
	if err != nil {
		panic(fmt.Errorf("kir: too many blocks: %w", err))
	}
	id := BlockID(n)
	b.f.Blocks = append(b.f.Blocks, Block{ID: id, Name: name})
	if b.f.Entry == NoBlockID {
		b.f.Entry = id
	}
	return id
}

// SetBlock moves the insertion point.
func (b *Builder) SetBlock(id BlockID) { b.cur = id }

func (b *Builder) Current() BlockID { return b.cur }

func (b *Builder) emit(in Instr, result Type) ValueID {
	in.Result = NoValue
	if !result.IsVoid() {
		in.Result = b.value(Value{Kind: ValInstr, Type: result})
	}
	blk := &b.f.Blocks[b.cur]
	blk.Instrs = append(blk.Instrs, in)
	return in.Result
}

func (b *Builder) typeOf(id ValueID) Type {
	if v := b.f.Value(id); v != nil {
		return v.Type
	}
	return Void
}

// Binary emits lhs op rhs; the result has the type of lhs.
func (b *Builder) Binary(op Op, lhs, rhs ValueID) ValueID {
	return b.emit(Instr{Op: op, Args: []ValueID{lhs, rhs}}, b.typeOf(lhs))
}

func (b *Builder) ICmp(pred Pred, lhs, rhs ValueID) ValueID {
	return b.emit(Instr{Op: OpICmp, Pred: pred, Args: []ValueID{lhs, rhs}}, I1)
}

func (b *Builder) Load(ptr ValueID) ValueID {
	return b.emit(Instr{Op: OpLoad, Args: []ValueID{ptr}}, b.typeOf(ptr).Elem())
}

func (b *Builder) Store(value, ptr ValueID) {
	b.emit(Instr{Op: OpStore, Args: []ValueID{value, ptr}}, Void)
}

func (b *Builder) PtrCast(ptr ValueID, to Type) ValueID {
	return b.emit(Instr{Op: OpPtrCast, Args: []ValueID{ptr}}, to)
}

// GEP offsets ptr by index elements.
func (b *Builder) GEP(ptr, index ValueID) ValueID {
	return b.emit(Instr{Op: OpGEP, Args: []ValueID{ptr, index}}, b.typeOf(ptr))
}

func (b *Builder) Extract(vec, index ValueID) ValueID {
	return b.emit(Instr{Op: OpExtract, Args: []ValueID{vec, index}}, b.typeOf(vec).Scalar())
}

func (b *Builder) Insert(vec, scalar, index ValueID) ValueID {
	return b.emit(Instr{Op: OpInsert, Args: []ValueID{vec, scalar, index}}, b.typeOf(vec))
}

// Call emits a call to a declared function; unknown callees produce a void
// call that Validate rejects.
func (b *Builder) Call(callee string, args ...ValueID) ValueID {
	result := Void
	if d, ok := b.m.Decl(callee); ok {
		result = d.Result
	}
	return b.emit(Instr{Op: OpCall, Callee: callee, Args: args}, result)
}

func (b *Builder) AtomicRMW(op AtomicOp, ptr, value ValueID, order Ordering) {
	b.emit(Instr{Op: OpAtomicRMW, Atomic: op, Order: order, Args: []ValueID{ptr, value}}, Void)
}

func (b *Builder) Br(target BlockID) {
	b.f.Blocks[b.cur].Term = Terminator{Kind: TermBr, Then: target, Else: NoBlockID, Cond: NoValue}
}

func (b *Builder) CondBr(cond ValueID, then, els BlockID) {
	b.f.Blocks[b.cur].Term = Terminator{Kind: TermCondBr, Cond: cond, Then: then, Else: els}
}

func (b *Builder) Ret() {
	b.f.Blocks[b.cur].Term = Terminator{Kind: TermReturn, Cond: NoValue, Then: NoBlockID, Else: NoBlockID}
}
