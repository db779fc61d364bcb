package kernel

import "loopkern/internal/kir"

// Intrinsics are the execution-environment primitives a kernel body calls.
type Intrinsics interface {
	// Declare adds the external declarations the other methods call.
	Declare(m *kir.Module)
	GlobalID(b *kir.Builder) kir.ValueID
	LocalID(b *kir.Builder) kir.ValueID
	LocalSize(b *kir.Builder) kir.ValueID
	// LocalBarrier waits for every lane of the work group and makes their
	// local-memory writes visible.
	LocalBarrier(b *kir.Builder)
}

// OpenCL binds the intrinsics to the OpenCL C builtins, dimension 0.
type OpenCL struct{}

const clkLocalMemFence = 1

var _ Intrinsics = OpenCL{}

func (OpenCL) Declare(m *kir.Module) {
	for _, name := range []string{"get_global_id", "get_local_id", "get_local_size"} {
		m.Declare(kir.Decl{Name: name, Result: kir.I32, Params: []kir.Type{kir.I32}})
	}
	m.Declare(kir.Decl{Name: "barrier", Result: kir.Void, Params: []kir.Type{kir.I32}})
}

func (OpenCL) GlobalID(b *kir.Builder) kir.ValueID {
	return b.Call("get_global_id", b.ConstInt(kir.I32, 0))
}

func (OpenCL) LocalID(b *kir.Builder) kir.ValueID {
	return b.Call("get_local_id", b.ConstInt(kir.I32, 0))
}

func (OpenCL) LocalSize(b *kir.Builder) kir.ValueID {
	return b.Call("get_local_size", b.ConstInt(kir.I32, 0))
}

func (OpenCL) LocalBarrier(b *kir.Builder) {
	b.Call("barrier", b.ConstInt(kir.I32, clkLocalMemFence))
}
