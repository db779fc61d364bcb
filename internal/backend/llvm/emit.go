package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"loopkern/internal/kir"
)

// kernelAttr marks a function as an OpenCL kernel entry point.
const kernelAttr = "opencl.kernels"

// reqdGroupAttr pins the launch shape of kernels whose local buffer is sized
// for one work-group size.
const reqdGroupAttr = "reqd_work_group_size"

type Emitter struct {
	mod   *kir.Module
	out   *ir.Module
	decls map[string]*ir.Func
}

// EmitModule lowers a validated kernel module to LLVM IR text.
func EmitModule(mod *kir.Module) (string, error) {
	out, err := Lower(mod)
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return out.String(), nil
}

// Lower builds the llir module for mod without rendering it.
func Lower(mod *kir.Module) (*ir.Module, error) {
	if mod == nil {
		return nil, nil
	}
	if err := kir.Validate(mod); err != nil {
		return nil, fmt.Errorf("kernel module %s: %w", mod.Name, err)
	}
	e := &Emitter{
		mod:   mod,
		out:   ir.NewModule(),
		decls: make(map[string]*ir.Func, len(mod.Decls)),
	}
	e.out.SourceFilename = mod.Name
	e.out.TargetTriple = mod.Triple
	if err := e.emitDecls(); err != nil {
		return nil, err
	}
	for _, f := range mod.Funcs {
		if err := e.emitFunction(f); err != nil {
			return nil, fmt.Errorf("kernel %s: %w", f.Name, err)
		}
	}
	return e.out, nil
}

func (e *Emitter) emitDecls() error {
	for _, d := range e.mod.Decls {
		ret, err := llvmType(d.Result)
		if err != nil {
			return fmt.Errorf("declare @%s: %w", d.Name, err)
		}
		params := make([]*ir.Param, 0, len(d.Params))
		for _, p := range d.Params {
			pt, err := llvmType(p)
			if err != nil {
				return fmt.Errorf("declare @%s: %w", d.Name, err)
			}
			params = append(params, ir.NewParam("", pt))
		}
		fn := e.out.NewFunc(d.Name, ret, params...)
		fn.CallingConv = enum.CallingConvSPIRFunc
		e.decls[d.Name] = fn
	}
	return nil
}

// bufferGlobal allocates a work-group local array as an internal global in
// the local address space.
func (e *Emitter) bufferGlobal(buf kir.LocalBuffer) (*ir.Global, error) {
	elem, err := llvmType(buf.Elem)
	if err != nil {
		return nil, err
	}
	arr := types.NewArray(uint64(buf.Count), elem)
	g := e.out.NewGlobalDef(buf.Name, constant.NewZeroInitializer(arr))
	g.Linkage = enum.LinkageInternal
	g.AddrSpace = types.AddrSpace(kir.SpaceLocal)
	g.Typ = nil
	g.Type()
	return g, nil
}
