package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"loopkern/internal/kir"
)

func (fe *funcEmitter) emitInstr(bb *ir.Block, in *kir.Instr) error {
	args, err := fe.operands(in.Args)
	if err != nil {
		return fmt.Errorf("%s: %w", in.Op, err)
	}
	var result value.Value
	switch {
	case in.Op.IsBinary():
		result, err = fe.emitBinary(bb, in.Op, args)
	default:
		result, err = fe.emitOther(bb, in, args)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", in.Op, err)
	}
	if in.Result != kir.NoValue && result != nil {
		fe.values[in.Result] = result
	}
	return nil
}

func (fe *funcEmitter) emitBinary(bb *ir.Block, op kir.Op, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("want 2 operands, got %d", len(args))
	}
	x, y := args[0], args[1]
	switch op {
	case kir.OpAdd:
		return bb.NewAdd(x, y), nil
	case kir.OpSub:
		return bb.NewSub(x, y), nil
	case kir.OpMul:
		return bb.NewMul(x, y), nil
	case kir.OpSDiv:
		return bb.NewSDiv(x, y), nil
	case kir.OpUDiv:
		return bb.NewUDiv(x, y), nil
	case kir.OpFAdd:
		return bb.NewFAdd(x, y), nil
	case kir.OpFSub:
		return bb.NewFSub(x, y), nil
	case kir.OpFMul:
		return bb.NewFMul(x, y), nil
	case kir.OpFDiv:
		return bb.NewFDiv(x, y), nil
	case kir.OpAnd:
		return bb.NewAnd(x, y), nil
	}
	return nil, fmt.Errorf("not a binary op")
}

func (fe *funcEmitter) emitOther(bb *ir.Block, in *kir.Instr, args []value.Value) (value.Value, error) {
	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("want %d operands, got %d", n, len(args))
		}
		return nil
	}
	switch in.Op {
	case kir.OpICmp:
		if err := want(2); err != nil {
			return nil, err
		}
		pred, ok := ipreds[in.Pred]
		if !ok {
			return nil, fmt.Errorf("unknown predicate %s", in.Pred)
		}
		return bb.NewICmp(pred, args[0], args[1]), nil
	case kir.OpLoad:
		if err := want(1); err != nil {
			return nil, err
		}
		elem, err := fe.resultType(in)
		if err != nil {
			return nil, err
		}
		return bb.NewLoad(elem, args[0]), nil
	case kir.OpStore:
		if err := want(2); err != nil {
			return nil, err
		}
		bb.NewStore(args[0], args[1])
		return nil, nil
	case kir.OpPtrCast:
		if err := want(1); err != nil {
			return nil, err
		}
		to, err := fe.resultType(in)
		if err != nil {
			return nil, err
		}
		src := fe.f.Value(in.Args[0])
		dst := fe.f.Value(in.Result)
		if src != nil && dst != nil && src.Type.Space != dst.Type.Space {
			return bb.NewAddrSpaceCast(args[0], to), nil
		}
		return bb.NewBitCast(args[0], to), nil
	case kir.OpGEP:
		if err := want(2); err != nil {
			return nil, err
		}
		base := fe.f.Value(in.Args[0])
		if base == nil {
			return nil, fmt.Errorf("gep base %d is undefined", in.Args[0])
		}
		elem, err := llvmType(base.Type.Elem())
		if err != nil {
			return nil, err
		}
		to, err := fe.resultType(in)
		if err != nil {
			return nil, err
		}
		gep := bb.NewGetElementPtr(elem, args[0], args[1])
		gep.InBounds = true
		gep.Typ = to
		return gep, nil
	case kir.OpExtract:
		if err := want(2); err != nil {
			return nil, err
		}
		return bb.NewExtractElement(args[0], args[1]), nil
	case kir.OpInsert:
		if err := want(3); err != nil {
			return nil, err
		}
		return bb.NewInsertElement(args[0], args[1], args[2]), nil
	case kir.OpCall:
		callee, ok := fe.emitter.decls[in.Callee]
		if !ok {
			return nil, fmt.Errorf("undeclared @%s", in.Callee)
		}
		call := bb.NewCall(callee, args...)
		call.CallingConv = callee.CallingConv
		return call, nil
	case kir.OpAtomicRMW:
		if err := want(2); err != nil {
			return nil, err
		}
		op, ok := atomicOps[in.Atomic]
		if !ok {
			return nil, fmt.Errorf("unknown atomic op %s", in.Atomic)
		}
		return bb.NewAtomicRMW(op, args[0], args[1], ordering(in.Order)), nil
	}
	return nil, fmt.Errorf("no lowering")
}

func (fe *funcEmitter) resultType(in *kir.Instr) (types.Type, error) {
	v := fe.f.Value(in.Result)
	if v == nil {
		return nil, fmt.Errorf("missing result value")
	}
	return llvmType(v.Type)
}
