package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"loopkern/internal/kir"
)

func llvmType(t kir.Type) (types.Type, error) {
	var base types.Type
	switch t.Kind {
	case kir.TVoid:
		if t.Pointer {
			// void* is spelled i8* in typed-pointer IR.
			base = types.I8
		} else {
			return types.Void, nil
		}
	case kir.TInt:
		switch t.Bits {
		case 1:
			base = types.I1
		case 8:
			base = types.I8
		case 16:
			base = types.I16
		case 32:
			base = types.I32
		case 64:
			base = types.I64
		default:
			base = types.NewInt(uint64(t.Bits))
		}
	case kir.TFloat:
		switch t.Bits {
		case 32:
			base = types.Float
		case 64:
			base = types.Double
		default:
			return nil, fmt.Errorf("unsupported float width %d", t.Bits)
		}
	default:
		return nil, fmt.Errorf("unknown type kind %d", t.Kind)
	}
	if t.Lanes > 0 {
		base = types.NewVector(uint64(t.Lanes), base)
	}
	if t.Pointer {
		ptr := types.NewPointer(base)
		ptr.AddrSpace = types.AddrSpace(t.Space)
		return ptr, nil
	}
	return base, nil
}

// constValue materialises a kir constant; vector constants are splats.
func constValue(v *kir.Value) (constant.Constant, error) {
	scalar := v.Type.Scalar()
	st, err := llvmType(scalar)
	if err != nil {
		return nil, err
	}
	var c constant.Constant
	switch {
	case scalar.IsInt():
		it, ok := st.(*types.IntType)
		if !ok {
			return nil, fmt.Errorf("constant %d: expected integer type, got %s", v.ID, st)
		}
		c = constant.NewInt(it, v.Int)
	case scalar.IsFloat():
		ft, ok := st.(*types.FloatType)
		if !ok {
			return nil, fmt.Errorf("constant %d: expected float type, got %s", v.ID, st)
		}
		c = constant.NewFloat(ft, v.Float)
	default:
		return nil, fmt.Errorf("constant %d has non-numeric type %s", v.ID, v.Type)
	}
	if !v.Type.IsVector() {
		return c, nil
	}
	elems := make([]constant.Constant, v.Type.Lanes)
	for i := range elems {
		elems[i] = c
	}
	return constant.NewVector(types.NewVector(uint64(v.Type.Lanes), c.Type()), elems...), nil
}

var ipreds = map[kir.Pred]enum.IPred{
	kir.PredEQ:  enum.IPredEQ,
	kir.PredNE:  enum.IPredNE,
	kir.PredSLT: enum.IPredSLT,
	kir.PredSLE: enum.IPredSLE,
	kir.PredSGT: enum.IPredSGT,
	kir.PredSGE: enum.IPredSGE,
	kir.PredULT: enum.IPredULT,
}

var atomicOps = map[kir.AtomicOp]enum.AtomicOp{
	kir.AtomicAdd:  enum.AtomicOpAdd,
	kir.AtomicSub:  enum.AtomicOpSub,
	kir.AtomicFAdd: enum.AtomicOpFAdd,
	kir.AtomicFSub: enum.AtomicOpFSub,
}

func ordering(o kir.Ordering) enum.AtomicOrdering {
	if o == kir.OrderSeqCst {
		return enum.AtomicOrderingSequentiallyConsistent
	}
	return enum.AtomicOrderingMonotonic
}
