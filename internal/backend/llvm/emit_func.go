package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"loopkern/internal/kir"
)

type funcEmitter struct {
	emitter *Emitter
	f       *kir.Func
	fn      *ir.Func
	blocks  []*ir.Block
	values  map[kir.ValueID]value.Value
	buffers []*ir.Global
}

func (e *Emitter) emitFunction(f *kir.Func) error {
	if f == nil {
		return nil
	}
	fe := &funcEmitter{
		emitter: e,
		f:       f,
		values:  make(map[kir.ValueID]value.Value, len(f.Values)),
	}
	params := make([]*ir.Param, 0, len(f.Params))
	for _, p := range f.Params {
		pt, err := llvmType(p.Type)
		if err != nil {
			return fmt.Errorf("param %s: %w", p.Name, err)
		}
		param := ir.NewParam(p.Name, pt)
		params = append(params, param)
		fe.values[p.Value] = param
	}
	fe.fn = e.out.NewFunc(f.Name, types.Void, params...)
	fe.fn.CallingConv = enum.CallingConvSPIRKernel
	fe.fn.FuncAttrs = append(fe.fn.FuncAttrs, ir.AttrPair{Key: kernelAttr, Value: f.Name})
	if f.Shape == kir.ShapeReduction && f.WorkGroupSize > 0 {
		fe.fn.FuncAttrs = append(fe.fn.FuncAttrs, ir.AttrPair{
			Key:   reqdGroupAttr,
			Value: fmt.Sprintf("%d,1,1", f.WorkGroupSize),
		})
	}

	for _, buf := range f.LocalBuffers {
		g, err := e.bufferGlobal(buf)
		if err != nil {
			return fmt.Errorf("local buffer %s: %w", buf.Name, err)
		}
		fe.buffers = append(fe.buffers, g)
	}

	// Blocks keep their kir order in the output; bodies are filled in reverse
	// postorder so every operand is lowered before its first use.
	fe.blocks = make([]*ir.Block, len(f.Blocks))
	for i := range f.Blocks {
		fe.blocks[i] = fe.fn.NewBlock(f.Blocks[i].Name)
	}
	for _, id := range fe.blockOrder() {
		bb := f.Block(id)
		for i := range bb.Instrs {
			if err := fe.emitInstr(fe.blocks[id], &bb.Instrs[i]); err != nil {
				return fmt.Errorf("block %s: %w", bb.Name, err)
			}
		}
		if err := fe.emitTerminator(fe.blocks[id], &bb.Term); err != nil {
			return fmt.Errorf("block %s: %w", bb.Name, err)
		}
	}
	return nil
}

// blockOrder is the reverse postorder from the entry followed by any
// unreachable blocks in declaration order.
func (fe *funcEmitter) blockOrder() []kir.BlockID {
	n := len(fe.f.Blocks)
	seen := make([]bool, n)
	post := make([]kir.BlockID, 0, n)
	var visit func(id kir.BlockID)
	visit = func(id kir.BlockID) {
		if id < 0 || int(id) >= n || seen[id] {
			return
		}
		seen[id] = true
		for _, succ := range fe.f.Blocks[id].Term.Successors() {
			visit(succ)
		}
		post = append(post, id)
	}
	visit(fe.f.Entry)
	order := make([]kir.BlockID, 0, n)
	for i := len(post) - 1; i >= 0; i-- {
		order = append(order, post[i])
	}
	for i := range seen {
		if !seen[i] {
			order = append(order, kir.BlockID(i))
		}
	}
	return order
}

// operand resolves a kir value id to an llir value, creating constants and
// buffer views lazily.
func (fe *funcEmitter) operand(id kir.ValueID) (value.Value, error) {
	if v, ok := fe.values[id]; ok {
		return v, nil
	}
	kv := fe.f.Value(id)
	if kv == nil {
		return nil, fmt.Errorf("unknown value %d", id)
	}
	switch kv.Kind {
	case kir.ValConst:
		c, err := constValue(kv)
		if err != nil {
			return nil, err
		}
		fe.values[id] = c
		return c, nil
	case kir.ValBuffer:
		if kv.Buffer < 0 || kv.Buffer >= len(fe.buffers) {
			return nil, fmt.Errorf("value %d names missing local buffer %d", id, kv.Buffer)
		}
		pt, err := llvmType(kv.Type)
		if err != nil {
			return nil, err
		}
		// [N x T] addrspace(3)* viewed as T addrspace(3)*
		c := constant.NewBitCast(fe.buffers[kv.Buffer], pt)
		fe.values[id] = c
		return c, nil
	case kir.ValInstr:
		return nil, fmt.Errorf("value %d used before its definition", id)
	default:
		return nil, fmt.Errorf("value %d has no lowering", id)
	}
}

func (fe *funcEmitter) operands(ids []kir.ValueID) ([]value.Value, error) {
	out := make([]value.Value, 0, len(ids))
	for _, id := range ids {
		v, err := fe.operand(id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (fe *funcEmitter) emitTerminator(bb *ir.Block, term *kir.Terminator) error {
	switch term.Kind {
	case kir.TermReturn:
		bb.NewRet(nil)
	case kir.TermBr:
		bb.NewBr(fe.blocks[term.Then])
	case kir.TermCondBr:
		cond, err := fe.operand(term.Cond)
		if err != nil {
			return err
		}
		bb.NewCondBr(cond, fe.blocks[term.Then], fe.blocks[term.Else])
	default:
		return fmt.Errorf("unterminated block")
	}
	return nil
}
