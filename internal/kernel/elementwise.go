package kernel

import (
	"fmt"
	"strconv"

	"loopkern/internal/kir"
	"loopkern/internal/vect"
)

// elementwise emits
//
//	entry:  base = gid*W; condbr base+W-1 < size, vector, scalar
//	vector: one W-wide load, op, store; br exit
//	scalar: W-1 guarded single-element steps, each may leave to exit
//	exit:   ret
func (g *gen) elementwise() error {
	b := g.b
	size := g.declareParams(g.req.Descriptor.Arguments)

	eop := g.req.Verdict.ElementOp
	if !g.req.Verdict.SimplePattern {
		var ok bool
		eop, ok = vect.FirstElementStore(g.req.AST, g.req.Info, g.req.Loop)
		if !ok {
			return fmt.Errorf("%w: no array element is assigned in the loop body", ErrUnsupported)
		}
		if !eop.Source.IsValid() {
			return fmt.Errorf("%w: the stored value reads no element indexed by the induction variable", ErrUnsupported)
		}
	}
	dst, err := g.arrayParam(eop.Target)
	if err != nil {
		return err
	}
	src, err := g.arrayParam(eop.Source)
	if err != nil {
		return err
	}

	entry := b.NewBlock("entry")
	vector := b.NewBlock("vector")
	tail := make([]kir.BlockID, 0, 2*(g.lanes-1))
	for k := uint16(0); k < g.lanes-1; k++ {
		name := "scalar"
		if k > 0 {
			name += "." + strconv.Itoa(int(k))
		}
		tail = append(tail, b.NewBlock(name), b.NewBlock(name+".body"))
	}
	exit := b.NewBlock("exit")

	// identity unless the body applies "op literal"
	var (
		op     kir.Op
		hasOp  bool
		scalar kir.ValueID
	)
	if eop.Literal.IsValid() {
		if op, err = g.arith(eop.Op); err != nil {
			return err
		}
		if scalar, err = g.constant(eop.Literal); err != nil {
			return err
		}
		hasOp = true
	}
	apply := func(x, c kir.ValueID) kir.ValueID {
		if !hasOp {
			return x
		}
		if eop.LitFirst {
			return b.Binary(op, c, x)
		}
		return b.Binary(op, x, c)
	}

	b.SetBlock(entry)
	gid := g.ec.intrinsics.GlobalID(b)
	base := b.Binary(kir.OpMul, gid, g.i32(int64(g.lanes)))
	last := b.Binary(kir.OpAdd, base, g.i32(int64(g.lanes)-1))
	b.CondBr(b.ICmp(kir.PredSLT, last, size), vector, tail[0])

	b.SetBlock(vector)
	vecT := kir.Ptr(kir.Vec(g.elem, g.lanes), kir.SpaceGlobal)
	in := b.Load(b.PtrCast(b.GEP(src, base), vecT))
	var splat kir.ValueID
	if hasOp {
		splat = b.Splat(scalar, g.lanes)
	}
	b.Store(apply(in, splat), b.PtrCast(b.GEP(dst, base), vecT))
	b.Br(exit)

	for k := 0; k < len(tail); k += 2 {
		check, body := tail[k], tail[k+1]
		next := exit
		if k+2 < len(tail) {
			next = tail[k+2]
		}
		b.SetBlock(check)
		idx := base
		if k > 0 {
			idx = b.Binary(kir.OpAdd, base, g.i32(int64(k/2)))
		}
		b.CondBr(b.ICmp(kir.PredSLT, idx, size), body, exit)

		b.SetBlock(body)
		x := b.Load(b.GEP(src, idx))
		b.Store(apply(x, scalar), b.GEP(dst, idx))
		b.Br(next)
	}

	b.SetBlock(exit)
	b.Ret()
	return nil
}
