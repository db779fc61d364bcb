package kernel

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"

	"loopkern/internal/ast"
	"loopkern/internal/kir"
	"loopkern/internal/sema"
	"loopkern/internal/trace"
	"loopkern/internal/types"
	"loopkern/internal/vect"
)

var (
	// ErrNotVectorizable is returned for loops the verdict rejected.
	ErrNotVectorizable = errors.New("loop is not vectorizable")
	// ErrUnsupported marks loop bodies outside the generator's vocabulary.
	ErrUnsupported = errors.New("unsupported loop body")
	// ErrVerification wraps kir.Validate failures.
	ErrVerification = errors.New("kernel failed verification")
)

// EmitContext is fixed at construction and shared by any number of
// concurrent Generate calls.
type EmitContext struct {
	intrinsics Intrinsics
	config     Config
}

func NewEmitContext(in Intrinsics, cfg Config) EmitContext {
	if in == nil {
		in = OpenCL{}
	}
	return EmitContext{intrinsics: in, config: cfg.withDefaults()}
}

func (ec EmitContext) Config() Config { return ec.config }

// Request is everything Generate needs to know about one loop.
type Request struct {
	AST        *ast.Builder
	Info       vect.Info
	Loop       vect.Loop
	Verdict    vect.Verdict
	Descriptor Descriptor
}

// Generate emits the kernel for one analysed loop. The module is returned
// only when it passes kir.Validate.
func Generate(ctx context.Context, ec EmitContext, req Request) (*kir.Module, error) {
	if ec.intrinsics == nil {
		ec = NewEmitContext(nil, ec.config)
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStep, "generate", trace.CurrentSpan(ctx).SpanID)
	v := req.Verdict
	if !v.IsVectorizable {
		span.End("skipped")
		return nil, ErrNotVectorizable
	}
	elem, signed, err := elemType(req.Info.Types(), v.Elem)
	if err != nil {
		span.End("unsupported")
		return nil, err
	}
	lanes, err := safecast.Conv[uint16](v.Width)
	if err != nil || lanes < 2 {
		span.End("bad width")
		return nil, fmt.Errorf("%w: vector width %d", ErrUnsupported, v.Width)
	}

	m := &kir.Module{Name: req.Descriptor.Name, Triple: ec.config.Triple}
	ec.intrinsics.Declare(m)
	g := gen{
		ec:     ec,
		req:    &req,
		b:      kir.NewFunc(m, req.Descriptor.Name, shapeOf(v)),
		elem:   elem,
		signed: signed,
		lanes:  lanes,
	}
	f := g.b.Func()
	f.Width = v.Width
	f.WorkGroupSize = req.Descriptor.PreferredWorkGroupSize
	if f.WorkGroupSize == 0 {
		f.WorkGroupSize = ec.config.PreferredWorkGroupSize
		g.req.Descriptor.PreferredWorkGroupSize = f.WorkGroupSize
	}

	if v.IsReduction {
		err = g.reduction()
	} else {
		err = g.elementwise()
	}
	if err != nil {
		span.End("unsupported")
		return nil, err
	}
	if err := kir.Validate(m); err != nil {
		span.End("invalid")
		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	span.WithExtra("blocks", fmt.Sprint(len(f.Blocks))).End("ok")
	return m, nil
}

func shapeOf(v vect.Verdict) kir.Shape {
	if v.IsReduction {
		return kir.ShapeReduction
	}
	return kir.ShapeElementwise
}

// elemType maps the loop's computation type to a kernel element type.
func elemType(in *types.Interner, id types.TypeID) (kir.Type, bool, error) {
	tt, ok := in.Lookup(id)
	if !ok || id == types.NoTypeID {
		return kir.Void, false, fmt.Errorf("%w: loop body has no array computation", ErrUnsupported)
	}
	switch tt.Kind {
	case types.KindFloat:
		return kir.FloatType(uint8(tt.Width)), true, nil
	case types.KindInt, types.KindUint:
		return kir.IntType(uint8(tt.Width)), tt.Kind == types.KindInt, nil
	}
	return kir.Void, false, fmt.Errorf("%w: element type %s", ErrUnsupported, in.Label(id))
}

// gen holds the state of a single Generate call.
type gen struct {
	ec     EmitContext
	req    *Request
	b      *kir.Builder
	elem   kir.Type
	signed bool
	lanes  uint16
	params map[string]kir.ValueID
}

// arrayParam resolves the array behind a subscript "a[i]" to the kernel
// parameter of the same name. The index must be the induction variable.
func (g *gen) arrayParam(subscript ast.ExprID) (kir.ValueID, error) {
	b := g.req.AST
	if !subscript.IsValid() {
		return kir.NoValue, fmt.Errorf("%w: missing array element", ErrUnsupported)
	}
	idx, ok := b.Exprs.Index(b.Exprs.Unparen(subscript))
	if !ok {
		return kir.NoValue, fmt.Errorf("%w: %s is not an array element", ErrUnsupported, b.ExprString(subscript))
	}
	pat := vect.ClassifyIndex(b, g.req.Info, idx.Index, g.req.Loop.Induction)
	if pat.Kind != vect.InductionAligned {
		return kir.NoValue, fmt.Errorf("%w: %s is not indexed by the induction variable", ErrUnsupported, b.ExprString(subscript))
	}
	target := b.Exprs.Unparen(idx.Target)
	sym, ok := g.req.Info.SymbolOf(target)
	if !ok {
		return kir.NoValue, fmt.Errorf("%w: %s has no declaration", ErrUnsupported, b.ExprString(target))
	}
	name := b.Name(sym.Name)
	p, ok := g.params[name]
	if !ok {
		return kir.NoValue, fmt.Errorf("%w: array '%s' is not a kernel argument", ErrUnsupported, name)
	}
	return p, nil
}

// constant materialises a C literal as an element-typed constant.
func (g *gen) constant(lit ast.ExprID) (kir.ValueID, error) {
	b := g.req.AST
	data, ok := b.Exprs.Literal(b.Exprs.Unparen(lit))
	if !ok {
		return kir.NoValue, fmt.Errorf("%w: %s is not a literal", ErrUnsupported, b.ExprString(lit))
	}
	text := b.Name(data.Value)
	if g.elem.Kind == kir.TFloat {
		var (
			f   float64
			err error
		)
		if data.Kind == ast.ExprLitInt {
			var u uint64
			u, err = sema.ParseIntLiteral(text)
			f = float64(u)
		} else {
			f, err = sema.ParseFloatLiteral(text)
		}
		if err != nil {
			return kir.NoValue, fmt.Errorf("%w: literal %s: %w", ErrUnsupported, text, err)
		}
		return g.b.ConstFloat(g.elem, f), nil
	}
	if data.Kind != ast.ExprLitInt {
		return kir.NoValue, fmt.Errorf("%w: literal %s on integer elements", ErrUnsupported, text)
	}
	u, err := sema.ParseIntLiteral(text)
	if err != nil {
		return kir.NoValue, fmt.Errorf("%w: literal %s: %w", ErrUnsupported, text, err)
	}
	v, err := safecast.Conv[int64](u)
	if err != nil {
		return kir.NoValue, fmt.Errorf("%w: literal %s: %w", ErrUnsupported, text, err)
	}
	return g.b.ConstInt(g.elem, v), nil
}

// arith picks the kernel op for a C arithmetic operator on the element type.
func (g *gen) arith(op ast.ExprBinaryOp) (kir.Op, error) {
	float := g.elem.Kind == kir.TFloat
	switch op {
	case ast.ExprBinaryAdd:
		return pick(float, kir.OpFAdd, kir.OpAdd), nil
	case ast.ExprBinarySub:
		return pick(float, kir.OpFSub, kir.OpSub), nil
	case ast.ExprBinaryMul:
		return pick(float, kir.OpFMul, kir.OpMul), nil
	case ast.ExprBinaryDiv:
		if float {
			return kir.OpFDiv, nil
		}
		return pick(g.signed, kir.OpSDiv, kir.OpUDiv), nil
	}
	return 0, fmt.Errorf("%w: operator %s", ErrUnsupported, op)
}

func pick(cond bool, a, b kir.Op) kir.Op {
	if cond {
		return a
	}
	return b
}

func (g *gen) i32(v int64) kir.ValueID {
	return g.b.ConstInt(kir.I32, v)
}

// declareParams adds one global pointer per name and the trailing size.
func (g *gen) declareParams(names []string) kir.ValueID {
	g.params = make(map[string]kir.ValueID, len(names))
	for _, name := range names {
		g.params[name] = g.b.Param(name, kir.Ptr(g.elem, kir.SpaceGlobal))
	}
	size := "global_size"
	for {
		if _, taken := g.params[size]; !taken {
			break
		}
		size += "_"
	}
	return g.b.Param(size, kir.I32)
}
