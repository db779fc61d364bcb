package kernel

import (
	"strconv"

	"loopkern/internal/ast"
	"loopkern/internal/sema"
	"loopkern/internal/types"
	"loopkern/internal/vect"
)

// Descriptor is the host-facing description of a kernel.
type Descriptor struct {
	Name                   string
	Width                  uint
	IsReduction            bool
	Arguments              []string // formal parameters in order; the size parameter follows
	PreferredWorkGroupSize uint32
	MaxWorkGroupSize       uint32
	UsesLocalMemory        bool
}

// Name is derived from the loop's source line only, so re-analysing an
// unchanged file yields the same kernel names.
func Name(line uint32) string {
	return "kernel_line_" + strconv.FormatUint(uint64(line), 10)
}

// BuildDescriptor collects every variable of the loop body that is a pointer
// or lives outside the function's locals, in first-occurrence order.
func BuildDescriptor(b *ast.Builder, info vect.Info, l vect.Loop, v vect.Verdict, cfg Config) Descriptor {
	cfg = cfg.withDefaults()
	d := Descriptor{
		Name:                   Name(l.Line),
		Width:                  v.Width,
		IsReduction:            v.IsReduction,
		PreferredWorkGroupSize: cfg.PreferredWorkGroupSize,
		MaxWorkGroupSize:       cfg.MaxWorkGroupSize,
		UsesLocalMemory:        v.IsReduction,
	}
	// partials and the tree rounds are sized for exactly one group size
	if v.IsReduction {
		d.MaxWorkGroupSize = d.PreferredWorkGroupSize
	}
	seen := make(map[string]bool)
	b.WalkStmtExprs(l.Body, func(id ast.ExprID, expr *ast.Expr) bool {
		if expr.Kind != ast.ExprIdent {
			return true
		}
		sym, ok := info.SymbolOf(id)
		if !ok || sym.Kind == sema.SymbolFn {
			return true
		}
		name := b.Name(sym.Name)
		if seen[name] {
			return true
		}
		if isPointer(info.Types(), sym.Type) || sym.HasGlobalStorage() {
			seen[name] = true
			d.Arguments = append(d.Arguments, name)
		}
		return true
	})
	return d
}

func isPointer(in *types.Interner, t types.TypeID) bool {
	tt, ok := in.Lookup(t)
	return ok && tt.Kind == types.KindPointer
}
