package sema

import (
	"context"
	"strconv"

	"loopkern/internal/ast"
	"loopkern/internal/diag"
	"loopkern/internal/source"
	"loopkern/internal/trace"
	"loopkern/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
	Files    *source.FileSet
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	TypeInterner *types.Interner
	ExprTypes    map[ast.ExprID]types.TypeID
	ExprSymbols  map[ast.ExprID]SymbolID
	Symbols      []Symbol // index 0 is unused
	Loops        []Loop
	files        *source.FileSet
}

// Check resolves names, assigns a C type to every expression and collects
// the counted loops of every function body in source order.
func Check(ctx context.Context, builder *ast.Builder, fileID ast.FileID, opts Options) *Result {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "sema", trace.CurrentSpan(ctx).SpanID)
	res := &Result{
		ExprTypes:   make(map[ast.ExprID]types.TypeID),
		ExprSymbols: make(map[ast.ExprID]SymbolID),
		Symbols:     []Symbol{{}},
		files:       opts.Files,
	}
	if opts.Types != nil {
		res.TypeInterner = opts.Types
	} else {
		res.TypeInterner = types.NewInterner()
	}
	if builder == nil || fileID == ast.NoFileID {
		span.End("empty")
		return res
	}

	checker := typeChecker{
		builder:  builder,
		reporter: opts.Reporter,
		result:   res,
		types:    res.TypeInterner,
	}
	checker.run(builder.Files.Get(fileID))
	span.WithExtra("loops", strconv.Itoa(len(res.Loops))).End("")
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	reporter diag.Reporter
	result   *Result
	types    *types.Interner
	scopes   scopeStack
	fn       ast.ItemID
}

func (tc *typeChecker) run(file *ast.File) {
	tc.scopes.push()
	for _, itemID := range file.Items {
		switch tc.builder.Items.Get(itemID).Kind {
		case ast.ItemVar:
			v, _ := tc.builder.Items.Var(itemID)
			for i := range v.Decls {
				tc.declareVar(&v.Decls[i], StorageGlobal)
			}
		case ast.ItemFn:
			tc.checkFn(itemID)
		}
	}
	tc.scopes.pop()
}

func (tc *typeChecker) checkFn(itemID ast.ItemID) {
	fn, _ := tc.builder.Items.Fn(itemID)
	item := tc.builder.Items.Get(itemID)
	result := tc.resolveType(fn.Result)
	fnType := tc.types.Intern(types.MakeFunc(result))
	if prev, ok := tc.scopes.lookup(fn.Name); !ok || tc.result.Symbols[prev].Kind != SymbolFn {
		tc.declare(Symbol{Name: fn.Name, Kind: SymbolFn, Storage: StorageGlobal, Type: fnType, Span: item.Span})
	}
	if !fn.Body.IsValid() {
		return
	}
	tc.fn = itemID
	tc.scopes.push()
	for _, p := range fn.Params {
		if p.Name == source.NoStringID {
			continue
		}
		// array parameters are pointers
		typ := tc.types.Decay(tc.resolveType(p.Type))
		tc.declare(Symbol{Name: p.Name, Kind: SymbolParam, Storage: StorageParam, Type: typ, Span: p.Span})
	}
	tc.checkStmt(fn.Body)
	tc.scopes.pop()
	tc.fn = ast.NoItemID
}

func (tc *typeChecker) declareVar(d *ast.VarDecl, storage Storage) {
	if d.Init.IsValid() {
		tc.checkExpr(d.Init)
	}
	if storage == StorageLocal && (d.Storage == ast.StorageStatic || d.Storage == ast.StorageExtern) {
		storage = StorageGlobal
	}
	tc.declare(Symbol{
		Name:    d.Name,
		Kind:    SymbolVar,
		Storage: storage,
		Type:    tc.resolveType(d.Type),
		Span:    d.Span,
	})
}

func (tc *typeChecker) declare(sym Symbol) SymbolID {
	if prev, ok := tc.scopes.lookupLocal(sym.Name); ok {
		prevSym := tc.result.Symbols[prev]
		// repeated extern/tentative declarations at file scope are legal C
		if !(sym.Storage == StorageGlobal && prevSym.Storage == StorageGlobal && prevSym.Type == sym.Type) {
			diag.ReportError(tc.reporter, diag.SemaDuplicateSymbol, sym.Span,
				"redeclaration of '"+tc.builder.Name(sym.Name)+"'").
				WithNote(prevSym.Span, "previous declaration is here").Emit()
		}
		return prev
	}
	id := SymbolID(len(tc.result.Symbols)) // #nosec G115 -- bounded by source size
	tc.result.Symbols = append(tc.result.Symbols, sym)
	tc.scopes.bind(sym.Name, id)
	return id
}

// resolveType maps a written TypeExpr to an interned C type.
func (tc *typeChecker) resolveType(id ast.TypeID) types.TypeID {
	te := tc.builder.Types.Get(id)
	if te == nil {
		return tc.types.Builtins().Int
	}
	b := tc.types.Builtins()
	var base types.TypeID
	switch te.Base {
	case ast.BaseVoid:
		base = b.Void
	case ast.BaseChar:
		base = pick(te.Unsigned, b.UChar, b.Char)
	case ast.BaseShort:
		base = pick(te.Unsigned, b.UShort, b.Short)
	case ast.BaseLong:
		base = pick(te.Unsigned, b.ULong, b.Long)
	case ast.BaseFloat:
		base = b.Float
	case ast.BaseDouble:
		base = b.Double
	default:
		base = pick(te.Unsigned, b.UInt, b.Int)
	}
	for i := uint8(0); i < te.Pointers; i++ {
		base = tc.types.Intern(types.MakePointer(base))
	}
	for i := len(te.Dims) - 1; i >= 0; i-- {
		count := types.ArrayUnsized
		if n, ok := tc.constInt(te.Dims[i]); ok {
			count = n
		}
		base = tc.types.Intern(types.MakeArray(base, count))
	}
	return base
}

func pick(cond bool, a, b types.TypeID) types.TypeID {
	if cond {
		return a
	}
	return b
}

// constInt folds an integer literal, possibly parenthesised.
func (tc *typeChecker) constInt(id ast.ExprID) (uint64, bool) {
	lit, ok := tc.builder.Exprs.Literal(tc.builder.Exprs.Unparen(id))
	if !ok || lit.Kind != ast.ExprLitInt {
		return 0, false
	}
	v, err := ParseIntLiteral(tc.builder.Name(lit.Value))
	return v, err == nil
}
