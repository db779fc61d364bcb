package driver

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fortio.org/safecast"

	"loopkern/internal/ast"
	"loopkern/internal/backend/llvm"
	"loopkern/internal/config"
	"loopkern/internal/diag"
	"loopkern/internal/kernel"
	"loopkern/internal/kir"
	"loopkern/internal/lexer"
	"loopkern/internal/observ"
	"loopkern/internal/parser"
	"loopkern/internal/sema"
	"loopkern/internal/source"
	"loopkern/internal/trace"
	"loopkern/internal/vect"
)

const defaultMaxDiagnostics = 100

// EmitMode selects the text form of generated kernels.
type EmitMode uint8

const (
	EmitNone EmitMode = iota
	EmitKIR
	EmitLLVM
)

func (m EmitMode) String() string {
	switch m {
	case EmitKIR:
		return "kir"
	case EmitLLVM:
		return "llvm"
	}
	return "none"
}

// ParseEmitMode maps the --emit flag values.
func ParseEmitMode(s string) (EmitMode, error) {
	switch s {
	case "none":
		return EmitNone, nil
	case "kir":
		return EmitKIR, nil
	case "", "llvm":
		return EmitLLVM, nil
	}
	return EmitNone, fmt.Errorf("unknown emit mode %q (want kir, llvm or none)", s)
}

// Options configure one analysis run.
type Options struct {
	Config         config.Config
	Emit           EmitMode
	MaxDiagnostics int
	// Jobs bounds directory-mode parallelism; 0 means GOMAXPROCS.
	Jobs       int
	Cache      *DiskCache // nil disables caching
	Timer      *observ.Timer
	Progress   ProgressSink
	Intrinsics kernel.Intrinsics // nil selects kernel.OpenCL
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return defaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// Result is the outcome for one file. Bag spans refer to FileSet.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
	Report  *FileReport
}

// AnalyzeFile loads path and runs the whole pipeline over it.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return analyzeLoaded(ctx, fs, fileID, opts), nil
}

// AnalyzeSource runs the pipeline over in-memory content.
func AnalyzeSource(ctx context.Context, name string, content []byte, opts Options) *Result {
	fs := source.NewFileSet()
	return analyzeLoaded(ctx, fs, fs.AddVirtual(name, content), opts)
}

// analyzeLoaded only reads fs, so directory mode may call it concurrently
// on a FileSet that was filled beforehand.
func analyzeLoaded(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *Result {
	file := fs.Get(fileID)
	res := &Result{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.maxDiagnostics()),
	}
	started := time.Now()
	span, ctx := trace.Start(ctx, trace.ScopePass, "analyze_file")
	span.WithExtra("path", file.Path)

	key := cacheKey(file.Hash, opts)
	if opts.Cache != nil {
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		if err == nil && ok && payload.Schema == diskCacheSchemaVersion {
			res.Report = payload.Report
			res.Report.Path = file.Path
			res.Report.Cached = true
			payload.restore(res.Bag, fileID)
			emit(opts.Progress, Event{
				File: file.Path, Status: StatusCached, Elapsed: time.Since(started),
				Loops: len(res.Report.Loops), Kernels: res.Report.Kernels(),
			})
			span.End("cached")
			return res
		}
	}

	res.Report = runPipeline(ctx, fs, file, res.Bag, opts)
	res.Bag.Sort()

	status := StatusDone
	if res.Bag.HasErrors() {
		status = StatusError
	} else if opts.Cache != nil {
		if err := opts.Cache.Put(key, newDiskPayload(res.Report, res.Bag)); err != nil {
			span.WithExtra("cache_error", err.Error())
		}
	}
	emit(opts.Progress, Event{
		File: file.Path, Status: status, Elapsed: time.Since(started),
		Loops: len(res.Report.Loops), Kernels: res.Report.Kernels(),
	})
	span.WithExtra("loops", strconv.Itoa(len(res.Report.Loops))).End(string(status))
	return res
}

func runPipeline(ctx context.Context, fs *source.FileSet, file *source.File, bag *diag.Bag, opts Options) *FileReport {
	report := &FileReport{
		Path: file.Path,
		Hash: hex.EncodeToString(file.Hash[:]),
	}
	reporter := diag.BagReporter{Bag: bag}

	emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	endParse := opts.Timer.Track("parse " + file.Path)
	maxErrors, err := safecast.Conv[uint](opts.maxDiagnostics())
	if err != nil {
		maxErrors = defaultMaxDiagnostics
	}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	parsed := parser.ParseFile(ctx, lx, builder, parser.Options{MaxErrors: maxErrors, Reporter: reporter})
	endParse(fmt.Sprintf("errors=%d", parsed.Errors))

	emit(opts.Progress, Event{File: file.Path, Stage: StageSema, Status: StatusWorking})
	endSema := opts.Timer.Track("sema " + file.Path)
	checked := sema.Check(ctx, builder, parsed.File, sema.Options{Reporter: reporter, Files: fs})
	endSema(fmt.Sprintf("loops=%d", len(checked.Loops)))

	// A broken front end yields no trustworthy loops.
	if bag.HasErrors() {
		return report
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageAnalyze, Status: StatusWorking})
	endLoops := opts.Timer.Track("loops " + file.Path)
	la := loopAnalyzer{
		ast:      builder,
		info:     checked,
		files:    fs,
		path:     file.Path,
		reporter: reporter,
		opts:     opts,
		ec:       kernel.NewEmitContext(opts.Intrinsics, opts.Config.Kernel),
	}
	for _, l := range checked.Loops {
		report.Loops = append(report.Loops, la.analyze(ctx, l))
	}
	endLoops(fmt.Sprintf("vectorizable=%d kernels=%d", report.Vectorizable(), report.Kernels()))
	return report
}

type loopAnalyzer struct {
	ast      *ast.Builder
	info     *sema.Result
	files    *source.FileSet
	path     string
	reporter diag.Reporter
	opts     Options
	ec       kernel.EmitContext
}

func (la *loopAnalyzer) analyze(ctx context.Context, l sema.Loop) LoopReport {
	start, _ := la.files.Resolve(l.Span)
	lr := LoopReport{
		Line:     start.Line,
		Column:   start.Col,
		Kind:     l.Kind.String(),
		Function: la.functionName(l.Fn),
	}
	span, ctx := trace.Start(ctx, trace.ScopeLoop, "loop")
	span.WithExtra("line", strconv.FormatUint(uint64(lr.Line), 10)).WithExtra("kind", lr.Kind)

	switch l.Kind {
	case sema.LoopWhile:
		if ws, ok := la.ast.Stmts.While(l.Stmt); ok {
			lr.Cond = la.ast.ExprString(ws.Cond)
		}
		lr.Skipped = "while loops are not analyzed"
		span.End("skipped")
		return lr
	case sema.LoopDo:
		if ds, ok := la.ast.Stmts.Do(l.Stmt); ok {
			lr.Cond = la.ast.ExprString(ds.Cond)
		}
		lr.Skipped = "do-while loops are not analyzed"
		span.End("skipped")
		return lr
	}

	vl, err := vect.LoopOf(la.ast, la.info, l.Stmt)
	if err != nil {
		lr.Skipped = err.Error()
		span.End("skipped")
		return lr
	}
	if vl.Init.IsValid() {
		lr.Init = la.ast.StmtHeader(vl.Init)
	}
	if vl.Cond.IsValid() {
		lr.Cond = la.ast.ExprString(vl.Cond)
	}
	if vl.Post.IsValid() {
		lr.Post = la.ast.ExprString(vl.Post)
	}

	v := vect.Analyze(ctx, la.ast, la.info, vl, la.opts.Config.Analysis)
	lr.Analyzed = true
	lr.Verdict = &VerdictReport{
		IsVectorizable:       v.IsVectorizable,
		Width:                v.Width,
		IsReduction:          v.IsReduction,
		ReductionVar:         v.ReductionVar,
		HasConstantTripCount: v.HasConstantTripCount,
		TripCount:            v.TripCount,
		HasDependencies:      v.HasDependencies,
		Pattern:              v.Kind.String(),
		Reasons:              append([]string(nil), v.Reasons...),
	}

	code, msg := diag.VecLoopNotVectorizable, "loop is not vectorizable"
	if v.IsVectorizable {
		code, msg = diag.VecLoopVectorizable, fmt.Sprintf("loop is vectorizable with width %d", v.Width)
	}
	diag.ReportInfo(la.reporter, code, l.Span, msg).WithNotes(v.Reasons...).Emit()

	if v.IsVectorizable {
		lr.Kernel = la.generate(ctx, l, vl, v)
	}
	span.WithExtra("vectorizable", strconv.FormatBool(v.IsVectorizable)).End(v.Kind.String())
	return lr
}

func (la *loopAnalyzer) generate(ctx context.Context, l sema.Loop, vl vect.Loop, v vect.Verdict) *KernelReport {
	emit(la.opts.Progress, Event{File: la.path, Stage: StageGenerate, Status: StatusWorking})
	desc := kernel.BuildDescriptor(la.ast, la.info, vl, v, la.ec.Config())
	kr := &KernelReport{
		Name:                   desc.Name,
		Arguments:              append([]string(nil), desc.Arguments...),
		Width:                  desc.Width,
		IsReduction:            desc.IsReduction,
		PreferredWorkGroupSize: desc.PreferredWorkGroupSize,
		MaxWorkGroupSize:       desc.MaxWorkGroupSize,
		UsesLocalMemory:        desc.UsesLocalMemory,
	}
	mod, err := kernel.Generate(ctx, la.ec, kernel.Request{
		AST:        la.ast,
		Info:       la.info,
		Loop:       vl,
		Verdict:    v,
		Descriptor: desc,
	})
	if err == nil {
		// the reduction kernel also takes its accumulator, even a local one
		kr.Arguments = kernelParams(mod)
		kr.Text, err = render(mod, la.opts.Emit)
	}
	if err != nil {
		kr.Error = err.Error()
		rb := diag.ReportWarning(la.reporter, diag.KernGenerationFailed, l.Span,
			fmt.Sprintf("failed to generate kernel %s: %v", desc.Name, err))
		if errors.Is(err, kernel.ErrUnsupported) {
			rb = rb.WithNotes("only element assignments with one arithmetic operation, or a sum reduction, are synthesized")
		}
		rb.Emit()
		return kr
	}
	kr.Generated = true
	return kr
}

// kernelParams lists the parameters of the generated kernel, size included.
func kernelParams(mod *kir.Module) []string {
	if len(mod.Funcs) == 0 {
		return nil
	}
	params := mod.Funcs[0].Params
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func render(mod *kir.Module, mode EmitMode) (string, error) {
	switch mode {
	case EmitKIR:
		return kir.String(mod), nil
	case EmitLLVM:
		return llvm.EmitModule(mod)
	}
	return "", nil
}

func (la *loopAnalyzer) functionName(id ast.ItemID) string {
	fn, ok := la.ast.Items.Fn(id)
	if !ok {
		return ""
	}
	return la.ast.Name(fn.Name)
}
