package kernel_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"loopkern/internal/kernel"
	"loopkern/internal/kir"
	"loopkern/internal/testkit"
	"loopkern/internal/vect"
)

func request(t *testing.T, body string) kernel.Request {
	t.Helper()
	u := testkit.MustCompile(t, testkit.Wrap(body))
	l, err := vect.LoopOf(u.Builder, u.Sema, u.ForLoop(t, 0).Stmt)
	if err != nil {
		t.Fatal(err)
	}
	v := vect.Analyze(context.Background(), u.Builder, u.Sema, l, vect.Options{})
	return kernel.Request{
		AST:        u.Builder,
		Info:       u.Sema,
		Loop:       l,
		Verdict:    v,
		Descriptor: kernel.BuildDescriptor(u.Builder, u.Sema, l, v, kernel.Config{}),
	}
}

func generate(t *testing.T, body string) (*kir.Module, error) {
	t.Helper()
	ec := kernel.NewEmitContext(kernel.OpenCL{}, kernel.DefaultConfig())
	return kernel.Generate(context.Background(), ec, request(t, body))
}

func blockNames(f *kir.Func) []string {
	names := make([]string, len(f.Blocks))
	for i := range f.Blocks {
		names[i] = f.Blocks[i].Name
	}
	return names
}

func countOps(f *kir.Func, op kir.Op, callee string) int {
	n := 0
	for i := range f.Blocks {
		for _, in := range f.Blocks[i].Instrs {
			if in.Op == op && (callee == "" || in.Callee == callee) {
				n++
			}
		}
	}
	return n
}

func TestDescriptor(t *testing.T) {
	tests := []struct {
		name string
		body string
		args []string
	}{
		{"pointer params", "for (i = 0; i < n; i++) out[i] = arr[i] + 1.0f;", []string{"out", "arr"}},
		{"dedup", "for (i = 0; i < n; i++) arr[i] = arr[i] * arr[i];", []string{"arr"}},
		{"globals included, locals not", "for (i = 0; i < n; i++) { g[i] = arr[i]; sum += arr[i]; }", []string{"g", "arr"}},
		{"global scalar", "for (i = 0; i < n; i++) count += iarr[i];", []string{"count", "iarr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := request(t, tt.body).Descriptor
			if !reflect.DeepEqual(d.Arguments, tt.args) {
				t.Errorf("Arguments = %q, want %q", d.Arguments, tt.args)
			}
			if d.Name != "kernel_line_7" {
				t.Errorf("Name = %q", d.Name)
			}
			wantMax := uint32(1024)
			if d.IsReduction {
				wantMax = 256
			}
			if d.PreferredWorkGroupSize != 256 || d.MaxWorkGroupSize != wantMax {
				t.Errorf("work group sizes %d/%d", d.PreferredWorkGroupSize, d.MaxWorkGroupSize)
			}
		})
	}
}

func TestElementwiseShape(t *testing.T) {
	m, err := generate(t, "for (i = 0; i < n; i++) arr[i] = arr[i] * 2.0f;")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	f := m.Funcs[0]
	want := []string{"entry", "vector", "scalar", "scalar.body", "scalar.1", "scalar.1.body", "scalar.2", "scalar.2.body", "exit"}
	if got := blockNames(f); !reflect.DeepEqual(got, want) {
		t.Errorf("blocks = %q, want %q", got, want)
	}
	if len(f.Params) != 2 || f.Params[0].Type != kir.Ptr(kir.F32, kir.SpaceGlobal) || f.Params[1].Type != kir.I32 {
		t.Errorf("unexpected signature %+v", f.Params)
	}
	text := kir.String(m)
	for _, frag := range []string{
		"fmul <4 x float>",
		"splat(2.0)",
		"store <4 x float>",
		"fmul float",
	} {
		if !strings.Contains(text, frag) {
			t.Errorf("kernel lacks %q:\n%s", frag, text)
		}
	}
}

func TestElementwiseWide(t *testing.T) {
	m, err := generate(t, "for (i = 0; i < 128; i++) out[i] = 1.0f - arr[i];")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	f := m.Funcs[0]
	if f.Width != 8 {
		t.Fatalf("Width = %d", f.Width)
	}
	// 7 guarded tail steps, each a check and a body
	if n := len(f.Blocks); n != 3+2*7 {
		t.Errorf("%d blocks", n)
	}
	if !strings.Contains(kir.String(m), "fsub <8 x float> splat(1.0), <8 x float>") {
		t.Errorf("literal-first subtraction lost its operand order:\n%s", kir.String(m))
	}
}

// gepBases lists the parameters every GEP of f addresses, in block order.
func gepBases(f *kir.Func) []string {
	names := make(map[kir.ValueID]string, len(f.Params))
	for _, p := range f.Params {
		names[p.Value] = p.Name
	}
	var out []string
	for i := range f.Blocks {
		for _, in := range f.Blocks[i].Instrs {
			if in.Op == kir.OpGEP {
				out = append(out, names[in.Args[0]])
			}
		}
	}
	return out
}

func TestElementwiseIdentityFallback(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		bases []string // vector step, then the three tail steps: load base, store base
	}{
		{
			name:  "scalar operand",
			body:  "for (i = 0; i < n; i++) arr[i] = arr[i] * sum;",
			bases: []string{"arr", "arr", "arr", "arr", "arr", "arr", "arr", "arr"},
		},
		{
			name:  "two array operands",
			body:  "for (i = 0; i < n; i++) out[i] = arr[i] + out[i];",
			bases: []string{"arr", "out", "arr", "out", "arr", "out", "arr", "out"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(t, tt.body)
			if !req.Verdict.IsVectorizable || req.Verdict.SimplePattern {
				t.Fatalf("verdict %+v", req.Verdict)
			}
			m, err := generate(t, tt.body)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			f := m.Funcs[0]
			for _, op := range []kir.Op{kir.OpFAdd, kir.OpFMul} {
				if n := countOps(f, op, ""); n != 0 {
					t.Errorf("identity kernel applies %s %d times", op, n)
				}
			}
			if got := gepBases(f); !reflect.DeepEqual(got, tt.bases) {
				t.Errorf("addressed arrays = %q, want %q", got, tt.bases)
			}
		})
	}
}

func TestReductionShape(t *testing.T) {
	m, err := generate(t, "for (i = 0; i < n; i++) sum += arr[i];")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	f := m.Funcs[0]
	if f.Shape != kir.ShapeReduction || len(f.Params) != 3 {
		t.Fatalf("shape %s with %d params", f.Shape, len(f.Params))
	}
	if f.Params[0].Name != "arr" || f.Params[1].Name != "sum" {
		t.Errorf("params %q, %q", f.Params[0].Name, f.Params[1].Name)
	}
	if n := countOps(f, kir.OpAtomicRMW, ""); n != 1 {
		t.Errorf("%d atomics, want exactly one", n)
	}
	// one barrier after the local stage plus one per tree round (256 lanes: 8 rounds)
	if n := countOps(f, kir.OpCall, "barrier"); n != 9 {
		t.Errorf("%d barriers, want 9", n)
	}
	if n := countOps(f, kir.OpExtract, ""); n != 4 {
		t.Errorf("%d extracts, want 4", n)
	}
	if len(f.LocalBuffers) != 1 || f.LocalBuffers[0].Count != 256 {
		t.Errorf("local buffers %+v", f.LocalBuffers)
	}
	text := kir.String(m)
	if !strings.Contains(text, "atomicrmw fadd float addrspace(1)* %sum") || !strings.Contains(text, "seq_cst") {
		t.Errorf("atomic commit missing:\n%s", text)
	}
}

func TestGenerationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"rejected loop", "for (i = 1; i < n; i++) arr[i] = arr[i-1] + 1.0f;", kernel.ErrNotVectorizable},
		{"two reduction inputs", "for (i = 0; i < n; i++) sum += arr[i] * out[i];", kernel.ErrUnsupported},
		{"product reduction", "for (i = 0; i < n; i++) sum *= arr[i];", kernel.ErrUnsupported},
		{"shifted store", "for (i = 0; i < 64; i++) arr[i + 1] = arr[i] + 1.0f;", kernel.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := generate(t, tt.body)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Error("failed generation must not return a module")
			}
		})
	}
}

func TestIdempotentGeneration(t *testing.T) {
	body := "for (i = 0; i < n; i++) sum += arr[i];"
	a, errA := generate(t, body)
	b, errB := generate(t, body)
	if errA != nil || errB != nil {
		t.Fatalf("errors: %v, %v", errA, errB)
	}
	if a.Name != b.Name || kir.String(a) != kir.String(b) {
		t.Error("generating twice produced different kernels")
	}
}

type countingIntrinsics struct {
	kernel.OpenCL
	barriers *int
}

func (c countingIntrinsics) LocalBarrier(b *kir.Builder) {
	*c.barriers++
	c.OpenCL.LocalBarrier(b)
}

func TestInjectedIntrinsics(t *testing.T) {
	var n int
	ec := kernel.NewEmitContext(countingIntrinsics{barriers: &n}, kernel.Config{PreferredWorkGroupSize: 64})
	req := request(t, "for (i = 0; i < n; i++) sum += arr[i];")
	req.Descriptor.PreferredWorkGroupSize = 64
	if _, err := kernel.Generate(context.Background(), ec, req); err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Errorf("%d barriers for a 64-lane group, want 7", n)
	}
}

func TestVerdictAccumulator(t *testing.T) {
	req := request(t, "for (i = 0; i < n; i++) count += iarr[i];")
	var acc vect.Accumulator = req.Verdict.Reduction
	if !acc.Found || acc.Name != "count" || !acc.Expr.IsValid() {
		t.Errorf("accumulator = %+v", acc)
	}
}
