package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"loopkern/internal/config"
	"loopkern/internal/diag"
)

const sample = `float g[64];

void scale(float *arr, float *out, int n) {
	int i;
	float sum = 0.0f;
	for (i = 0; i < n; i++)
		out[i] = arr[i] * 2.0f;
	for (i = 0; i < 16; i++)
		sum += arr[i];
	for (i = 1; i < n; i++)
		arr[i] = arr[i - 1];
}

void drain(int k) {
	while (k > 0)
		k--;
}
`

func testOptions(emit EmitMode) Options {
	return Options{Config: config.Default(), Emit: emit}
}

func TestAnalyzeSource(t *testing.T) {
	res := AnalyzeSource(context.Background(), "sample.c", []byte(sample), testOptions(EmitLLVM))
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Bag.Items())
	}
	loops := res.Report.Loops
	if len(loops) != 4 {
		t.Fatalf("loops = %d, want 4", len(loops))
	}

	tests := []struct {
		line         uint32
		kind         string
		analyzed     bool
		vectorizable bool
		pattern      string
		kernel       string
	}{
		{6, "for", true, true, "Simple arithmetic", "kernel_line_6"},
		{8, "for", true, true, "Reduction", "kernel_line_8"},
		{10, "for", true, false, "General parallel", ""},
		{15, "while", false, false, "", ""},
	}
	for i, tt := range tests {
		l := loops[i]
		if l.Line != tt.line || l.Kind != tt.kind || l.Analyzed != tt.analyzed {
			t.Errorf("loop %d: line=%d kind=%s analyzed=%v", i, l.Line, l.Kind, l.Analyzed)
			continue
		}
		if !tt.analyzed {
			if l.Verdict != nil || l.Skipped == "" {
				t.Errorf("loop %d: skipped loop has verdict %+v", i, l.Verdict)
			}
			continue
		}
		if l.Verdict.IsVectorizable != tt.vectorizable || l.Verdict.Pattern != tt.pattern {
			t.Errorf("loop %d: verdict %+v", i, l.Verdict)
		}
		if tt.kernel == "" {
			if l.Kernel != nil {
				t.Errorf("loop %d: unexpected kernel %s", i, l.Kernel.Name)
			}
			continue
		}
		if l.Kernel == nil || !l.Kernel.Generated || l.Kernel.Name != tt.kernel {
			t.Errorf("loop %d: kernel %+v", i, l.Kernel)
			continue
		}
		if !strings.Contains(l.Kernel.Text, "define spir_kernel void @"+tt.kernel+"(") {
			t.Errorf("loop %d: kernel text:\n%s", i, l.Kernel.Text)
		}
	}

	if got := loops[0]; got.Init != "i = 0" || got.Cond != "i < n" || got.Post != "i++" || got.Function != "scale" {
		t.Errorf("header = %q / %q / %q in %q", got.Init, got.Cond, got.Post, got.Function)
	}
	if loops[0].Kernel == nil || loops[1].Kernel == nil {
		t.Fatal("kernels missing")
	}
	if got := loops[1].Kernel.Arguments; !slices.Equal(got, []string{"arr", "sum", "global_size"}) {
		t.Errorf("reduction kernel arguments = %q", got)
	}
	if got := loops[0].Kernel.Arguments; !slices.Equal(got, []string{"out", "arr", "global_size"}) {
		t.Errorf("elementwise kernel arguments = %q", got)
	}
	if loops[3].Cond != "k > 0" {
		t.Errorf("while condition = %q", loops[3].Cond)
	}
	if res.Report.Vectorizable() != 2 || res.Report.Kernels() != 2 {
		t.Errorf("vectorizable=%d kernels=%d", res.Report.Vectorizable(), res.Report.Kernels())
	}
}

func TestAnalyzeDiagnostics(t *testing.T) {
	res := AnalyzeSource(context.Background(), "sample.c", []byte(sample), testOptions(EmitNone))
	counts := map[diag.Code]int{}
	for _, d := range res.Bag.Items() {
		counts[d.Code]++
		if d.Code == diag.VecLoopNotVectorizable && len(d.Notes) == 0 {
			t.Error("rejected loop carries no reasons")
		}
	}
	if counts[diag.VecLoopVectorizable] != 2 || counts[diag.VecLoopNotVectorizable] != 1 {
		t.Errorf("verdict diagnostics = %v", counts)
	}
	for _, l := range res.Report.Loops {
		if l.Kernel != nil && l.Kernel.Text != "" {
			t.Errorf("emit none produced text for %s", l.Kernel.Name)
		}
	}
}

func TestAnalyzeEmitKIR(t *testing.T) {
	res := AnalyzeSource(context.Background(), "sample.c", []byte(sample), testOptions(EmitKIR))
	k := res.Report.Loops[0].Kernel
	if k == nil || !k.Generated {
		t.Fatalf("kernel = %+v", k)
	}
	if strings.Contains(k.Text, "define spir_kernel") || !strings.Contains(k.Text, "kernel_line_6") {
		t.Errorf("kir text:\n%s", k.Text)
	}
}

func TestAnalyzeGenerationFailure(t *testing.T) {
	src := "void f(float *arr, int n) {\n\tint i;\n\tfloat p = 1.0f;\n\tfor (i = 0; i < n; i++)\n\t\tp *= arr[i];\n}\n"
	res := AnalyzeSource(context.Background(), "prod.c", []byte(src), testOptions(EmitLLVM))
	k := res.Report.Loops[0].Kernel
	if k == nil || k.Generated || k.Error == "" {
		t.Fatalf("kernel = %+v", k)
	}
	var warned bool
	for _, d := range res.Bag.Items() {
		if d.Code == diag.KernGenerationFailed && d.Severity == diag.SevWarning {
			warned = true
		}
	}
	if !warned {
		t.Error("generation failure was not reported")
	}
	if res.Bag.HasErrors() {
		t.Error("generation failure must not be an error")
	}
}

func TestAnalyzeFrontEndErrors(t *testing.T) {
	res := AnalyzeSource(context.Background(), "bad.c", []byte("void f(void) { x = 1; for (;;) }"), testOptions(EmitLLVM))
	if !res.Bag.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(res.Report.Loops) != 0 {
		t.Errorf("broken file reported %d loops", len(res.Report.Loops))
	}
}

func TestAnalyzePermissiveTripCount(t *testing.T) {
	src := "void f(float *a, int n, int m) {\n\tint i;\n\tfor (i = 0; m < n; i++)\n\t\ta[i] = a[i] + 1.0f;\n}\n"
	strict := AnalyzeSource(context.Background(), "t.c", []byte(src), testOptions(EmitNone))
	opts := testOptions(EmitNone)
	opts.Config.Analysis.PermissiveTripCount = true
	loose := AnalyzeSource(context.Background(), "t.c", []byte(src), opts)
	if strict.Report.Loops[0].Verdict.HasConstantTripCount {
		t.Error("strict mode accepted a non-induction bound")
	}
	if !loose.Report.Loops[0].Verdict.HasConstantTripCount {
		t.Error("permissive mode rejected a bare variable bound")
	}
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.c")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := AnalyzeFile(context.Background(), path, testOptions(EmitNone))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Report.Loops) != 4 || len(res.Report.Hash) != 64 {
		t.Errorf("report = %+v", res.Report)
	}
	if _, err := AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.c"), testOptions(EmitNone)); err == nil {
		t.Error("missing file loaded")
	}
}

func TestParseEmitMode(t *testing.T) {
	for _, s := range []string{"none", "kir", "llvm"} {
		m, err := ParseEmitMode(s)
		if err != nil || m.String() != s {
			t.Errorf("ParseEmitMode(%q) = %v, %v", s, m, err)
		}
	}
	if _, err := ParseEmitMode("spirv"); err == nil {
		t.Error("unknown mode accepted")
	}
}
