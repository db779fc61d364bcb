package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"loopkern/internal/config"
	"loopkern/internal/driver"
)

func sampleReport() *driver.FileReport {
	return &driver.FileReport{
		Path: "/work/src/loop.c",
		Loops: []driver.LoopReport{
			{
				Line: 6, Column: 2, Kind: "for", Function: "scale",
				Init: "i = 0", Cond: "i < 16", Post: "i++",
				Analyzed: true,
				Verdict: &driver.VerdictReport{
					IsVectorizable:       true,
					Width:                8,
					HasConstantTripCount: true,
					TripCount:            16,
					Pattern:              "Simple arithmetic",
					Reasons:              []string{"Constant trip count: 16", "Loop is vectorizable with width 8"},
				},
				Kernel: &driver.KernelReport{
					Name:                   "kernel_line_6",
					Arguments:              []string{"out", "arr"},
					Width:                  8,
					PreferredWorkGroupSize: 256,
					MaxWorkGroupSize:       1024,
					Generated:              true,
					Text:                   "; ModuleID = 'loop.c'\n",
				},
			},
			{
				Line: 9, Column: 2, Kind: "for",
				Init: "i = 1", Cond: "i < n", Post: "i++",
				Analyzed: true,
				Verdict: &driver.VerdictReport{
					HasDependencies: true,
					Pattern:         "General parallel",
					Reasons:         []string{"Cannot vectorize due to dependencies"},
				},
			},
			{
				Line: 12, Column: 2, Kind: "while", Cond: "k > 0",
				Skipped: "while loops are not analyzed",
			},
			{
				Line: 14, Column: 2, Kind: "for",
				Init: "i = 0", Cond: "i < n", Post: "i++",
				Analyzed: true,
				Verdict: &driver.VerdictReport{
					IsVectorizable:       true,
					Width:                4,
					IsReduction:          true,
					ReductionVar:         "p",
					HasConstantTripCount: true,
					Pattern:              "Reduction",
				},
				Kernel: &driver.KernelReport{Name: "kernel_line_14", Error: "unsupported reduction operator"},
			},
		},
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, sampleReport(), ReportOpts{PathMode: PathModeBasename, Kernels: true})
	out := buf.String()
	for _, want := range []string{
		"loop.c: 4 loops, 2 vectorizable, 1 kernels",
		"LLVM Vectorization Analysis:\n" + reportRule + "\nLocation: loop.c:6:2 in scale",
		"For Loop:\n  Init: i = 0\n  Condition: i < 16\n  Increment: i++",
		"- Constant trip count: 16",
		"- Pattern: Simple arithmetic",
		"- Vector width: 8",
		"- Trip count: 16",
		"Generated SPIR-V kernel: kernel_line_6(out, arr) local=256 max=1024\n; ModuleID = 'loop.c'",
		"- Trip count: Variable",
		"Loop is not vectorizable",
		"While Loop:\n  Condition: k > 0\nSkipped: while loops are not analyzed",
		"- Reduction variable: p",
		"Failed to generate SPIR-V kernel: unsupported reduction operator",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestReportWithoutKernelText(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, sampleReport(), ReportOpts{})
	if strings.Contains(buf.String(), "ModuleID") {
		t.Errorf("kernel text printed:\n%s", buf.String())
	}
}

func TestWriteKernels(t *testing.T) {
	var buf bytes.Buffer
	if n := WriteKernels(&buf, sampleReport()); n != 1 {
		t.Fatalf("WriteKernels = %d", n)
	}
	if buf.String() != "; ModuleID = 'loop.c'\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestReportJSON(t *testing.T) {
	src := "void f(float *a) {\n\tint i;\n\tfor (i = 0; i < 8; i++)\n\t\ta[i] = a[i] + 1.0f;\n}\n"
	res := driver.AnalyzeSource(context.Background(), "/tmp/x/one.c", []byte(src),
		driver.Options{Config: config.Default(), Emit: driver.EmitNone})

	var buf bytes.Buffer
	if err := ReportJSON(&buf, []*driver.Result{res, nil}, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var got AnalysisOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(got.Files) != 1 || got.Loops != 1 || got.Vectorizable != 1 || got.Kernels != 1 {
		t.Fatalf("summary = %+v", got)
	}
	f := got.Files[0]
	if f.Path != "one.c" || f.Loops[0].Kernel.Name != "kernel_line_3" {
		t.Errorf("file = %+v", f)
	}
	if len(f.Diagnostics) == 0 || f.Diagnostics[0].Code != "VEC6001" || len(f.Diagnostics[0].Notes) == 0 {
		t.Errorf("diagnostics = %+v", f.Diagnostics)
	}
}
