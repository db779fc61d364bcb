package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"loopkern/internal/driver"
)

const reportRule = "----------------------------"

// ReportOpts configures the human-readable analysis report.
type ReportOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	// Kernels prints the generated module text under each vectorizable loop.
	Kernels bool
}

type reportPalette struct {
	header, label, ok, bad, warn, dim *color.Color
}

func newReportPalette(enabled bool) reportPalette {
	p := reportPalette{
		header: color.New(color.Bold),
		label:  color.New(color.FgCyan),
		ok:     color.New(color.FgGreen, color.Bold),
		bad:    color.New(color.FgRed),
		warn:   color.New(color.FgYellow),
		dim:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.header, p.label, p.ok, p.bad, p.warn, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Report печатает анализ циклов файла в том же порядке, что и в исходнике:
// заголовок цикла, причины, детали решения и сгенерированное ядро.
func Report(w io.Writer, r *driver.FileReport, opts ReportOpts) {
	if r == nil {
		return
	}
	p := newReportPalette(opts.Color)
	path := formatPath(r.Path, opts.PathMode, opts.BaseDir)
	cached := ""
	if r.Cached {
		cached = p.dim.Sprint(" (cached)")
	}
	fmt.Fprintf(w, "%s: %d loops, %d vectorizable, %d kernels%s\n",
		p.header.Sprint(path), len(r.Loops), r.Vectorizable(), r.Kernels(), cached)

	for i := range r.Loops {
		fmt.Fprintln(w)
		writeLoop(w, path, &r.Loops[i], p, opts.Kernels)
	}
}

func writeLoop(w io.Writer, path string, l *driver.LoopReport, p reportPalette, withText bool) {
	fmt.Fprintln(w, p.header.Sprint("LLVM Vectorization Analysis:"))
	fmt.Fprintln(w, reportRule)
	where := fmt.Sprintf("%s:%d:%d", path, l.Line, l.Column)
	if l.Function != "" {
		where += " in " + l.Function
	}
	fmt.Fprintf(w, "%s %s\n", p.label.Sprint("Location:"), where)

	switch l.Kind {
	case "for":
		fmt.Fprintln(w, p.label.Sprint("For Loop:"))
		fmt.Fprintf(w, "  Init: %s\n", l.Init)
		fmt.Fprintf(w, "  Condition: %s\n", l.Cond)
		fmt.Fprintf(w, "  Increment: %s\n", l.Post)
	case "while":
		fmt.Fprintln(w, p.label.Sprint("While Loop:"))
		fmt.Fprintf(w, "  Condition: %s\n", l.Cond)
	default:
		fmt.Fprintln(w, p.label.Sprint("Do-While Loop:"))
		fmt.Fprintf(w, "  Condition: %s\n", l.Cond)
	}

	if !l.Analyzed || l.Verdict == nil {
		fmt.Fprintf(w, "%s %s\n", p.dim.Sprint("Skipped:"), l.Skipped)
		return
	}
	v := l.Verdict
	for _, r := range v.Reasons {
		fmt.Fprintf(w, "- %s\n", r)
	}

	fmt.Fprintln(w, p.label.Sprint("Vectorization Analysis Details:"))
	fmt.Fprintf(w, "- Pattern: %s\n", v.Pattern)
	if v.IsVectorizable {
		fmt.Fprintf(w, "- Vector width: %d\n", v.Width)
	}
	trip := "Variable"
	if v.HasConstantTripCount && v.TripCount > 0 {
		trip = fmt.Sprint(v.TripCount)
	}
	fmt.Fprintf(w, "- Trip count: %s\n", trip)
	if v.IsReduction {
		fmt.Fprintf(w, "- Reduction variable: %s\n", v.ReductionVar)
	}

	if !v.IsVectorizable {
		fmt.Fprintln(w, p.bad.Sprint("Loop is not vectorizable"))
		return
	}
	k := l.Kernel
	if k == nil {
		return
	}
	if !k.Generated {
		fmt.Fprintf(w, "%s: %s\n", p.warn.Sprint("Failed to generate SPIR-V kernel"), k.Error)
		return
	}
	fmt.Fprintf(w, "%s %s(%s) local=%d max=%d\n",
		p.ok.Sprint("Generated SPIR-V kernel:"), k.Name, strings.Join(k.Arguments, ", "),
		k.PreferredWorkGroupSize, k.MaxWorkGroupSize)
	if withText && k.Text != "" {
		fmt.Fprint(w, k.Text)
		if !strings.HasSuffix(k.Text, "\n") {
			fmt.Fprintln(w)
		}
	}
}

// WriteKernels prints only the module text of every generated kernel and
// returns how many were written.
func WriteKernels(w io.Writer, r *driver.FileReport) int {
	if r == nil {
		return 0
	}
	n := 0
	for i := range r.Loops {
		k := r.Loops[i].Kernel
		if k == nil || !k.Generated || k.Text == "" {
			continue
		}
		if n > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, k.Text)
		if !strings.HasSuffix(k.Text, "\n") {
			fmt.Fprintln(w)
		}
		n++
	}
	return n
}

// FileOutput is one file of the JSON report.
type FileOutput struct {
	driver.FileReport
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// AnalysisOutput is the root of `--format json`.
type AnalysisOutput struct {
	Files        []FileOutput `json:"files"`
	Loops        int          `json:"loops"`
	Vectorizable int          `json:"vectorizable"`
	Kernels      int          `json:"kernels"`
}

// BuildAnalysisOutput assembles the JSON report without serializing it.
func BuildAnalysisOutput(results []*driver.Result, opts JSONOpts) AnalysisOutput {
	out := AnalysisOutput{Files: make([]FileOutput, 0, len(results))}
	for _, res := range results {
		if res == nil || res.Report == nil {
			continue
		}
		fo := FileOutput{
			FileReport:  *res.Report,
			Diagnostics: BuildDiagnosticsOutput(res.Bag, res.FileSet, opts).Diagnostics,
		}
		fo.Path = formatPath(fo.Path, opts.PathMode, opts.BaseDir)
		if fo.Loops == nil {
			fo.Loops = []driver.LoopReport{}
		}
		out.Loops += len(fo.Loops)
		out.Vectorizable += res.Report.Vectorizable()
		out.Kernels += res.Report.Kernels()
		out.Files = append(out.Files, fo)
	}
	return out
}

// ReportJSON writes the JSON report.
func ReportJSON(w io.Writer, results []*driver.Result, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildAnalysisOutput(results, opts))
}
