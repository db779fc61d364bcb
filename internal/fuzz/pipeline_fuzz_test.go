package fuzztests

import (
	"context"
	"testing"

	"loopkern/internal/config"
	"loopkern/internal/driver"
)

// FuzzPipeline runs the whole analysis. Every verdict must carry reasons and
// every kernel that claims success must have rendered text.
func FuzzPipeline(f *testing.F) {
	addCorpusSeeds(f)
	opts := driver.Options{Config: config.Default(), Emit: driver.EmitLLVM, MaxDiagnostics: 64}
	f.Fuzz(func(t *testing.T, input []byte) {
		res := driver.AnalyzeSource(context.Background(), "fuzz.c", clampSeed(input), opts)
		for _, l := range res.Report.Loops {
			if l.Analyzed && (l.Verdict == nil || len(l.Verdict.Reasons) == 0) {
				t.Fatalf("loop at line %d analyzed without reasons", l.Line)
			}
			if k := l.Kernel; k != nil && k.Generated && k.Text == "" {
				t.Fatalf("kernel %s generated without text", k.Name)
			}
		}
	})
}
