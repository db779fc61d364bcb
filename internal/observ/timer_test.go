package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	end := timer.Track("parse")
	end("items=3")
	idx := timer.Begin("sema")
	timer.End(idx, "")
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != "parse" || report.Phases[0].Note != "items=3" {
		t.Fatalf("first phase = %+v", report.Phases[0])
	}
	summary := timer.Summary()
	for _, want := range []string{"timings:", "parse", "// items=3", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.Track("x")("done")
	if got := timer.Report(); len(got.Phases) != 0 {
		t.Fatalf("nil timer reported %+v", got)
	}
}

func TestTimerConcurrent(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Track("file")("")
		}()
	}
	wg.Wait()
	if n := len(timer.Report().Phases); n != 16 {
		t.Fatalf("phases = %d, want 16", n)
	}
}
