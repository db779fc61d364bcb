package ui

import (
	"strings"
	"testing"

	"loopkern/internal/driver"
)

func TestProgressModelEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("analyze", []string{"a.c", "b.c"}, events).(*progressModel)

	steps := []struct {
		ev   driver.Event
		want string
	}{
		{driver.Event{File: "a.c", Stage: driver.StageParse, Status: driver.StatusWorking}, "parsing"},
		{driver.Event{File: "a.c", Stage: driver.StageAnalyze, Status: driver.StatusWorking}, "analyzing"},
		{driver.Event{File: "a.c", Status: driver.StatusDone, Loops: 3, Kernels: 2}, "done"},
		{driver.Event{File: "b.c", Status: driver.StatusCached, Loops: 1, Kernels: 1}, "cached"},
		{driver.Event{File: "unknown.c", Status: driver.StatusError}, ""},
	}
	for _, st := range steps {
		m.applyEvent(st.ev)
		if st.want == "" {
			continue
		}
		if got := m.files[m.byPath[st.ev.File]].status; got != st.want {
			t.Errorf("%s after %s/%s: status %q, want %q", st.ev.File, st.ev.Stage, st.ev.Status, got, st.want)
		}
	}
	if p := m.percent(); p != 1.0 {
		t.Errorf("percent = %v, want 1", p)
	}

	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"done: analyze 2/2 files, 3 kernels", "a.c", "3 loops, 2 kernels", "cached"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressPartial(t *testing.T) {
	m := NewProgressModel("analyze", []string{"a.c", "b.c"}, nil).(*progressModel)
	m.applyEvent(driver.Event{File: "a.c", Stage: driver.StageSema, Status: driver.StatusWorking})
	if p := m.percent(); p <= 0 || p >= 0.5 {
		t.Errorf("percent = %v", p)
	}
	m.applyEvent(driver.Event{Stage: driver.StageLoad, Status: driver.StatusWorking})
	if m.runStage != "loading" {
		t.Errorf("run stage = %q", m.runStage)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.c", 20, "short.c"},
		{"a/very/long/path/to/file.c", 10, "a/ve..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
