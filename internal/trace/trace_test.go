package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"lex", "parse", "sema", "analyze"} {
		Begin(ring, ScopePass, name, 0).End("")
	}
	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Name != "sema" || events[0].Kind != KindSpanEnd {
		t.Fatalf("oldest kept event = %s/%s", events[0].Name, events[0].Kind)
	}
	if events[2].Name != "analyze" || events[2].Kind != KindSpanEnd {
		t.Fatalf("newest event = %s/%s", events[2].Name, events[2].Kind)
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeLoop, false},
		{LevelDetail, ScopeLoop, true},
		{LevelDetail, ScopeStep, false},
		{LevelDebug, ScopeStep, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String()+"/"+tt.scope.String(), func(t *testing.T) {
			if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
				t.Errorf("ShouldEmit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStreamTextFormat(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDetail, FormatText)
	root := Begin(st, ScopeDriver, "analyze", 0)
	ctx := root.Context(context.Background())
	loop := Begin(st, ScopeLoop, "loop:kernel_line_4", CurrentSpan(ctx).SpanID)
	loop.WithExtra("width", "4").WithExtra("reduction", "true").End("vectorizable")
	root.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[2], "< loop:kernel_line_4 (vectorizable) reduction=true width=4") {
		t.Errorf("unexpected end line %q", lines[2])
	}
}

func TestNDJSONCarriesParent(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	parent := Begin(st, ScopePass, "sema", 0)
	Point(st, ScopeStep, "while", "skipped", parent.ID())
	parent.End("")
	if !strings.Contains(buf.String(), `"parent_id":`) {
		t.Errorf("point event lost its parent: %s", buf.String())
	}
}

func TestNopContext(t *testing.T) {
	if FromContext(context.Background()).Enabled() {
		t.Fatal("background context must carry the nop tracer")
	}
	span := Begin(FromContext(context.Background()), ScopePass, "parse", 0)
	if span.End("") != 0 {
		t.Error("disabled span must report zero duration")
	}
	if got := span.Context(context.Background()); CurrentSpan(got).SpanID != 0 {
		t.Error("disabled span must not become a parent")
	}
}

func TestStartNestsUnderContextSpan(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	outer, ctx := Start(ctx, ScopeDriver, "analyze_dir")
	inner, innerCtx := Start(ctx, ScopePass, "analyze_file")
	if CurrentSpan(innerCtx).SpanID != inner.ID() {
		t.Fatalf("inner context span = %d, want %d", CurrentSpan(innerCtx).SpanID, inner.ID())
	}
	inner.End("")
	outer.End("")

	for _, ev := range ring.Snapshot() {
		if ev.Name == "analyze_file" && ev.ParentID != outer.ID() {
			t.Errorf("analyze_file parent = %d, want %d", ev.ParentID, outer.ID())
		}
	}
}

func TestStartWithoutTracer(t *testing.T) {
	ctx := context.Background()
	span, got := Start(ctx, ScopePass, "parse")
	span.End("")
	if got != ctx {
		t.Error("disabled span changed the context")
	}
}

func TestRingDumpReportsDropped(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for i := 0; i < 3; i++ {
		Begin(ring, ScopePass, "parse", 0).End("")
	}
	if ring.Dropped() != 4 {
		t.Fatalf("dropped = %d, want 4", ring.Dropped())
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "... 4 earlier events dropped\n") {
		t.Errorf("dump:\n%s", buf.String())
	}
}
