package diag

import (
	"testing"

	"loopkern/internal/source"
)

func TestBagLimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, SemaWhileNotAnalyzed, source.Span{Start: 1, End: 2}, "while").Emit()
	if bag.HasErrors() {
		t.Fatal("warning counted as error")
	}
	ReportError(r, SynExpectSemicolon, source.Span{Start: 3, End: 4}, "semi").Emit()
	ReportError(r, SynExpectSemicolon, source.Span{Start: 5, End: 6}, "dropped").Emit()
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Error("expected both errors and warnings")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(SevWarning, VecLoopNotVectorizable, source.Span{Start: 10, End: 12}, "b"))
	bag.Add(New(SevError, SynUnexpectedToken, source.Span{Start: 2, End: 3}, "a"))
	bag.Add(New(SevWarning, VecLoopNotVectorizable, source.Span{Start: 10, End: 12}, "b"))
	bag.Dedup()
	bag.Sort()
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items after dedup", len(items))
	}
	if items[0].Code != SynUnexpectedToken {
		t.Errorf("first = %v", items[0].Code)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(4)
	b := ReportInfo(BagReporter{Bag: bag}, KernEmitted, source.Span{}, "kernel_line_3").
		WithNote(source.Span{Start: 1}, "loop here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	if got := bag.Items()[0].Notes; len(got) != 1 || got[0].Msg != "loop here" {
		t.Errorf("notes = %+v", got)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LexBadNumber:         "LEX1004",
		SynForBadHeader:      "SYN2010",
		VecLoopVectorizable:  "VEC6001",
		KernGenerationFailed: "KRN7001",
		UnknownCode:          "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"info", SevInfo, false},
		{"Warning", SevWarning, false},
		{"", SevWarning, false},
		{" error ", SevError, false},
		{"fatal", SevInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, %v", tt.in, got, err)
		}
	}
	if !SevError.AtLeast(SevWarning) || SevInfo.AtLeast(SevWarning) {
		t.Error("AtLeast ordering is wrong")
	}
}
