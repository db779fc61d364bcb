package vect_test

import (
	"testing"

	"loopkern/internal/ast"
	"loopkern/internal/testkit"
	"loopkern/internal/vect"
)

func TestClassifyIndex(t *testing.T) {
	tests := []struct {
		index  string
		kind   vect.PatternKind
		offset int64
	}{
		{"3", vect.Constant, 3},
		{"(0)", vect.Constant, 0},
		{"i", vect.InductionAligned, 0},
		{"(i)", vect.InductionAligned, 0},
		{"i - 1", vect.InductionMinusOne, -1},
		{"i - 2", vect.Unclassified, 0},
		{"i + 1", vect.Unclassified, 0},
		{"2 * i", vect.Unclassified, 0},
		{"n - 1", vect.Unclassified, 0},
		{"iarr[i]", vect.Unclassified, 0},
	}
	for _, tt := range tests {
		t.Run(tt.index, func(t *testing.T) {
			u := testkit.MustCompile(t, testkit.Wrap("for (i = 0; i < n; i++) arr["+tt.index+"] = 0.0f;"))
			l, err := vect.LoopOf(u.Builder, u.Sema, u.ForLoop(t, 0).Stmt)
			if err != nil {
				t.Fatal(err)
			}
			var index ast.ExprID
			vect.Visitor{
				Index: func(_ ast.ExprID, data *ast.ExprIndexData) bool {
					if !index.IsValid() {
						index = data.Index
					}
					return false
				},
			}.Walk(u.Builder, l.Body)
			got := vect.ClassifyIndex(u.Builder, u.Sema, index, l.Induction)
			if got.Kind != tt.kind || got.Offset != tt.offset {
				t.Errorf("ClassifyIndex(%s) = %s/%d, want %s/%d", tt.index, got.Kind, got.Offset, tt.kind, tt.offset)
			}
		})
	}
}
