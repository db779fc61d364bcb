package driver

import (
	"context"
	"path/filepath"
	"testing"
)

func TestAnalyzeTestdata(t *testing.T) {
	root := filepath.Join("..", "..", "testdata", "loops")
	res, err := AnalyzeDir(context.Background(), root, testOptions(EmitLLVM))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]struct{ loops, vectorizable int }{
		"dependency.c":  {3, 0},
		"elementwise.c": {3, 2},
		"reduction.c":   {2, 2},
	}
	if len(res.Files) != len(want) {
		t.Fatalf("files = %d, want %d", len(res.Files), len(want))
	}
	for _, f := range res.Files {
		name := filepath.Base(f.File.Path)
		w, ok := want[name]
		if !ok {
			t.Errorf("unexpected file %s", name)
			continue
		}
		if f.Bag.HasErrors() {
			t.Errorf("%s: front-end errors %+v", name, f.Bag.Items())
			continue
		}
		if got := len(f.Report.Loops); got != w.loops {
			t.Errorf("%s: loops = %d, want %d", name, got, w.loops)
		}
		if got := f.Report.Vectorizable(); got != w.vectorizable {
			t.Errorf("%s: vectorizable = %d, want %d", name, got, w.vectorizable)
		}
	}
}
