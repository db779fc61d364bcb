package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestListCFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.c":         "",
		"a.c":         "",
		"notes.txt":   "",
		"sub/c.c":     "",
		".git/hook.c": "",
		"sub/d.h":     "",
	})
	got, err := ListCFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "a.c"),
		filepath.Join(root, "b.c"),
		filepath.Join(root, "sub", "c.c"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListCFiles = %v, want %v", got, want)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func TestAnalyzeDir(t *testing.T) {
	files := map[string]string{
		"one.c": sample,
		"two.c": "void f(float *a) {\n\tint i;\n\tfor (i = 0; i < 8; i++)\n\t\ta[i] = a[i] + 1.0f;\n}\n",
		"bad.c": "void f(void) { x = 1; }",
	}
	root := writeTree(t, files)
	sink := &recordingSink{}
	opts := testOptions(EmitNone)
	opts.Jobs = 2
	opts.Progress = sink

	res, err := AnalyzeDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("files = %d", len(res.Files))
	}
	// ListCFiles order: bad.c, one.c, two.c
	if !res.Files[0].Bag.HasErrors() || !res.HasErrors() {
		t.Error("bad.c errors were lost")
	}
	if n := len(res.Files[1].Report.Loops); n != 4 {
		t.Errorf("one.c loops = %d", n)
	}
	two := res.Files[2].Report
	if len(two.Loops) != 1 || two.Loops[0].Verdict.Width != 8 || two.Loops[0].Kernel.Name != "kernel_line_3" {
		t.Errorf("two.c = %+v", two.Loops)
	}
	for _, f := range res.Files {
		if f.FileSet != res.FileSet {
			t.Error("results do not share the file set")
		}
	}

	done := 0
	for _, evt := range sink.events {
		if evt.Status == StatusDone || evt.Status == StatusError {
			done++
		}
	}
	if done != 3 {
		t.Errorf("finished events = %d, want 3", done)
	}
}

func TestAnalyzeDirCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.c": sample})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := AnalyzeDir(ctx, root, testOptions(EmitNone)); err == nil {
		t.Error("cancelled run succeeded")
	}
}
