package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"loopkern/internal/diag"
	"loopkern/internal/source"
)

func sampleBag() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	content := []byte("void f(float *a, int n) {\n\tint i;\n\tfor (i = 0; i < n; i++) a[i] = b[i];\n}\n")
	fileID := fs.AddVirtual("/home/user/project/src/loop.c", content)
	start := uint32(bytes.Index(content, []byte("b[i]")))

	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.SemaUnresolvedSymbol, source.Span{File: fileID, Start: start, End: start + 1}, "undeclared identifier 'b'")
	d = d.WithNote(source.Span{File: fileID, Start: 5, End: 6}, "in function 'f'")
	bag.Add(d)
	bag.Add(diag.New(diag.SevInfo, diag.VecLoopNotVectorizable, source.Span{File: fileID, Start: start, End: start}, "loop skipped"))
	return bag, fs
}

func TestPathModes(t *testing.T) {
	bag, fs := sampleBag()
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "absolute", mode: PathModeAbsolute, contains: "/home/user/project/src/loop.c:3:"},
		{name: "relative", mode: PathModeRelative, contains: "src/loop.c:3:"},
		{name: "basename", mode: PathModeBasename, contains: "loop.c:3:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("expected %q in:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "SEM3001", "undeclared identifier 'b'"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, MinSeverity: diag.SevWarning})
	output := buf.String()

	if !strings.Contains(output, "3 |     for (i = 0; i < n; i++) a[i] = b[i];") {
		t.Fatalf("expected source line with tab expanded, got:\n%s", output)
	}
	lines := strings.Split(output, "\n")
	var caret string
	for _, l := range lines {
		if strings.Contains(l, "^") {
			caret = l
		}
	}
	src := lines[1]
	if strings.Index(caret, "^") != strings.Index(src, "b[i]") {
		t.Fatalf("caret misaligned:\n%s\n%s", src, caret)
	}
	if !strings.Contains(output, "note: loop.c:1:6: in function 'f'") {
		t.Fatalf("expected note, got:\n%s", output)
	}
	if strings.Contains(output, "VEC6002") {
		t.Fatalf("info diagnostic not filtered:\n%s", output)
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := sampleBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1, MinSeverity: diag.SevError})
	output := buf.String()
	for _, want := range []string{"2 |     int i;", "3 |", "4 | }"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in:\n%s", want, output)
		}
	}
}

func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "loop.c", want: "loop.c"},
		{path: "/very/long/absolute/path/to/some/nested/directory/loop.c", want: "loop.c"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := formatPath(tt.path, PathModeAuto, "/elsewhere"); got != tt.want {
				t.Fatalf("formatPath = %q, want %q", got, tt.want)
			}
		})
	}
}
