package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("kernel.c", []byte("int x;"), 0)
	id2 := fs.Add("kernel.c", []byte("int y;"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids %d, %d", id1, id2)
	}
	latest, ok := fs.GetLatest("./kernel.c")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "int x;" {
		t.Errorf("old version lost, got %q", got)
	}
}

func TestResolveAndLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.c", []byte("int a;\nint b;\n\nfor"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{6, LineCol{Line: 1, Col: 7}}, // the newline itself
		{7, LineCol{Line: 2, Col: 1}},
		{14, LineCol{Line: 3, Col: 1}},
		{15, LineCol{Line: 4, Col: 1}},
		{17, LineCol{Line: 4, Col: 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
	if line := fs.Line(Span{File: id, Start: 15, End: 18}); line != 4 {
		t.Errorf("Line = %d, want 4", line)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.c", []byte("first\nsecond\nthird")))
	for i, want := range []string{"", "first", "second", "third", ""} {
		if got := f.GetLine(uint32(i)); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.c")
	// BOM + CRLF + decomposed "é" (e + U+0301) inside a comment
	raw := []byte("\xEF\xBB\xBF/* cafe\u0301 */\r\nint x;\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if want := "/* caf\u00e9 */\nint x;\n"; string(f.Content) != want {
		t.Errorf("content = %q, want %q", f.Content, want)
	}
	for _, flag := range []FileFlags{FileHadBOM, FileNormalizedCRLF, FileNormalizedNFC} {
		if f.Flags&flag == 0 {
			t.Errorf("flag %d not set (flags=%b)", flag, f.Flags)
		}
	}
	if f.Flags&FileVirtual != 0 {
		t.Error("disk file marked virtual")
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("arr")
	b := in.Intern("sum")
	if a == b || in.Intern("arr") != a {
		t.Fatal("interning is not stable")
	}
	if s, ok := in.Lookup(b); !ok || s != "sum" {
		t.Errorf("Lookup = %q, %v", s, ok)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Error("unknown id resolved")
	}
	if in.Len() != 3 {
		t.Errorf("Len = %d, want 3", in.Len())
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 20}); got != a {
		t.Errorf("cross-file Cover changed span: %v", got)
	}
}
