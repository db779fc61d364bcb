package sema_test

import (
	"testing"

	"loopkern/internal/ast"
	"loopkern/internal/diag"
	"loopkern/internal/sema"
	"loopkern/internal/testkit"
	"loopkern/internal/types"
)

func findExpr(u *testkit.Unit, text string) ast.ExprID {
	for id := range u.Sema.ExprTypes {
		if u.Builder.ExprString(id) == text {
			return id
		}
	}
	return ast.NoExprID
}

func TestExpressionTypes(t *testing.T) {
	u := testkit.MustCompile(t, testkit.Wrap(`
	for (i = 0; i < n; i++) {
		arr[i] = arr[i] * 2.0f;
		sum += (float)iarr[i];
		out[0] = arr[i] + 1.0;
		count = iarr[i] << 2;
	}`))
	in := u.Sema.Types()
	tests := []struct {
		expr string
		want string
	}{
		{"arr[i]", "float"},
		{"arr[i] * 2.0f", "float"},
		{"2.0f", "float"},
		{"arr[i] + 1.0", "double"},
		{"iarr[i]", "int"},
		{"(float)iarr[i]", "float"},
		{"i < n", "int"},
		{"arr", "float *"},
		{"iarr[i] << 2", "int"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			id := findExpr(u, tt.expr)
			if !id.IsValid() {
				t.Fatalf("expression %q not found", tt.expr)
			}
			if got := in.Label(u.Sema.TypeOf(id)); got != tt.want {
				t.Errorf("type of %q = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestStorageClasses(t *testing.T) {
	u := testkit.MustCompile(t, `
float table[16];
void f(float *p, int n) {
	int i;
	static int calls;
	for (i = 0; i < n; i++) {
		p[i] = table[i];
		calls++;
	}
}`)
	want := map[string]sema.Storage{
		"p":     sema.StorageParam,
		"table": sema.StorageGlobal,
		"i":     sema.StorageLocal,
		"calls": sema.StorageGlobal,
		"n":     sema.StorageParam,
	}
	seen := map[string]bool{}
	for id := range u.Sema.ExprSymbols {
		sym, ok := u.Sema.SymbolOf(id)
		if !ok {
			continue
		}
		name := u.Builder.Name(sym.Name)
		exp, tracked := want[name]
		if !tracked {
			continue
		}
		seen[name] = true
		if sym.Storage != exp {
			t.Errorf("%s: storage %s, want %s", name, sym.Storage, exp)
		}
	}
	for name := range want {
		if !seen[name] {
			t.Errorf("no reference to %s resolved", name)
		}
	}
}

func TestArrayParamsDecay(t *testing.T) {
	u := testkit.MustCompile(t, "void f(float a[], int b[8]) { a[0] = (float)b[1]; }")
	in := u.Sema.Types()
	for _, name := range []string{"a", "b"} {
		id := findExpr(u, name)
		if got := in.MustLookup(u.Sema.TypeOf(id)).Kind; got != types.KindPointer {
			t.Errorf("%s: kind %s, want pointer", name, got)
		}
	}
}

func TestLoopsInSourceOrder(t *testing.T) {
	u := testkit.MustCompile(t, `void f(float *a, int n) {
	int i, j;
	for (i = 0; i < n; i++)
		a[i] = 0.0f;
	while (n > 0)
		n--;
	for (j = 0; j < 4; j++) {
		for (i = 0; i < 4; i++)
			a[i] += 1.0f;
	}
}`)
	loops := u.Sema.Loops
	if len(loops) != 4 {
		t.Fatalf("expected 4 loops, got %d", len(loops))
	}
	wantKinds := []sema.LoopKind{sema.LoopFor, sema.LoopWhile, sema.LoopFor, sema.LoopFor}
	wantLines := []uint32{3, 5, 7, 8}
	for i, l := range loops {
		if l.Kind != wantKinds[i] || l.Line != wantLines[i] {
			t.Errorf("loop %d: %s at line %d, want %s at line %d", i, l.Kind, l.Line, wantKinds[i], wantLines[i])
		}
	}
	if n := len(u.Sema.ForLoops()); n != 3 {
		t.Errorf("ForLoops() = %d, want 3", n)
	}
	var whileInfo bool
	for _, d := range u.Bag.Items() {
		if d.Code == diag.SemaWhileNotAnalyzed && d.Severity == diag.SevInfo {
			whileInfo = true
		}
	}
	if !whileInfo {
		t.Error("while loop was not reported")
	}
}

func TestSemaErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"undeclared", "void f(void) { x = 1; }", diag.SemaUnresolvedSymbol},
		{"not subscriptable", "void f(int n) { n[0] = 1; }", diag.SemaNotSubscriptable},
		{"not assignable", "void f(int n) { n + 1 = 2; }", diag.SemaNotAssignable},
		{"duplicate local", "void f(void) { int a; float a; }", diag.SemaDuplicateSymbol},
		{"float modulo", "void f(float x) { x = x % 2.0f; }", diag.SemaInvalidOperands},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := testkit.Compile(t, tt.src)
			for _, d := range u.Bag.Items() {
				if d.Code == tt.code {
					return
				}
			}
			t.Fatalf("expected %s, got %s", tt.code.ID(), testkit.Summary(u.Bag))
		})
	}
}

func TestIntLiteral(t *testing.T) {
	tests := []struct {
		text string
		want uint64
	}{
		{"0", 0},
		{"128", 128},
		{"0x1F", 31},
		{"017", 15},
		{"64u", 64},
		{"10UL", 10},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := sema.ParseIntLiteral(tt.text)
			if err != nil || got != tt.want {
				t.Errorf("ParseIntLiteral(%q) = %d, %v; want %d", tt.text, got, err, tt.want)
			}
		})
	}
}
