package testkit

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"loopkern/internal/ast"
	"loopkern/internal/diag"
	"loopkern/internal/lexer"
	"loopkern/internal/parser"
	"loopkern/internal/sema"
	"loopkern/internal/source"
)

// Unit is a C snippet taken through lexing, parsing and checking.
type Unit struct {
	Files   *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Sema    *sema.Result
	Bag     *diag.Bag
}

// Compile runs the front end over src. It does not fail on diagnostics;
// use MustCompile for snippets that are expected to be clean.
func Compile(tb testing.TB, src string) *Unit {
	tb.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("snippet.c", []byte(src)))
	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	parsed := parser.ParseFile(context.Background(), lx, builder, parser.Options{MaxErrors: 100, Reporter: reporter})
	res := sema.Check(context.Background(), builder, parsed.File, sema.Options{Reporter: reporter, Files: fs})
	return &Unit{Files: fs, File: file, Builder: builder, FileID: parsed.File, Sema: res, Bag: bag}
}

// MustCompile fails the test when the snippet produced any error.
func MustCompile(tb testing.TB, src string) *Unit {
	tb.Helper()
	u := Compile(tb, src)
	if u.Bag.HasErrors() {
		tb.Fatalf("unexpected diagnostics: %s", Summary(u.Bag))
	}
	if err := CheckSpanInvariants(u.Builder, u.FileID, u.File); err != nil {
		tb.Fatalf("span invariants: %v", err)
	}
	return u
}

// ForLoop returns the n-th counted loop (0-based, source order).
func (u *Unit) ForLoop(tb testing.TB, n int) sema.Loop {
	tb.Helper()
	loops := u.Sema.ForLoops()
	if n >= len(loops) {
		tb.Fatalf("snippet has %d for loops, want index %d", len(loops), n)
	}
	return loops[n]
}

// Summary renders "[CODE] message" pairs for failure messages.
func Summary(bag *diag.Bag) string {
	if bag.Len() == 0 {
		return "<none>"
	}
	lines := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		lines = append(lines, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return strings.Join(lines, "; ")
}

// Wrap places body inside a function with the usual test parameters.
func Wrap(body string) string {
	return "float g[64];\nint count;\n\nvoid f(float *arr, int *iarr, float *out, int n) {\n" +
		"\tint i;\n\tfloat sum = 0.0f;\n" + body + "\n}\n"
}
