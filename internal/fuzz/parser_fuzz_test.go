package fuzztests

import (
	"context"
	"testing"
	"time"

	"loopkern/internal/ast"
	"loopkern/internal/diag"
	"loopkern/internal/lexer"
	"loopkern/internal/parser"
	"loopkern/internal/source"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

// FuzzParserNoHang checks that the parser terminates on any input, including
// malformed headers that stress error recovery.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("void f() { for (i = 0 i < 10 i++) {} }"))
	f.Add([]byte("void f() { for (;;"))
	f.Add([]byte("void f() { { { { } } } }"))
	f.Add([]byte("int a[; float"))
	f.Add([]byte("void f() { do x; }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.c", input))
			bag := diag.NewBag(128)
			reporter := diag.BagReporter{Bag: bag}
			lx := lexer.New(file, lexer.Options{Reporter: reporter})
			builder := ast.NewBuilder(ast.Hints{}, nil)
			parser.ParseFile(context.Background(), lx, builder, parser.Options{Reporter: reporter, MaxErrors: 128})
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser did not finish within %v on %q", parseTimeout, input)
		}
	})
}
