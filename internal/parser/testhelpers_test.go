package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"loopkern/internal/ast"
	"loopkern/internal/diag"
	"loopkern/internal/lexer"
	"loopkern/internal/source"
)

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.c", []byte(input)))
	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)
	res := ParseFile(context.Background(), lx, builder, Options{MaxErrors: 100, Reporter: reporter})
	return builder, res.File, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag.Len() == 0 {
		return "<none>"
	}
	lines := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		lines = append(lines, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return strings.Join(lines, "; ")
}

// firstFn returns the first function definition of the file.
func firstFn(t *testing.T, b *ast.Builder, file ast.FileID) *ast.FnItem {
	t.Helper()
	for _, id := range b.Files.Get(file).Items {
		if fn, ok := b.Items.Fn(id); ok && fn.Body.IsValid() {
			return fn
		}
	}
	t.Fatal("no function definition parsed")
	return nil
}

func bodyStmts(t *testing.T, b *ast.Builder, fn *ast.FnItem) []ast.StmtID {
	t.Helper()
	blk, ok := b.Stmts.Block(fn.Body)
	if !ok {
		t.Fatal("function body is not a block")
	}
	return blk.Stmts
}
