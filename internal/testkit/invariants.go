package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"loopkern/internal/ast"
	"loopkern/internal/source"
)

// CheckSpanInvariants verifies that every item and every statement of the
// file carries a non-empty span inside its parent's span.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}
	for _, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		if err := within(item.Span, f.Span, "item"); err != nil {
			return err
		}
		fn, ok := b.Items.Fn(it)
		if !ok || !fn.Body.IsValid() {
			continue
		}
		var walkErr error
		b.WalkStmts(fn.Body, func(id ast.StmtID, st *ast.Stmt) bool {
			if walkErr == nil {
				walkErr = within(st.Span, item.Span, "statement "+st.Kind.String())
			}
			return walkErr == nil
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}

func within(sp, parent source.Span, what string) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty %s span: %v", what, sp)
	}
	if sp.File != parent.File {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, parent.File)
	}
	if sp.Start < parent.Start || sp.End > parent.End {
		return fmt.Errorf("%s span %v is outside %v", what, sp, parent)
	}
	return nil
}
