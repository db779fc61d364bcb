package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"loopkern/internal/diag"
	"loopkern/internal/source"
	"loopkern/internal/trace"
)

// DirResult holds per-file results in ListCFiles order. All results share
// one FileSet.
type DirResult struct {
	FileSet *source.FileSet
	Files   []*Result
	// LoadErrors collects files that could not be read.
	LoadErrors *diag.Bag
}

// HasErrors reports whether any file failed to load or had front-end errors.
func (r *DirResult) HasErrors() bool {
	if r.LoadErrors.HasErrors() {
		return true
	}
	for _, f := range r.Files {
		if f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// ListCFiles returns the sorted .c files under dir, skipping hidden
// directories.
func ListCFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".c" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// AnalyzeDir analyzes every .c file under dir with up to opts.Jobs workers.
func AnalyzeDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	paths, err := ListCFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "analyze_dir")
	span.WithExtra("dir", dir)
	defer span.End("")

	res := &DirResult{
		FileSet:    source.NewFileSet(),
		LoadErrors: diag.NewBag(opts.maxDiagnostics()),
	}

	// Все файлы грузятся последовательно: FileSet не потокобезопасен на запись.
	endLoad := opts.Timer.Track("load")
	ids := make([]source.FileID, 0, len(paths))
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
		id, loadErr := res.FileSet.Load(p)
		if loadErr != nil {
			res.LoadErrors.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{},
				fmt.Sprintf("failed to load %s: %v", p, loadErr)))
			emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusError, Err: loadErr})
			continue
		}
		ids = append(ids, id)
	}
	endLoad(fmt.Sprintf("files=%d", len(ids)))

	res.Files = make([]*Result, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(ids)))
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res.Files[i] = analyzeLoaded(gctx, res.FileSet, id, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
