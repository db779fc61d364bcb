package diagfmt

import (
	"path/filepath"
	"strings"
)

const autoPathLimit = 48

func formatPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeRelative:
		if rel, ok := relativeTo(path, baseDir); ok {
			return rel
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	}
	if !filepath.IsAbs(path) || len(path) <= autoPathLimit {
		return path
	}
	if rel, ok := relativeTo(path, baseDir); ok && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return filepath.Base(path)
}

func relativeTo(path, baseDir string) (string, bool) {
	if baseDir == "" {
		wd, err := filepath.Abs(".")
		if err != nil {
			return "", false
		}
		baseDir = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(baseDir, abs)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
