package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"loopkern/internal/config"
	"loopkern/internal/diag"
	"loopkern/internal/diagfmt"
	"loopkern/internal/driver"
	"loopkern/internal/observ"
	"loopkern/internal/trace"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <file.c|dir>",
	Short: "Analyze loops and generate kernels for the vectorizable ones",
	Long: `Analyze parses a C source file (or every .c file under a directory),
reports for each loop why it is or is not vectorizable and prints the
generated kernel for the loops that are`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	analyzeCmd.Flags().String("emit", "llvm", "kernel text form (kir|llvm|none)")
	analyzeCmd.Flags().Int("jobs", 0, "max parallel files in directory mode (0=auto)")
	analyzeCmd.Flags().String("config", "", "path to "+config.FileName+" (default: search upwards from the input)")
	analyzeCmd.Flags().Bool("cache", false, "reuse results of unchanged files from the disk cache")
	analyzeCmd.Flags().Bool("clear-cache", false, "drop the disk cache before running")
	analyzeCmd.Flags().String("ui", "auto", "progress view in directory mode (auto|on|off)")
	analyzeCmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	analyzeCmd.Flags().String("min-severity", "warning", "lowest diagnostic severity printed to stderr (info|warning|error)")
}

type analyzeFlags struct {
	format     string
	emit       driver.EmitMode
	jobs       int
	configPath string
	cache      bool
	clearCache bool
	ui         uiMode
	pathMode   diagfmt.PathMode
	minSev     diag.Severity
	maxDiags   int
	quiet      bool
	timings    bool
}

func readAnalyzeFlags(cmd *cobra.Command) (analyzeFlags, error) {
	var (
		f   analyzeFlags
		err error
	)
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	f.format = strings.ToLower(f.format)
	if f.format != "pretty" && f.format != "json" {
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	emitStr, err := cmd.Flags().GetString("emit")
	if err != nil {
		return f, fmt.Errorf("failed to get emit flag: %w", err)
	}
	if f.emit, err = driver.ParseEmitMode(emitStr); err != nil {
		return f, err
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.configPath, err = cmd.Flags().GetString("config"); err != nil {
		return f, fmt.Errorf("failed to get config flag: %w", err)
	}
	if f.cache, err = cmd.Flags().GetBool("cache"); err != nil {
		return f, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if f.clearCache, err = cmd.Flags().GetBool("clear-cache"); err != nil {
		return f, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	pathStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if f.pathMode, ok = diagfmt.ParsePathMode(pathStr); !ok {
		return f, fmt.Errorf("invalid --path-mode value %q", pathStr)
	}
	sevStr, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return f, fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	if f.minSev, err = diag.ParseSeverity(sevStr); err != nil {
		return f, err
	}
	return f, readGlobalFlags(cmd, &f.maxDiags, &f.quiet, &f.timings)
}

func readGlobalFlags(cmd *cobra.Command, maxDiags *int, quiet, timings *bool) error {
	var err error
	if *maxDiags, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if *quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if *timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	return nil
}

// buildOptions resolves configuration and the cache for target.
func buildOptions(target string, f analyzeFlags) (driver.Options, error) {
	cfg, err := config.Resolve(f.configPath, target)
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{
		Config:         cfg,
		Emit:           f.emit,
		MaxDiagnostics: f.maxDiags,
		Jobs:           f.jobs,
	}
	if f.timings {
		opts.Timer = observ.NewTimer()
	}
	if f.cache || f.clearCache {
		var cache *driver.DiskCache
		if cfg.CacheDir != "" {
			cache, err = driver.OpenDiskCacheAt(cfg.CacheDir)
		} else {
			cache, err = driver.OpenDiskCache("loopkern")
		}
		if err != nil {
			return driver.Options{}, fmt.Errorf("failed to open cache: %w", err)
		}
		if f.clearCache {
			if err := cache.DropAll(); err != nil {
				return driver.Options{}, fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		if f.cache {
			opts.Cache = cache
		}
	}
	return opts, nil
}

// analyzeTarget runs a file or a directory and returns the per-file results
// together with load failures (directory mode only).
func analyzeTarget(cmd *cobra.Command, target string, f analyzeFlags, opts driver.Options) ([]*driver.Result, *diag.Bag, error) {
	st, err := os.Stat(target)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat path: %w", err)
	}
	ctx := cmd.Context()
	if !st.IsDir() {
		res, err := driver.AnalyzeFile(ctx, target, opts)
		if err != nil {
			return nil, nil, err
		}
		return []*driver.Result{res}, nil, nil
	}

	var dirRes *driver.DirResult
	if shouldUseTUI(f.ui, f.format, f.quiet, progressTerminal) {
		files, listErr := driver.ListCFiles(target)
		if listErr != nil {
			return nil, nil, listErr
		}
		dirRes, err = analyzeDirWithUI(ctx, target, files, opts)
	} else {
		dirRes, err = driver.AnalyzeDir(ctx, target, opts)
	}
	if err != nil {
		return nil, nil, err
	}
	return dirRes.Files, dirRes.LoadErrors, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := args[0]
	f, err := readAnalyzeFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := buildOptions(target, f)
	if err != nil {
		return err
	}

	span := trace.Begin(trace.FromContext(cmd.Context()), trace.ScopeDriver, "analyze", 0).
		WithExtra("target", target).
		WithExtra("emit", f.emit.String())
	cmd.SetContext(span.Context(cmd.Context()))
	results, loadErrors, err := analyzeTarget(cmd, target, f, opts)
	span.End("")
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	failed := false
	if loadErrors != nil {
		failed = loadErrors.HasErrors()
		for _, d := range loadErrors.Items() {
			fmt.Fprintf(os.Stderr, "error: %s\n", d.Message)
		}
	}

	switch f.format {
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         f.pathMode,
			IncludeNotes:     true,
			Max:              f.maxDiags,
		}
		if err := diagfmt.ReportJSON(os.Stdout, results, jsonOpts); err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
		for _, res := range results {
			failed = failed || res.Bag.HasErrors()
		}
	default:
		diagColor, err := colorFor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		outColor, err := colorFor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		for i, res := range results {
			diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{
				Color:       diagColor,
				Context:     1,
				PathMode:    f.pathMode,
				MinSeverity: f.minSev,
				ShowNotes:   true,
			})
			failed = failed || res.Bag.HasErrors()
			if f.quiet {
				continue
			}
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			diagfmt.Report(os.Stdout, res.Report, diagfmt.ReportOpts{
				Color:    outColor,
				PathMode: f.pathMode,
				Kernels:  f.emit != driver.EmitNone,
			})
		}
	}

	if opts.Timer != nil {
		fmt.Fprint(os.Stderr, opts.Timer.Summary())
	}
	if failed {
		return failWithDiagnostics(cmd)
	}
	return nil
}
