package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loopkern/internal/config"
	"loopkern/internal/diag"
	"loopkern/internal/diagfmt"
	"loopkern/internal/driver"
)

var kernelsCmd = &cobra.Command{
	Use:   "kernels [flags] <file.c>",
	Short: "Print only the generated kernel modules",
	Args:  cobra.ExactArgs(1),
	RunE:  runKernels,
}

func init() {
	kernelsCmd.Flags().String("emit", "llvm", "kernel text form (kir|llvm)")
	kernelsCmd.Flags().String("config", "", "path to "+config.FileName)
	kernelsCmd.Flags().StringP("output", "o", "", "write kernels to file instead of stdout")
}

func runKernels(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	emitStr, err := cmd.Flags().GetString("emit")
	if err != nil {
		return fmt.Errorf("failed to get emit flag: %w", err)
	}
	emit, err := driver.ParseEmitMode(emitStr)
	if err != nil {
		return err
	}
	if emit == driver.EmitNone {
		return fmt.Errorf("kernels needs --emit kir or llvm")
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	f := analyzeFlags{emit: emit, configPath: configPath}
	if err := readGlobalFlags(cmd, &f.maxDiags, &f.quiet, &f.timings); err != nil {
		return err
	}
	opts, err := buildOptions(filePath, f)
	if err != nil {
		return err
	}

	res, err := driver.AnalyzeFile(cmd.Context(), filePath, opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	useColor, err := colorFor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{
		Color:       useColor,
		Context:     1,
		MinSeverity: diag.SevWarning,
		ShowNotes:   true,
	})
	if res.Bag.HasErrors() {
		return failWithDiagnostics(cmd)
	}

	out := os.Stdout
	if output != "" && output != "-" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer file.Close()
		out = file
	}
	n := diagfmt.WriteKernels(out, res.Report)
	if !f.quiet {
		fmt.Fprintf(os.Stderr, "%d kernels from %d loops\n", n, len(res.Report.Loops))
	}
	if opts.Timer != nil {
		fmt.Fprint(os.Stderr, opts.Timer.Summary())
	}
	return nil
}
