package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/imgproc/internal/batch"
	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/spf13/cobra"
)

func newEditCommand(a *app) *cobra.Command {
	var tokens []string

	editCmd := &cobra.Command{
		Use:   "edit [files...]",
		Short: "Apply operations to one or more images",
		Long: `Apply an ordered list of operations to every input image and write the
results. Operation flags are applied in the order they are given.

Without --output every input is overwritten in place. When --output names a
directory (existing, or ending in a path separator) results are written as
<name>_edited<ext> inside it. Any other --output is a single file path and
accepts exactly one input.

Supported formats: JPEG, PNG, BMP, GIF, TIFF, WebP (read only)

Examples:
  imgproc edit photo.jpg --rotate90 -g -o out/
  imgproc edit a.png b.png --blur 5 --sepia -o edited/
  imgproc edit images/ --recursive --workers 4 --op resize-ratio:0.5,0.5 -o small/
  imgproc edit photo.jpg --recipe thumbnail.yaml -o thumb.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit(cmd, args, tokens)
		},
	}

	flags := editCmd.Flags()
	addOperationFlags(flags, &tokens)

	flags.StringP("output", "o", "", "output directory (existing or ending in /) or file path; default overwrites inputs")
	flags.String("suffix", "", "file name suffix used in directory mode (default \"_edited\")")
	flags.String("recipe", "", "YAML file with an operations list")
	flags.Int("jpeg-quality", 0, "JPEG encoder quality 1-100 (default 95)")

	flags.IntP("workers", "w", 1, "number of parallel workers")
	flags.BoolP("recursive", "r", false, "process directories recursively")
	flags.StringSlice("include", nil, "file patterns to include when scanning directories")
	flags.StringSlice("exclude", nil, "file patterns to exclude when scanning directories")

	flags.Bool("progress", false, "show a progress bar")
	flags.BoolP("quiet", "q", false, "suppress the report, progress and statistics")
	flags.Bool("stats", false, "print processing statistics")
	flags.StringP("format", "f", "", "report format (text, json, csv)")
	flags.String("report", "", "write the report to a file instead of stdout")
	flags.String("metrics-file", "", "write prometheus metrics to this file")

	for flag, key := range map[string]string{
		"output":       "output.path",
		"suffix":       "output.suffix",
		"jpeg-quality": "output.jpeg_quality",
		"format":       "output.report_format",
		"report":       "output.report_file",
		"recipe":       "recipe",
		"workers":      "batch.workers",
		"recursive":    "batch.recursive",
		"include":      "batch.include",
		"exclude":      "batch.exclude",
		"progress":     "batch.progress",
		"stats":        "batch.stats",
		"metrics-file": "metrics.file",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	return editCmd
}

// request resolves the operations to apply. Operation flags take
// precedence over the configured recipe and operation list.
func (a *app) request(cmd *cobra.Command, tokens []string) (ops.Request, error) {
	if len(tokens) == 0 {
		return a.config.Request()
	}
	if cmd.Flags().Changed("recipe") {
		return nil, errors.New("--recipe cannot be combined with operation flags")
	}
	return ops.ParseRequest(tokens)
}

func (a *app) runEdit(cmd *cobra.Command, args, tokens []string) error {
	req, err := a.request(cmd, tokens)
	if err != nil {
		return fmt.Errorf("invalid operations: %w", err)
	}

	config := a.config.ToBatchConfig(req)
	config.Quiet, _ = cmd.Flags().GetBool("quiet")
	config.Logger = a.logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := batch.ProcessBatch(ctx, args, config)
	if result == nil {
		return err
	}

	if !config.Quiet || config.ReportFile != "" {
		if rerr := result.SaveResults(cmd.OutOrStdout(), config.Format, config.ReportFile, config.Quiet); rerr != nil {
			return rerr
		}
	}
	if config.ShowStats {
		result.PrintStats(cmd.ErrOrStderr(), config.Quiet)
	}
	if config.Metrics != nil {
		if merr := config.Metrics.WriteTextfile(a.config.Metrics.File); merr != nil {
			return merr
		}
	}

	if err != nil {
		return err
	}
	return result.Err()
}
