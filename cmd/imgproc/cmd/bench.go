package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/imgproc/internal/benchmark"
	"github.com/MeKo-Tech/imgproc/internal/imageio"
	"github.com/MeKo-Tech/imgproc/internal/ops"
	"github.com/MeKo-Tech/imgproc/internal/raster"
	"github.com/spf13/cobra"
)

func newBenchCommand(a *app) *cobra.Command {
	var (
		tokens     []string
		iterations int
		width      int
		height     int
	)

	benchCmd := &cobra.Command{
		Use:   "bench [image]",
		Short: "Measure the cost of each operation",
		Long: `Apply every operation repeatedly to one image held in memory and report
the average time and allocation per call. Without an image a synthetic
gradient of --width x --height is used. Without operation flags one
operation of every kind is measured.

Examples:
  imgproc bench
  imgproc bench photo.jpg --iterations 50
  imgproc bench --width 4000 --height 3000 --blur 9 --sharpen`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if iterations < 1 {
				return fmt.Errorf("iterations must be at least 1, got %d", iterations)
			}

			var (
				src *raster.Buffer
				err error
			)
			if len(args) == 1 {
				src, _, err = imageio.Load(args[0])
			} else {
				src, err = benchmark.SyntheticBuffer(width, height)
			}
			if err != nil {
				return err
			}

			req := benchmark.DefaultOperations(src.Width, src.Height)
			if len(tokens) > 0 {
				if req, err = ops.ParseRequest(tokens); err != nil {
					return fmt.Errorf("invalid operations: %w", err)
				}
			}

			a.logger.Debug("benchmark started", "source", src.String(), "operations", req.String(), "iterations", iterations)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Source: %s, %d iterations per operation\n\n", src, iterations)

			results := benchmark.OperationSuite(src, req).RunAll(iterations)
			if err := benchmark.WriteResults(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			for _, r := range results {
				if r.Error != nil {
					return fmt.Errorf("operation %s failed: %w", r.Name, r.Error)
				}
			}
			return nil
		},
	}

	flags := benchCmd.Flags()
	addOperationFlags(flags, &tokens)
	flags.IntVarP(&iterations, "iterations", "n", 10, "iterations per operation")
	flags.IntVar(&width, "width", 1024, "width of the synthetic source")
	flags.IntVar(&height, "height", 768, "height of the synthetic source")

	return benchCmd
}
