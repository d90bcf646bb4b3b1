package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fftcompress/pkg/compression"
	"fftcompress/pkg/imageio"
	"fftcompress/pkg/report"
)

// NewSweepCmd compresses one file at a range of tolerances and reports how
// drop rate and quality trade off.
func NewSweepCmd(ctx context.Context, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep FILE",
		Short: "tabulate drop rate and quality across tolerances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			f := cmd.Flags()
			if f.Changed("tolerances") {
				cfg.Sweep.Tolerances, _ = f.GetFloat64Slice("tolerances")
			}
			if f.Changed("chart") {
				cfg.Sweep.ChartFile, _ = f.GetString("chart")
			}
			if f.Changed("workers") {
				cfg.Compression.NumWorkers, _ = f.GetInt("workers")
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			path := args[0]
			raster, err := imageio.Load(path)
			if err != nil {
				return err
			}

			c := compression.NewCompressor(&compression.Params{NumWorkers: cfg.Compression.NumWorkers})
			points, err := c.Sweep(raster, cfg.Sweep.Tolerances)
			if err != nil {
				return fmt.Errorf("sweep of %s failed: %w", path, err)
			}
			if err := report.WriteSweepTable(cmd.OutOrStdout(), points); err != nil {
				return err
			}

			if cfg.Sweep.ChartFile == "" {
				return nil
			}
			out, err := os.Create(cfg.Sweep.ChartFile)
			if err != nil {
				return fmt.Errorf("failed to create chart file: %w", err)
			}
			defer out.Close()
			if err := report.SweepChart(points, filepath.Base(path), out); err != nil {
				return fmt.Errorf("failed to render chart: %w", err)
			}
			slog.InfoContext(ctx, "sweep chart written", "path", cfg.Sweep.ChartFile, "points", len(points))
			return out.Close()
		},
	}
	f := cmd.Flags()
	f.Float64Slice("tolerances", nil, "comma separated tolerances to try (default from config)")
	f.String("chart", "", "render the sweep as a PNG chart to this file")
	f.IntP("workers", "w", 0, "number of goroutines transforming tiles")
	return cmd
}
