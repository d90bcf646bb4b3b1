package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fftcompress/internal/logging"
	"fftcompress/internal/models"
	"fftcompress/pkg/compression"
	"fftcompress/pkg/config"
	"fftcompress/pkg/imageio"
	"fftcompress/pkg/report"
)

// NewCompressCmd compresses every file named on the command line
func NewCompressCmd(ctx context.Context, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compress FILE...",
		Short: "compress image files",
		Long:  "Convert each image to grayscale, compress it tile by tile and write the result next to the input with a prefix.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			applyCompressFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if cfg.Output.Dir != "" {
				if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			runner := NewRunner(cfg, cmd.OutOrStdout())
			results := runner.Run(ctx, args)

			if summaryPath, _ := cmd.Flags().GetString("summary"); summaryPath != "" {
				if err := writeSummary(summaryPath, results); err != nil {
					return err
				}
			}

			summary := models.Summarize(results)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", summary.Failed, len(args))
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64P("tolerance", "t", 0, "fraction of each tile's peak AC magnitude below which coefficients are dropped")
	f.IntP("workers", "w", 0, "number of goroutines transforming tiles")
	f.String("prefix", "", "prefix for output file names")
	f.StringP("out-dir", "o", "", "directory for outputs (default: next to each input)")
	f.Bool("metrics", false, "report RMSE, PSNR and SSIM for each file")
	f.String("summary", "", "write a YAML run summary to this file")
	return cmd
}

func applyCompressFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("tolerance") {
		cfg.Compression.Tolerance, _ = f.GetFloat64("tolerance")
	}
	if f.Changed("workers") {
		cfg.Compression.NumWorkers, _ = f.GetInt("workers")
	}
	if f.Changed("prefix") {
		cfg.Output.Prefix, _ = f.GetString("prefix")
	}
	if f.Changed("out-dir") {
		cfg.Output.Dir, _ = f.GetString("out-dir")
	}
	if f.Changed("metrics") {
		cfg.Output.Metrics, _ = f.GetBool("metrics")
	}
}

func writeSummary(path string, results []models.FileResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()
	if err := report.WriteSummary(f, results); err != nil {
		return err
	}
	return f.Close()
}

// Runner is the file loop: it loads, compresses and saves one file at a
// time. A failing file is reported and the loop moves on.
type Runner struct {
	cfg        *config.Config
	compressor *compression.Compressor
	out        io.Writer
}

// NewRunner creates a runner printing user-facing lines to out.
func NewRunner(cfg *config.Config, out io.Writer) *Runner {
	return &Runner{
		cfg: cfg,
		compressor: compression.NewCompressor(&compression.Params{
			Tolerance:  cfg.Compression.Tolerance,
			NumWorkers: cfg.Compression.NumWorkers,
			Metrics:    cfg.Output.Metrics,
		}),
		out: out,
	}
}

// Run processes paths in order and returns one result per file attempted.
// Files left after the context is cancelled are not attempted.
func (r *Runner) Run(ctx context.Context, paths []string) []models.FileResult {
	results := make([]models.FileResult, 0, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "interrupted, skipping remaining files", "remaining", len(paths)-len(results))
			break
		}
		res := r.CompressFile(ctx, path)
		if !res.Succeeded() {
			fmt.Fprintln(r.out, res.Error)
		}
		results = append(results, res)
	}
	return results
}

// CompressFile runs the whole pipeline for one input file.
func (r *Runner) CompressFile(ctx context.Context, path string) models.FileResult {
	res := models.FileResult{
		RunID:     uuid.NewString(),
		Input:     path,
		Tolerance: r.cfg.Compression.Tolerance,
	}
	ctx = logging.AppendCtx(ctx, slog.String("run", res.RunID))
	ctx = logging.AppendCtx(ctx, slog.String("file", path))
	start := time.Now()

	fail := func(stage string, err error) models.FileResult {
		res.Error = fmt.Sprintf("%s: %v", path, err)
		res.Elapsed = time.Since(start)
		slog.ErrorContext(ctx, stage+" failed", "error", err)
		return res
	}

	raster, err := imageio.Load(path)
	if err != nil {
		return fail("load", err)
	}
	res.Height, res.Width = raster.Dims()
	slog.DebugContext(ctx, "loaded", "width", res.Width, "height", res.Height)

	out, err := r.compressor.Compress(raster)
	if err != nil {
		return fail("compress", err)
	}
	res.CroppedHeight, res.CroppedWidth = out.Raster.Dims()
	res.DropRate = out.DropRate
	res.Before = out.Before
	res.After = out.After
	res.Metrics = out.Metrics

	outPath := imageio.OutputPath(path, r.cfg.Output.Dir, r.cfg.Output.Prefix)
	if err := imageio.Save(outPath, out.Raster); err != nil {
		return fail("save", err)
	}
	res.Output = outPath
	res.Elapsed = time.Since(start)

	fmt.Fprintf(r.out, "Success! %s compressed with a drop rate of %.2f\n", path, res.DropRate)
	attrs := []any{
		"output", outPath,
		"drop_rate", res.DropRate,
		"before", res.Before,
		"after", res.After,
		"cropped", fmt.Sprintf("%dx%d", res.CroppedWidth, res.CroppedHeight),
		"elapsed", res.Elapsed,
	}
	if res.Metrics != nil {
		attrs = append(attrs, "rmse", res.Metrics.RMSE, "psnr", res.Metrics.PSNR, "ssim", res.Metrics.SSIM)
		fmt.Fprintf(r.out, "  RMSE %.3f  PSNR %.2f dB  SSIM %.4f\n", res.Metrics.RMSE, res.Metrics.PSNR, res.Metrics.SSIM)
	}
	slog.InfoContext(ctx, "compressed", attrs...)
	return res
}
