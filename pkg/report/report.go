package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"fftcompress/internal/models"
	"fftcompress/pkg/compression"
)

// WriteSummary encodes the results of a compress run as YAML.
func WriteSummary(w io.Writer, results []models.FileResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(models.Summarize(results)); err != nil {
		return fmt.Errorf("error encoding summary: %w", err)
	}
	return enc.Close()
}

// WriteSweepTable prints one aligned row per sweep point.
func WriteSweepTable(w io.Writer, points []compression.SweepPoint) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "tolerance\tdrop rate\tkept\tRMSE\tPSNR (dB)\tSSIM\t")
	for _, p := range points {
		fmt.Fprintf(tw, "%.4f\t%.4f\t%d/%d\t%.3f\t%s\t%.4f\t\n",
			p.Tolerance, p.DropRate, p.After, p.Before,
			p.Metrics.RMSE, formatPSNR(p.Metrics.PSNR), p.Metrics.SSIM)
	}
	return tw.Flush()
}

func formatPSNR(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}
