// Package report renders the results of compress and sweep runs: a YAML run
// summary, a plain text sweep table and a drop-rate chart.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fftcompress/pkg/compression"
)

// SweepChart draws drop rate against tolerance on the left axis and PSNR on
// the right axis, and writes it to w as a PNG.
func SweepChart(points []compression.SweepPoint, title string, w io.Writer) error {
	if len(points) < 2 {
		return errors.New("need at least two sweep points to draw a chart")
	}

	var xvalues, drops []float64
	var psnrX, psnrY []float64
	for _, p := range points {
		xvalues = append(xvalues, p.Tolerance)
		drops = append(drops, p.DropRate*100)
		// a lossless point has infinite PSNR and cannot be plotted
		if !math.IsInf(p.Metrics.PSNR, 0) && !math.IsNaN(p.Metrics.PSNR) {
			psnrX = append(psnrX, p.Tolerance)
			psnrY = append(psnrY, p.Metrics.PSNR)
		}
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Drop rate (%)",
			XValues: xvalues,
			YValues: drops,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				StrokeWidth: 2,
			},
		},
	}
	if len(psnrX) >= 2 {
		series = append(series, chart.ContinuousSeries{
			Name:    "PSNR (dB)",
			YAxis:   chart.YAxisSecondary,
			XValues: psnrX,
			YValues: psnrY,
			Style: chart.Style{
				StrokeColor:     drawing.ColorRed,
				StrokeDashArray: []float64{5.0, 5.0},
				StrokeWidth:     2,
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1200,
		Height: 600,
		XAxis: chart.XAxis{
			Name: "Tolerance",
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.3f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Drop rate (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		YAxisSecondary: chart.YAxis{
			Name: "PSNR (dB)",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
