package compression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SweepPoint is the outcome of compressing one raster at one tolerance.
type SweepPoint struct {
	Tolerance float64        `yaml:"tolerance"`
	DropRate  float64        `yaml:"dropRate"`
	Before    int            `yaml:"before"`
	After     int            `yaml:"after"`
	Metrics   QualityMetrics `yaml:"metrics"`
}

// Sweep compresses raster once per tolerance, using the compressor's worker
// count, and reports drop rate and quality for each. The points come back in
// the order of tolerances.
func (c *Compressor) Sweep(raster mat.Matrix, tolerances []float64) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(tolerances))
	for _, tol := range tolerances {
		params := *c.params
		params.Tolerance = tol
		params.Metrics = true

		res, err := NewCompressor(&params).Compress(raster)
		if err != nil {
			return nil, fmt.Errorf("tolerance %g: %w", tol, err)
		}
		points = append(points, SweepPoint{
			Tolerance: tol,
			DropRate:  res.DropRate,
			Before:    res.Before,
			After:     res.After,
			Metrics:   *res.Metrics,
		})
	}
	return points, nil
}
