// Package compression drives the block-wise Fourier compression of a
// grayscale raster: every 32x32 tile is transformed, its weak AC coefficients
// are discarded and the tile is rebuilt from what is left.
//
// Nothing in this package prints or logs; all failures come back as errors.
package compression

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"fftcompress/pkg/spectral"
	"fftcompress/pkg/threshold"
	"fftcompress/pkg/tiling"
)

// Params holds the compression parameters for one invocation.
type Params struct {
	// Tolerance is the fraction of each tile's peak AC magnitude below which
	// coefficients are discarded. It is conventionally in (0, 1) but is not
	// checked here.
	Tolerance float64

	// NumWorkers is the number of goroutines transforming tiles in parallel.
	// Values below 1 fall back to runtime.NumCPU().
	NumWorkers int

	// Metrics enables the quality comparison between the cropped input and
	// the reconstruction.
	Metrics bool
}

// DefaultParams returns the stock tolerance with one worker per CPU.
func DefaultParams() *Params {
	return &Params{
		Tolerance:  threshold.DefaultTolerance,
		NumWorkers: runtime.NumCPU(),
	}
}

// Result is the outcome of compressing one raster.
type Result struct {
	// Raster is the reconstructed image, cropped to whole tiles
	Raster *mat.Dense

	// DropRate is the fraction of nonzero coefficients removed, DC included
	// in both totals
	DropRate float64

	// Before and After are the nonzero coefficient totals across all tiles
	Before int
	After  int

	// Grid is the tiling that was applied
	Grid tiling.Grid

	// Metrics is set when Params.Metrics is enabled
	Metrics *QualityMetrics
}

// Compressor runs the tile pipeline over a worker pool.
//
// The output is identical, bit for bit, to the sequential Compress function:
// tiles never overlap, each worker owns its own transform, and the per-tile
// counts are folded in row-major order once every tile is done.
type Compressor struct {
	params *Params
}

// NewCompressor creates a compressor with the provided parameters.
//
// Parameters:
//   - params: compression configuration; nil means DefaultParams()
//
// Returns:
//   - A new Compressor instance
func NewCompressor(params *Params) *Compressor {
	if params == nil {
		params = DefaultParams()
	}
	return &Compressor{params: params}
}

// Params returns the parameters the compressor was built with.
func (c *Compressor) Params() Params { return *c.params }

// Compress is the reference sequential implementation: tiles are processed
// one after another in row-major order.
//
// It returns a *tiling.DimensionError before touching any tile when the
// raster is smaller than one tile, and ErrZeroDivision when the cropped
// raster is entirely zero.
func Compress(raster mat.Matrix, tolerance float64) (*mat.Dense, float64, error) {
	grid := tiling.GridOf(raster)
	if err := grid.Validate(); err != nil {
		return nil, 0, err
	}

	out := mat.NewDense(grid.Rows(), grid.Cols(), nil)
	t := spectral.NewTransform(tiling.BlockSize)

	var stats Stats
	for _, coord := range grid.Tiles() {
		before, after, err := processTile(t, grid, raster, out, coord, tolerance)
		if err != nil {
			return nil, 0, err
		}
		stats.Accumulate(before, after)
	}

	drop, err := stats.Finalize()
	if err != nil {
		return nil, 0, err
	}
	return out, drop, nil
}

// Compress runs the tile pipeline over raster with the configured worker
// pool and returns the reconstruction together with its statistics.
func (c *Compressor) Compress(raster mat.Matrix) (*Result, error) {
	grid := tiling.GridOf(raster)
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	out := mat.NewDense(grid.Rows(), grid.Cols(), nil)
	coords := grid.Tiles()

	type tileCounts struct {
		before, after int
	}
	counts := make([]tileCounts, len(coords))

	numWorkers := c.params.NumWorkers
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(coords) {
		numWorkers = len(coords)
	}

	jobs := make(chan int)
	errs := make([]error, numWorkers)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			t := spectral.NewTransform(tiling.BlockSize)
			for idx := range jobs {
				// keep draining after a failure so the feeder never blocks
				if errs[workerID] != nil {
					continue
				}
				before, after, err := processTile(t, grid, raster, out, coords[idx], c.params.Tolerance)
				if err != nil {
					errs[workerID] = err
					continue
				}
				counts[idx] = tileCounts{before: before, after: after}
			}
		}(w)
	}

	for idx := range coords {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	var stats Stats
	for _, tc := range counts {
		stats.Accumulate(tc.before, tc.after)
	}
	drop, err := stats.Finalize()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Raster:   out,
		DropRate: drop,
		Before:   stats.Before(),
		After:    stats.After(),
		Grid:     grid,
	}
	if c.params.Metrics {
		m := Measure(Crop(raster, grid), out)
		res.Metrics = &m
	}
	return res, nil
}

// processTile pushes one tile through forward transform, thresholding and
// reconstruction, writing the result into dst.
func processTile(t *spectral.Transform, grid tiling.Grid, src mat.Matrix, dst *mat.Dense, coord tiling.Coord, tolerance float64) (int, int, error) {
	tile, err := grid.Extract(src, coord.Row, coord.Col)
	if err != nil {
		return 0, 0, err
	}

	spectrum, err := t.Forward(tile)
	if err != nil {
		return 0, 0, fmt.Errorf("forward transform of tile (%d,%d): %w", coord.Row, coord.Col, err)
	}

	before, after := threshold.Apply(spectrum, tolerance)

	block, err := reconstruct(t, spectrum)
	if err != nil {
		return 0, 0, fmt.Errorf("inverse transform of tile (%d,%d): %w", coord.Row, coord.Col, err)
	}

	if err := grid.Place(dst, coord.Row, coord.Col, block); err != nil {
		return 0, 0, err
	}
	return before, after, nil
}

// Crop returns the part of raster covered by grid. For a *mat.Dense the
// result is a view.
func Crop(raster mat.Matrix, grid tiling.Grid) mat.Matrix {
	if s, ok := raster.(tiling.Slicer); ok {
		return s.Slice(0, grid.Rows(), 0, grid.Cols())
	}
	out := mat.NewDense(grid.Rows(), grid.Cols(), nil)
	for y := 0; y < grid.Rows(); y++ {
		for x := 0; x < grid.Cols(); x++ {
			out.Set(y, x, raster.At(y, x))
		}
	}
	return out
}
