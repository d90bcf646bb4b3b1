// Package tiling splits a raster into the fixed-size square blocks that the
// compressor transforms independently. Rows and columns that do not fill a
// complete block are cropped away.
package tiling

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BlockSize is the edge length of a tile in pixels.
const BlockSize = 32

var (
	// ErrNoTiles is matched by a DimensionError.
	ErrNoTiles = errors.New("raster smaller than one tile")

	// ErrOutOfRange is matched by an OutOfRangeError.
	ErrOutOfRange = errors.New("tile outside grid")
)

// DimensionError reports a raster that cannot hold a single tile.
type DimensionError struct {
	Rows, Cols int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("raster %dx%d is smaller than one %dx%d tile", e.Rows, e.Cols, BlockSize, BlockSize)
}

func (e *DimensionError) Is(target error) bool { return target == ErrNoTiles }

// OutOfRangeError reports a tile coordinate outside the grid.
type OutOfRangeError struct {
	Row, Col             int
	BlockRows, BlockCols int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("tile (%d,%d) outside %dx%d grid", e.Row, e.Col, e.BlockRows, e.BlockCols)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// Grid describes how a raster of a given size is divided into tiles.
type Grid struct {
	// BlockRows is the number of complete tiles along the vertical axis
	BlockRows int

	// BlockCols is the number of complete tiles along the horizontal axis
	BlockCols int

	// dimensions of the source raster before cropping
	rows, cols int
}

// Coord identifies a tile by its block row and block column.
type Coord struct {
	Row, Col int
}

// NewGrid derives the cropped tiling grid for a rows x cols raster.
func NewGrid(rows, cols int) Grid {
	return Grid{
		BlockRows: rows / BlockSize,
		BlockCols: cols / BlockSize,
		rows:      rows,
		cols:      cols,
	}
}

// GridOf is NewGrid applied to the dimensions of m.
func GridOf(m mat.Matrix) Grid {
	r, c := m.Dims()
	return NewGrid(r, c)
}

// Validate returns a *DimensionError when the grid holds no tiles.
func (g Grid) Validate() error {
	if g.BlockRows == 0 || g.BlockCols == 0 {
		return &DimensionError{Rows: g.rows, Cols: g.cols}
	}
	return nil
}

// Rows returns the height of the cropped raster.
func (g Grid) Rows() int { return g.BlockRows * BlockSize }

// Cols returns the width of the cropped raster.
func (g Grid) Cols() int { return g.BlockCols * BlockSize }

// Len returns the number of tiles in the grid.
func (g Grid) Len() int { return g.BlockRows * g.BlockCols }

// Tiles returns every tile coordinate in row-major order.
func (g Grid) Tiles() []Coord {
	coords := make([]Coord, 0, g.Len())
	for i := 0; i < g.BlockRows; i++ {
		for j := 0; j < g.BlockCols; j++ {
			coords = append(coords, Coord{Row: i, Col: j})
		}
	}
	return coords
}

// Index returns the row-major position of tile (i, j).
func (g Grid) Index(i, j int) int { return i*g.BlockCols + j }

// Slicer is implemented by matrices that can return a view of a
// sub-region, such as *mat.Dense.
type Slicer interface {
	Slice(i, k, j, l int) mat.Matrix
}

func (g Grid) check(m mat.Matrix, i, j int) error {
	if i < 0 || j < 0 || i >= g.BlockRows || j >= g.BlockCols {
		return &OutOfRangeError{Row: i, Col: j, BlockRows: g.BlockRows, BlockCols: g.BlockCols}
	}
	if r, c := m.Dims(); r < g.Rows() || c < g.Cols() {
		return fmt.Errorf("raster %dx%d does not cover %dx%d grid: %w", r, c, g.BlockRows, g.BlockCols, ErrOutOfRange)
	}
	return nil
}

// Extract returns the BlockSize x BlockSize sub-matrix of raster at tile
// (i, j). When raster is a *mat.Dense the result is a view sharing its
// storage; callers must not write through it.
func (g Grid) Extract(raster mat.Matrix, i, j int) (mat.Matrix, error) {
	if err := g.check(raster, i, j); err != nil {
		return nil, err
	}
	r0, c0 := i*BlockSize, j*BlockSize
	if s, ok := raster.(Slicer); ok {
		return s.Slice(r0, r0+BlockSize, c0, c0+BlockSize), nil
	}
	block := mat.NewDense(BlockSize, BlockSize, nil)
	for y := 0; y < BlockSize; y++ {
		for x := 0; x < BlockSize; x++ {
			block.Set(y, x, raster.At(r0+y, c0+x))
		}
	}
	return block, nil
}

// Place copies block into dst at tile (i, j).
func (g Grid) Place(dst *mat.Dense, i, j int, block mat.Matrix) error {
	if err := g.check(dst, i, j); err != nil {
		return err
	}
	if r, c := block.Dims(); r != BlockSize || c != BlockSize {
		return fmt.Errorf("block is %dx%d, want %dx%d", r, c, BlockSize, BlockSize)
	}
	r0, c0 := i*BlockSize, j*BlockSize
	view := dst.Slice(r0, r0+BlockSize, c0, c0+BlockSize).(*mat.Dense)
	view.Copy(block)
	return nil
}
