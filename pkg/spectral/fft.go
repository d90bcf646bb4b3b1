// Package spectral implements the forward and inverse 2D discrete Fourier
// transform over square tiles.
package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// Transform computes 2D DFTs of n x n tiles using separable 1D FFTs along
// rows and then columns.
//
// The forward transform is unnormalized (the DC term is the sum of the tile)
// and the inverse carries the 1/n² factor, matching the usual fft2/ifft2 pair.
//
// A Transform keeps FFT work buffers and must not be shared between
// goroutines.
type Transform struct {
	n   int
	fft *fourier.CmplxFFT

	// scratch lines for one row or column
	in  []complex128
	out []complex128
}

// NewTransform creates a transform for n x n tiles.
func NewTransform(n int) *Transform {
	return &Transform{
		n:   n,
		fft: fourier.NewCmplxFFT(n),
		in:  make([]complex128, n),
		out: make([]complex128, n),
	}
}

// Size returns the tile edge length this transform was built for.
func (t *Transform) Size() int { return t.n }

// Forward computes the 2D DFT of a real tile.
//
// Parameters:
//   - tile: an n x n matrix of real samples
//
// Returns:
//   - The spectrum of the tile, or an error if the tile is not n x n
func (t *Transform) Forward(tile mat.Matrix) (*Spectrum, error) {
	if r, c := tile.Dims(); r != t.n || c != t.n {
		return nil, fmt.Errorf("tile is %dx%d, transform expects %dx%d", r, c, t.n, t.n)
	}
	s := NewSpectrum(t.n)

	// Row pass
	for y := 0; y < t.n; y++ {
		for x := 0; x < t.n; x++ {
			t.in[x] = complex(tile.At(y, x), 0)
		}
		t.fft.Coefficients(t.out, t.in)
		copy(s.data[y*t.n:(y+1)*t.n], t.out)
	}

	// Column pass over the row spectra
	t.columns(s, t.fft.Coefficients)

	return s, nil
}

// Inverse computes the inverse 2D DFT of s and returns its real component.
// The imaginary residue left by floating-point round-off is dropped.
func (t *Transform) Inverse(s *Spectrum) (*mat.Dense, error) {
	if s.n != t.n {
		return nil, fmt.Errorf("spectrum is %dx%d, transform expects %dx%d", s.n, s.n, t.n, t.n)
	}
	work := s.Clone()

	t.columns(work, t.fft.Sequence)

	// gonum's Sequence is unnormalized along each axis
	norm := float64(t.n * t.n)
	result := mat.NewDense(t.n, t.n, nil)
	for y := 0; y < t.n; y++ {
		copy(t.in, work.data[y*t.n:(y+1)*t.n])
		t.fft.Sequence(t.out, t.in)
		for x := 0; x < t.n; x++ {
			result.Set(y, x, real(t.out[x])/norm)
		}
	}
	return result, nil
}

// columns applies a 1D transform to every column of s in place.
func (t *Transform) columns(s *Spectrum, apply func(dst, src []complex128) []complex128) {
	for x := 0; x < t.n; x++ {
		for y := 0; y < t.n; y++ {
			t.in[y] = s.data[y*t.n+x]
		}
		apply(t.out, t.in)
		for y := 0; y < t.n; y++ {
			s.data[y*t.n+x] = t.out[y]
		}
	}
}
