package compression

import (
	"gonum.org/v1/gonum/mat"

	"fftcompress/pkg/spectral"
)

// reconstruct turns a thresholded spectrum back into spatial intensities.
// Values are the raw real part of the inverse transform; no clamping or
// rounding is applied here, that belongs to whoever writes pixels out.
func reconstruct(t *spectral.Transform, s *spectral.Spectrum) (*mat.Dense, error) {
	return t.Inverse(s)
}
