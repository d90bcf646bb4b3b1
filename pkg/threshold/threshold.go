// Package threshold zeroes the weak AC coefficients of a tile spectrum.
//
// The cutoff is adaptive per tile: it is the tile's strongest AC magnitude
// scaled by the tolerance. The DC term never takes part in the decision and
// is always kept as is.
package threshold

import "fftcompress/pkg/spectral"

// DefaultTolerance is the fraction of the peak AC magnitude below which
// coefficients are discarded.
const DefaultTolerance = 0.0605

// MaxAC returns the largest coefficient magnitude in s, DC excluded.
// A 1x1 spectrum has no AC terms and yields 0.
func MaxAC(s *spectral.Spectrum) float64 {
	n := s.Size()
	max := 0.0
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u == 0 && v == 0 {
				continue
			}
			if m := s.Magnitude(u, v); m > max {
				max = m
			}
		}
	}
	return max
}

// Cutoff returns the magnitude a coefficient of s must exceed to survive.
func Cutoff(s *spectral.Spectrum, tolerance float64) float64 {
	return MaxAC(s) * tolerance
}

// Apply thresholds s in place and returns the number of nonzero coefficients
// before and after. Both counts cover the whole spectrum including DC.
//
// A coefficient is kept only when its magnitude is strictly greater than the
// cutoff, so a coefficient sitting exactly on the cutoff is zeroed. When every
// AC term is already zero the cutoff is zero and nothing changes.
func Apply(s *spectral.Spectrum, tolerance float64) (before, after int) {
	dc := s.DC()
	before = s.NonZero()

	cutoff := Cutoff(s, tolerance)
	n := s.Size()
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u == 0 && v == 0 {
				continue
			}
			if !(s.Magnitude(u, v) > cutoff) {
				s.Set(u, v, 0)
			}
		}
	}

	s.Set(0, 0, dc)
	after = s.NonZero()
	return before, after
}
