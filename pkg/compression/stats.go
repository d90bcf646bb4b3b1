package compression

import "errors"

// ErrZeroDivision is returned by Stats.Finalize when no tile had a nonzero
// coefficient, which only happens for an all-zero raster.
var ErrZeroDivision = errors.New("drop rate undefined: no nonzero coefficients before thresholding")

// Stats accumulates nonzero coefficient counts across tiles.
// The zero value is ready to use.
type Stats struct {
	before int
	after  int
}

// Accumulate adds one tile's counts.
func (s *Stats) Accumulate(before, after int) {
	s.before += before
	s.after += after
}

// Before returns the running total of nonzero coefficients before thresholding.
func (s *Stats) Before() int { return s.before }

// After returns the running total of nonzero coefficients after thresholding.
func (s *Stats) After() int { return s.after }

// Finalize returns the fraction of nonzero coefficients removed by
// thresholding.
func (s *Stats) Finalize() (float64, error) {
	if s.before == 0 {
		return 0, ErrZeroDivision
	}
	return float64(s.before-s.after) / float64(s.before), nil
}
