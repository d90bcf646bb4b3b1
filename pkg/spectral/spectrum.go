package spectral

import "math/cmplx"

// Spectrum holds the complex Fourier coefficients of a square tile in
// row-major order. Index (0,0) is the DC term.
type Spectrum struct {
	n    int
	data []complex128
}

// NewSpectrum allocates a zeroed n x n spectrum.
func NewSpectrum(n int) *Spectrum {
	return &Spectrum{n: n, data: make([]complex128, n*n)}
}

// Size returns the edge length of the spectrum.
func (s *Spectrum) Size() int { return s.n }

// At returns the coefficient at frequency row u, column v.
func (s *Spectrum) At(u, v int) complex128 { return s.data[u*s.n+v] }

// Set stores c at frequency row u, column v.
func (s *Spectrum) Set(u, v int, c complex128) { s.data[u*s.n+v] = c }

// DC returns the zero-frequency coefficient.
func (s *Spectrum) DC() complex128 { return s.data[0] }

// Magnitude returns |s[u,v]|. All threshold decisions go through here so the
// comparison always uses the same hypot path.
func (s *Spectrum) Magnitude(u, v int) float64 { return cmplx.Abs(s.At(u, v)) }

// NonZero counts the coefficients with a nonzero magnitude, DC included.
func (s *Spectrum) NonZero() int {
	count := 0
	for _, c := range s.data {
		if cmplx.Abs(c) > 0 {
			count++
		}
	}
	return count
}

// Coefficients exposes the backing row-major slice.
func (s *Spectrum) Coefficients() []complex128 { return s.data }

// Clone returns a deep copy of s.
func (s *Spectrum) Clone() *Spectrum {
	c := NewSpectrum(s.n)
	copy(c.data, s.data)
	return c
}
