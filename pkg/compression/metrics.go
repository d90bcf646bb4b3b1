package compression

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PeakIntensity is the dynamic range of an 8-bit luminance raster.
const PeakIntensity = 255.0

// QualityMetrics describes how far a reconstruction is from its source.
type QualityMetrics struct {
	// RMSE (Root Mean Square Error) between original and reconstructed
	// intensities. Lower is better.
	RMSE float64 `yaml:"rmse"`

	// PSNR is the peak signal-to-noise ratio in dB against PeakIntensity.
	// It is +Inf for a perfect reconstruction.
	PSNR float64 `yaml:"psnr"`

	// SSIM (Structural Similarity Index) computed globally over the whole
	// raster. 1 means identical.
	SSIM float64 `yaml:"ssim"`

	// MaxAbsError is the largest per-pixel deviation.
	MaxAbsError float64 `yaml:"maxAbsError"`
}

// Measure compares original and reconstructed, which must have the same
// dimensions.
func Measure(original, reconstructed mat.Matrix) QualityMetrics {
	x := flatten(original)
	y := flatten(reconstructed)

	rmse := calculateRMSE(x, y)
	return QualityMetrics{
		RMSE:        rmse,
		PSNR:        calculatePSNR(rmse),
		SSIM:        calculateSSIM(x, y),
		MaxAbsError: floats.Distance(x, y, math.Inf(1)),
	}
}

func flatten(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}

// calculateRMSE computes the root mean square error
func calculateRMSE(original, reconstructed []float64) float64 {
	n := len(original)
	if n != len(reconstructed) || n == 0 {
		return 0
	}

	mse := 0.0
	for i := 0; i < n; i++ {
		diff := original[i] - reconstructed[i]
		mse += diff * diff
	}
	mse /= float64(n)

	return math.Sqrt(mse)
}

func calculatePSNR(rmse float64) float64 {
	if rmse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(PeakIntensity/rmse)
}

// calculateSSIM computes the Structural Similarity Index
func calculateSSIM(original, reconstructed []float64) float64 {
	const k1 = 0.01
	const k2 = 0.03

	c1 := (k1 * PeakIntensity) * (k1 * PeakIntensity)
	c2 := (k2 * PeakIntensity) * (k2 * PeakIntensity)

	n := len(original)
	if n != len(reconstructed) || n < 2 {
		return 0
	}

	muX := stat.Mean(original, nil)
	muY := stat.Mean(reconstructed, nil)

	sigmaX := stat.Variance(original, nil)
	sigmaY := stat.Variance(reconstructed, nil)
	sigmaXY := stat.Covariance(original, reconstructed, nil)

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)

	if den > 0 {
		return num / den
	}
	return 0
}
