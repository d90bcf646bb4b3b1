package imageio

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// createTestImage creates an RGBA test image with the specified dimensions and pattern
func createTestImage(width, height int, pattern func(x, y int) color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, pattern(x, y))
		}
	}
	return img
}

func TestToRasterLuminance(t *testing.T) {
	img := createTestImage(3, 1, func(x, y int) color.Color {
		switch x {
		case 0:
			return color.NRGBA{R: 255, A: 255}
		case 1:
			return color.NRGBA{G: 255, A: 255}
		default:
			return color.NRGBA{B: 255, A: 255}
		}
	})

	raster, err := ToRaster(img)
	require.NoError(t, err)

	// ITU-R 601: 0.299, 0.587, 0.114
	assert.InDelta(t, 76, raster.At(0, 0), 1)
	assert.InDelta(t, 150, raster.At(0, 1), 1)
	assert.InDelta(t, 29, raster.At(0, 2), 1)
}

func TestToRasterHonoursBoundsOrigin(t *testing.T) {
	img := image.NewGray(image.Rect(10, 20, 14, 22))
	img.SetGray(10, 20, color.Gray{Y: 9})
	img.SetGray(13, 21, color.Gray{Y: 200})

	raster, err := ToRaster(img)
	require.NoError(t, err)

	r, c := raster.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 9.0, raster.At(0, 0))
	assert.Equal(t, 200.0, raster.At(1, 3))
}

func TestToImageRoundsAndClamps(t *testing.T) {
	raster := mat.NewDense(1, 5, []float64{-12.3, 3.49, 3.5, 254.6, 1e9})
	raster.Set(0, 0, math.NaN())

	img, err := ToImage(raster)
	require.NoError(t, err)

	want := []uint8{0, 3, 4, 255, 255}
	for x, w := range want {
		assert.Equal(t, w, img.GrayAt(x, 0).Y, "pixel %d", x)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	raster := mat.NewDense(40, 70, nil)
	for y := 0; y < 40; y++ {
		for x := 0; x < 70; x++ {
			raster.Set(y, x, float64((x*3+y*5)%256))
		}
	}

	for _, ext := range []string{".png", ".bmp", ".tif"} {
		path := filepath.Join(t.TempDir(), "round"+ext)
		require.NoError(t, Save(path, raster), ext)

		loaded, err := Load(path)
		require.NoError(t, err, ext)
		assert.True(t, mat.Equal(raster, loaded), ext)
	}
}

func TestSaveUnknownExtension(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "out.xyz"), mat.NewDense(2, 2, nil))
	assert.ErrorIs(t, err, imaging.ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("photos", "compressed_cat.png"), OutputPath(filepath.Join("photos", "cat.png"), "", "compressed_"))
	assert.Equal(t, filepath.Join("out", "c_cat.png"), OutputPath(filepath.Join("photos", "cat.png"), "out", "c_"))
	assert.Equal(t, "compressed_cat.png", OutputPath("cat.png", "", "compressed_"))
}
