// Package imageio moves rasters between image files and intensity matrices.
//
// Rasters hold 8-bit luminance values in [0, 255] as float64. Loading
// converts colour images with the ITU-R 601 luma weights; saving rounds and
// clamps back to 8 bits.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"

	// webp is decode-only; imaging already covers png, jpeg, gif, bmp and tiff
	_ "golang.org/x/image/webp"
)

// Load reads an image file and returns its luminance as a raster.
//
// Parameters:
//   - path: any image format registered with the image package
//
// Returns:
//   - A height x width raster of intensities in [0, 255]
func Load(path string) (*mat.Dense, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	raster, err := ToRaster(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image %s: %w", path, err)
	}
	return raster, nil
}

// Save writes raster as a single-channel image. The format follows the file
// extension (png, jpg, jpeg, gif, tif, tiff, bmp).
func Save(path string, raster mat.Matrix) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("cannot save %s: %w", path, err)
	}
	img, err := ToImage(raster)
	if err != nil {
		return fmt.Errorf("cannot save %s: %w", path, err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// ToRaster converts an image to its luminance raster.
func ToRaster(img image.Image) (*mat.Dense, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image is empty (%dx%d)", width, height)
	}

	raster := mat.NewDense(height, width, nil)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			raster.Set(y, x, float64(g.Y))
		}
	}
	return raster, nil
}

// ToImage converts a raster back to an 8-bit grayscale image, rounding to
// the nearest level and clamping to [0, 255]. NaN maps to 0.
func ToImage(raster mat.Matrix) (*image.Gray, error) {
	height, width := raster.Dims()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("raster is empty (%dx%d)", height, width)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: toLevel(raster.At(y, x))})
		}
	}
	return img, nil
}

func toLevel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// OutputPath names the output for input: prefix + base name, placed in dir
// or, when dir is empty, next to the input.
func OutputPath(input, dir, prefix string) string {
	base := prefix + filepath.Base(input)
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}
