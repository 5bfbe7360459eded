package pipeline

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// scaleEpsilon is how close to 1.0 a factor must be to skip resampling.
const scaleEpsilon = 0.001

// Resize scales img by factor, rounding each dimension to the nearest
// pixel (minimum 1). Factors within scaleEpsilon of 1.0 return img unchanged.
func Resize(img image.Image, factor float64) image.Image {
	if math.Abs(factor-1.0) <= scaleEpsilon {
		return img
	}

	w, h := ScaledSize(img.Bounds().Dx(), img.Bounds().Dy(), factor)
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// ScaledSize returns the dimensions Resize produces for factor.
func ScaledSize(width, height int, factor float64) (int, int) {
	return scaleDim(width, factor), scaleDim(height, factor)
}

func scaleDim(d int, factor float64) int {
	n := int(math.Round(float64(d) * factor))
	if n < 1 {
		return 1
	}
	return n
}
