package pipeline

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultTrimThreshold is the channel value at or above which a pixel
// counts as background. Near-white rather than pure white, so anti-aliased
// page edges do not defeat the crop.
const DefaultTrimThreshold = 245

// Trim crops img to the smallest rectangle containing every content pixel.
// A pixel is content when its alpha is non-zero and at least one of R, G, B
// is below threshold. An image without content is returned unchanged.
func Trim(img image.Image, threshold uint8) image.Image {
	src := imaging.Clone(img)
	box, ok := contentBounds(src, threshold)
	if !ok {
		return img
	}
	return imaging.Crop(src, box)
}

// contentBounds scans every pixel of src and returns the bounding box of
// content pixels, in src coordinates.
func contentBounds(src *image.NRGBA, threshold uint8) (image.Rectangle, bool) {
	b := src.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[(y-b.Min.Y)*src.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			px := row[(x-b.Min.X)*4 : (x-b.Min.X)*4+4]
			if px[3] == 0 {
				continue
			}
			if px[0] >= threshold && px[1] >= threshold && px[2] >= threshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}

	// Max is exclusive; a single content pixel still yields a 1x1 box.
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
