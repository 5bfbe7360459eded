//go:build !nowebp

package imgenc

import (
	"image"
	"io"

	"github.com/gen2brain/webp"
)

func init() {
	webpEncoder = func(w io.Writer, img image.Image, quality float64) error {
		return webp.Encode(w, img, webp.Options{Quality: percent(quality)})
	}
}
