package pipeline

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Pad returns img centred on a white canvas with padding pixels on every
// side. Transparent source pixels blend onto the white background.
// A padding of zero (or less) returns img unchanged.
func Pad(img image.Image, padding int) image.Image {
	if padding <= 0 {
		return img
	}

	b := img.Bounds()
	canvas := imaging.New(b.Dx()+2*padding, b.Dy()+2*padding, color.White)
	return imaging.Overlay(canvas, img, image.Pt(padding, padding), 1.0)
}
