package pipeline

import "image"

// Options configures the post-processing stages.
type Options struct {
	Threshold uint8   // trim background threshold (0 = DefaultTrimThreshold)
	Padding   int     // white margin in pixels
	Scale     float64 // resize factor (1.0 = unchanged)
}

// Apply runs trim, pad and resize in that order.
func Apply(img image.Image, opts Options) image.Image {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultTrimThreshold
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1.0
	}

	img = Trim(img, threshold)
	img = Pad(img, opts.Padding)
	return Resize(img, scale)
}
