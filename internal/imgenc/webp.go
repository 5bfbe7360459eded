package imgenc

import (
	"errors"
	"image"
	"io"
	"math"
)

// ErrWebPUnsupported is returned by EncodeWebP when no in-process WebP
// encoder is compiled in.
var ErrWebPUnsupported = errors.New("built-in WebP encoding not supported")

// DefaultQuality is the normalized WebP quality used when none is configured.
const DefaultQuality = 0.9

// webpEncoder is set by webp_builtin.go unless built with -tags nowebp.
var webpEncoder func(w io.Writer, img image.Image, quality float64) error

// HasBuiltinWebP reports whether this binary can encode WebP in process.
func HasBuiltinWebP() bool {
	return webpEncoder != nil
}

// EncodeWebP writes img as lossy WebP. quality is normalized to [0, 1].
func EncodeWebP(w io.Writer, img image.Image, quality float64) error {
	if webpEncoder == nil {
		return ErrWebPUnsupported
	}
	return webpEncoder(w, img, quality)
}

// NormalizeQuality maps an integer quality to [0.01, 1.0] by clamping to
// [1, 100] and dividing by 100. Zero means unset and yields DefaultQuality.
func NormalizeQuality(quality int) float64 {
	if quality == 0 {
		return DefaultQuality
	}
	return float64(ClampQuality(quality)) / 100
}

// ClampQuality limits quality to the [1, 100] range the encoders accept.
func ClampQuality(quality int) int {
	return max(1, min(100, quality))
}

// percent converts a normalized quality back to the encoder's 0-100 scale.
func percent(quality float64) int {
	return int(math.Round(quality * 100))
}

// QualityPercent is NormalizeQuality on the 1-100 scale external encoders take.
func QualityPercent(quality int) int {
	return percent(NormalizeQuality(quality))
}
