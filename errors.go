package pdfpages

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidDocument     = errors.New("invalid document")
	ErrRendererUnavailable = errors.New("renderer unavailable")
	ErrRenderFailed        = errors.New("render failed")
	ErrEncoderUnavailable  = errors.New("WebP encoder unavailable")
	ErrEncodeFailed        = errors.New("encode failed")
	ErrWriteFailed         = errors.New("write failed")
	ErrOutputDir           = errors.New("output directory unusable")

	// OutputSpec validation errors.
	ErrNoOutputs      = errors.New("no output kind selected")
	ErrEmptySource    = errors.New("source path cannot be empty")
	ErrEmptyOutputDir = errors.New("output directory cannot be empty")
	ErrInvalidDPI     = errors.New("invalid DPI")
	ErrInvalidPadding = errors.New("invalid padding")
	ErrInvalidScale   = errors.New("invalid scale")
	ErrInvalidQuality = errors.New("invalid quality")
	ErrInvalidChapter = errors.New("invalid chapter label")
)

// errPageUnavailable marks a page the renderer cannot reference.
// The pipeline skips such pages instead of failing the run.
var errPageUnavailable = errors.New("page unavailable")
