package pdfpages

import (
	"fmt"
	"strings"
)

// Resolution bounds in dots per inch.
const (
	MinDPI     = 1
	DefaultDPI = 300
)

// Scale bounds as a percentage of the trimmed, padded page.
const (
	MinScalePercent     = 10
	MaxScalePercent     = 400
	DefaultScalePercent = 100
)

// WebP quality bounds.
const (
	MinQuality     = 1
	MaxQuality     = 100
	DefaultQuality = 90
)

// Outputs selects which artifacts are written for each page.
type Outputs struct {
	PDF  bool // one single-page PDF per page
	PNG  bool
	WebP bool
}

// Any reports whether at least one output kind is selected.
func (o Outputs) Any() bool {
	return o.PDF || o.PNG || o.WebP
}

// Images reports whether any raster output is selected.
func (o Outputs) Images() bool {
	return o.PNG || o.WebP
}

func (o Outputs) String() string {
	var kinds []string
	if o.PDF {
		kinds = append(kinds, "pdf")
	}
	if o.PNG {
		kinds = append(kinds, "png")
	}
	if o.WebP {
		kinds = append(kinds, "webp")
	}
	if len(kinds) == 0 {
		return "none"
	}
	return strings.Join(kinds, ",")
}

// OutputSpec is the configuration for one run. Build it once, validate it,
// and pass it to Converter.Run; the pipeline does not modify it.
type OutputSpec struct {
	Source    string // path to the source PDF (required)
	OutputDir string // created with parents if missing (required)
	Outputs   Outputs

	DPI          int // render resolution, > 0
	Padding      int // white margin in pixels after trimming, >= 0
	ScalePercent int // final resize, 10-400
	Quality      int // WebP quality, 1-100, checked only when WebP is selected

	// ExternalRenderer rasterizes with pdftocairo or pdftoppm instead of MuPDF.
	ExternalRenderer bool

	// Chapter is an optional label embedded in file names. See FileName.
	Chapter string
}

// DefaultOutputSpec returns a spec with default image settings and no
// outputs selected.
func DefaultOutputSpec(source, outputDir string) OutputSpec {
	return OutputSpec{
		Source:       source,
		OutputDir:    outputDir,
		DPI:          DefaultDPI,
		ScalePercent: DefaultScalePercent,
		Quality:      DefaultQuality,
	}
}

// Validate checks that the spec is complete and its values are in range.
func (s OutputSpec) Validate() error {
	if strings.TrimSpace(s.Source) == "" {
		return ErrEmptySource
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return ErrEmptyOutputDir
	}
	if !s.Outputs.Any() {
		return fmt.Errorf("%w: select at least one of pdf, png, webp", ErrNoOutputs)
	}
	if s.DPI < MinDPI {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidDPI, s.DPI)
	}
	if s.Padding < 0 {
		return fmt.Errorf("%w: %d (must be zero or positive)", ErrInvalidPadding, s.Padding)
	}
	if s.ScalePercent < MinScalePercent || s.ScalePercent > MaxScalePercent {
		return fmt.Errorf("%w: %d%% (must be between %d and %d)",
			ErrInvalidScale, s.ScalePercent, MinScalePercent, MaxScalePercent)
	}
	if s.Outputs.WebP && (s.Quality < MinQuality || s.Quality > MaxQuality) {
		return fmt.Errorf("%w: %d (must be between %d and %d)",
			ErrInvalidQuality, s.Quality, MinQuality, MaxQuality)
	}
	if strings.ContainsAny(s.Chapter, "/\\\x00") {
		return fmt.Errorf("%w: %q (must not contain path separators)", ErrInvalidChapter, s.Chapter)
	}
	return nil
}

// ScaleFactor returns ScalePercent as a multiplier.
func (s OutputSpec) ScaleFactor() float64 {
	return float64(s.ScalePercent) / 100
}
