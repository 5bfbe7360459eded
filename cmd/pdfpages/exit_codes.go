package main

import (
	"errors"
	"os"

	pdfpages "github.com/alnah/go-pdfpages"
	"github.com/alnah/go-pdfpages/internal/config"
	"github.com/alnah/go-pdfpages/internal/process"
)

// Exit codes for pdfpages CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Unreadable document, unusable output directory, write failure
	ExitTool    = 4 // Renderer or encoder missing or failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// External tool and backend errors (exit 4)
	if errors.Is(err, pdfpages.ErrRendererUnavailable) ||
		errors.Is(err, pdfpages.ErrRenderFailed) ||
		errors.Is(err, pdfpages.ErrEncoderUnavailable) ||
		errors.Is(err, pdfpages.ErrEncodeFailed) ||
		errors.Is(err, process.ErrLaunch) ||
		errors.Is(err, process.ErrExit) ||
		errors.Is(err, process.ErrNoOutput) {
		return ExitTool
	}

	// I/O errors (exit 3)
	if errors.Is(err, pdfpages.ErrInvalidDocument) ||
		errors.Is(err, pdfpages.ErrOutputDir) ||
		errors.Is(err, pdfpages.ErrWriteFailed) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, pdfpages.ErrNoOutputs) ||
		errors.Is(err, pdfpages.ErrEmptySource) ||
		errors.Is(err, pdfpages.ErrEmptyOutputDir) ||
		errors.Is(err, pdfpages.ErrInvalidDPI) ||
		errors.Is(err, pdfpages.ErrInvalidPadding) ||
		errors.Is(err, pdfpages.ErrInvalidScale) ||
		errors.Is(err, pdfpages.ErrInvalidQuality) ||
		errors.Is(err, pdfpages.ErrInvalidChapter) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
