package pdfpages

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/alnah/go-pdfpages/internal/process"
)

// toolRasterizer renders pages by running pdftocairo or pdftoppm against
// the source file, one page per invocation.
type toolRasterizer struct {
	backend RenderBackend
	source  string
	dpi     int
	tmpDir  string
	runner  process.Runner
}

func (r *toolRasterizer) Render(ctx context.Context, index int) (image.Image, error) {
	page := index + 1
	stem := filepath.Join(r.tmpDir, "page-"+uuid.NewString())

	out, err := process.Invoke(ctx, r.runner, newToolCall(r.backend, r.dpi, page, r.source, stem))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: page %d: %s: %w", ErrRenderFailed, page, r.backend.Tool, err)
	}
	defer out.Discard()

	img, err := imaging.Open(out.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: decoding %s output: %v", ErrRenderFailed, page, r.backend.Tool, err)
	}
	return img, nil
}

func (r *toolRasterizer) Close() error { return nil }
