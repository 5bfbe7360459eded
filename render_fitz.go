package pdfpages

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	xdraw "golang.org/x/image/draw"
)

// fitzRasterizer renders pages in process with MuPDF.
type fitzRasterizer struct {
	doc *fitz.Document
	dpi int
}

func openFitz(path string, dpi int) (*fitzRasterizer, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, path, err)
	}
	return &fitzRasterizer{doc: doc, dpi: dpi}, nil
}

func (r *fitzRasterizer) Render(_ context.Context, index int) (image.Image, error) {
	if index < 0 || index >= r.doc.NumPage() {
		return nil, fmt.Errorf("page %d: %w", index+1, errPageUnavailable)
	}

	if _, err := r.doc.Bound(index); err != nil {
		return nil, fmt.Errorf("page %d: %w: %v", index+1, errPageUnavailable, err)
	}

	// Bound truncates to whole points; the pixmap is sized from the exact
	// page bounds and already matches RenderSize.
	img, err := r.doc.ImageDPI(index, float64(r.dpi))
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrRenderFailed, index+1, err)
	}
	return onWhite(img), nil
}

func (r *fitzRasterizer) Close() error {
	return r.doc.Close()
}

// onWhite composites src onto an opaque white canvas of the same size,
// anchored at the origin.
func onWhite(src image.Image) *image.RGBA {
	sb := src.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)
	xdraw.Draw(canvas, canvas.Bounds(), src, sb.Min, xdraw.Over)
	return canvas
}
