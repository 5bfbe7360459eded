package pdfpages

import (
	"context"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strconv"

	"github.com/alnah/go-pdfpages/internal/hints"
	"github.com/alnah/go-pdfpages/internal/process"
)

// RenderKind tells which rasterizer renders pages.
type RenderKind int

const (
	RenderInProcess RenderKind = iota // MuPDF, linked into the binary
	RenderExternal                    // poppler command-line tool
)

func (k RenderKind) String() string {
	if k == RenderExternal {
		return "external"
	}
	return "in-process"
}

// ToolVariant identifies an external rasterizer.
type ToolVariant int

const (
	ToolNone ToolVariant = iota
	// ToolPdftocairo writes exactly the requested name with -singlefile.
	ToolPdftocairo
	// ToolPdftoppm appends a page number padded to a width of its choosing.
	ToolPdftoppm
)

// RenderTools lists external rasterizers in priority order.
var RenderTools = []ToolVariant{ToolPdftocairo, ToolPdftoppm}

func (t ToolVariant) String() string {
	switch t {
	case ToolPdftocairo:
		return "pdftocairo"
	case ToolPdftoppm:
		return "pdftoppm"
	default:
		return "none"
	}
}

// RenderBackend is the rasterizer chosen for a run.
type RenderBackend struct {
	Kind RenderKind
	Tool ToolVariant // set when Kind is RenderExternal
	Path string      // absolute path of Tool
}

func (b RenderBackend) String() string {
	if b.Kind == RenderExternal {
		return fmt.Sprintf("%s (%s)", b.Tool, b.Path)
	}
	return "mupdf (in-process)"
}

// ResolveRenderBackend picks the rasterizer. Without external the in-process
// renderer is used and never fails. With external the first tool of
// RenderTools found by lookPath wins.
func ResolveRenderBackend(external bool, lookPath process.LookupFunc) (RenderBackend, error) {
	if !external {
		return RenderBackend{Kind: RenderInProcess}, nil
	}
	for _, tool := range RenderTools {
		if path, ok := lookPath(tool.String()); ok {
			return RenderBackend{Kind: RenderExternal, Tool: tool, Path: path}, nil
		}
	}
	return RenderBackend{}, fmt.Errorf("%w: neither %s nor %s found%s",
		ErrRendererUnavailable, ToolPdftocairo, ToolPdftoppm, hints.ForRenderer())
}

// RenderSize returns the pixel size of a page of w x h points at dpi:
// ceil(points * dpi / 72), at least 1. Page sizes are rarely whole points
// (A4 is 595.28 x 841.89), so the inputs are not rounded first.
func RenderSize(w, h float64, dpi int) (int, int) {
	return renderDim(w, dpi), renderDim(h, dpi)
}

// renderSlack absorbs float noise so exact products are not pushed up a
// pixel. MuPDF rounds its pixmap bounds with the same tolerance.
const renderSlack = 0.001

func renderDim(points float64, dpi int) int {
	if points <= 0 || dpi <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(points*float64(dpi)/72-renderSlack)))
}

// rasterizer renders single pages of one document.
type rasterizer interface {
	// Render returns the page at index (0-based). It returns an error
	// wrapping errPageUnavailable when the page cannot be referenced.
	Render(ctx context.Context, index int) (image.Image, error)
	Close() error
}

// renderArgs builds the argument list for rendering page (1-based) of
// source to stem.png or a tool-specific variant of it.
func renderArgs(tool ToolVariant, dpi, page int, source, stem string) []string {
	n := strconv.Itoa(page)
	args := []string{"-png", "-r", strconv.Itoa(dpi), "-f", n, "-l", n}
	if tool == ToolPdftocairo {
		args = append(args, "-singlefile")
	}
	return append(args, source, stem)
}

// renderCandidates lists the file names a tool may have written for page,
// most likely first.
func renderCandidates(stem string, page int) []string {
	candidates := []string{
		stem + ".png",
		fmt.Sprintf("%s-%d.png", stem, page),
	}
	for _, width := range []int{2, 3, 4, 5} {
		candidates = append(candidates, fmt.Sprintf("%s-%0*d.png", stem, width, page))
	}
	return dedupe(candidates)
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// newToolCall describes one external render of page into dir.
func newToolCall(b RenderBackend, dpi, page int, source, stem string) process.Call {
	return process.Call{
		Path:       b.Path,
		Args:       renderArgs(b.Tool, dpi, page, source, stem),
		Candidates: renderCandidates(stem, page),
		ScanDir:    filepath.Dir(stem),
		ScanPrefix: filepath.Base(stem),
		ScanExt:    ".png",
	}
}
