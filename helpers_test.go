package pdfpages

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-pdfpages/internal/process"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// fixturePDF writes a PDF with the given number of 144x72pt pages to dir.
// Each page has a black 40x10pt block at (10,10).
func fixturePDF(t *testing.T, dir string, pages int) string {
	t.Helper()
	return fixturePDFSize(t, dir, 144, 72, pages)
}

// fixturePDFSize is fixturePDF with a w x h point page size.
func fixturePDFSize(t *testing.T, dir string, w, h float64, pages int) string {
	t.Helper()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetFillColor(0, 0, 0)
	for range pages {
		pdf.AddPage()
		pdf.Rect(10, 10, 40, 10, "F")
	}

	path := filepath.Join(dir, "source.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("writing fixture PDF: %v", err)
	}
	return path
}

// pageImage returns a white w x h image with a black block in the middle.
func pageImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			if x >= w/4 && x < 3*w/4 && y >= h/4 && y < 3*h/4 {
				c = color.NRGBA{A: 0xff}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNGFile(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// fakeRunner records calls and delegates to fn.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	fn    func(path string, args []string) (process.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, path string, args ...string) (process.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{path}, args...))
	f.mu.Unlock()
	if f.fn == nil {
		return process.Result{}, nil
	}
	return f.fn(path, args)
}

func (f *fakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

// toolStub emulates pdftocairo -singlefile and cwebp by writing files to
// the paths their arguments name.
func toolStub(t *testing.T) func(path string, args []string) (process.Result, error) {
	return func(path string, args []string) (process.Result, error) {
		switch filepath.Base(path) {
		case "pdftocairo":
			stem := args[len(args)-1]
			writePNGFile(t, stem+".png", pageImage(40, 20))
		case "pdftoppm":
			stem := args[len(args)-1]
			writePNGFile(t, stem+"-"+args[4]+".png", pageImage(40, 20))
		case "cwebp":
			out := args[len(args)-1]
			if err := os.WriteFile(out, []byte("RIFF-fake-webp"), 0o644); err != nil {
				t.Errorf("cwebp stub: %v", err)
			}
		}
		return process.Result{}, nil
	}
}

// lookupOnly returns a LookupFunc that finds only the named tools,
// each at /fake/bin/<name>.
func lookupOnly(names ...string) process.LookupFunc {
	found := make(map[string]bool, len(names))
	for _, n := range names {
		found[n] = true
	}
	return func(name string) (string, bool) {
		if found[name] {
			return "/fake/bin/" + name, true
		}
		return "", false
	}
}

// fakeRasterizer returns a fixed image, or errPageUnavailable for the
// 0-based indexes in missing.
type fakeRasterizer struct {
	missing map[int]bool
	closed  bool
}

func (f *fakeRasterizer) Render(_ context.Context, index int) (image.Image, error) {
	if f.missing[index] {
		return nil, errPageUnavailable
	}
	return pageImage(60, 40), nil
}

func (f *fakeRasterizer) Close() error {
	f.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Test Options
// ---------------------------------------------------------------------------

func withRasterizer(r rasterizer) Option {
	return func(c *Converter) {
		c.newRasterizer = func(RenderBackend, OutputSpec, string) (rasterizer, error) { return r, nil }
	}
}

func withWrite(fn func(path string, data []byte) error) Option {
	return func(c *Converter) { c.write = fn }
}

// countingWrite wraps defaultWrite and counts writes per extension.
type countingWrite struct {
	mu    sync.Mutex
	byExt map[string]int
	paths []string
}

func (w *countingWrite) write(path string, data []byte) error {
	w.mu.Lock()
	if w.byExt == nil {
		w.byExt = make(map[string]int)
	}
	w.byExt[filepath.Ext(path)]++
	w.paths = append(w.paths, path)
	w.mu.Unlock()
	return defaultWrite(path, data)
}

func (w *countingWrite) count(ext string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.byExt[ext]
}

// eventRecorder collects events from a ProgressFunc.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
