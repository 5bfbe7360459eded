package pdfpages

// Notes:
// - The MuPDF tests skip when the library cannot open documents in this
//   build; converter_test.go covers the same renderer end to end.

import (
	"context"
	"errors"
	"image"
	"image/color"
	"slices"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestResolveRenderBackend - Rasterizer selection
// ---------------------------------------------------------------------------

func TestResolveRenderBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		external bool
		tools    []string
		want     RenderBackend
		wantErr  error
	}{
		{
			name:     "in-process when external not requested",
			external: false,
			tools:    []string{"pdftocairo"},
			want:     RenderBackend{Kind: RenderInProcess},
		},
		{
			name:     "pdftocairo preferred",
			external: true,
			tools:    []string{"pdftoppm", "pdftocairo"},
			want:     RenderBackend{Kind: RenderExternal, Tool: ToolPdftocairo, Path: "/fake/bin/pdftocairo"},
		},
		{
			name:     "pdftoppm as fallback",
			external: true,
			tools:    []string{"pdftoppm"},
			want:     RenderBackend{Kind: RenderExternal, Tool: ToolPdftoppm, Path: "/fake/bin/pdftoppm"},
		},
		{
			name:     "neither tool found",
			external: true,
			wantErr:  ErrRendererUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveRenderBackend(tt.external, lookupOnly(tt.tools...))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveRenderBackend() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveRenderBackend() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveRenderBackend_ErrorNamesBothTools(t *testing.T) {
	t.Parallel()

	_, err := ResolveRenderBackend(true, lookupOnly())
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"pdftocairo", "pdftoppm", "hint:"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRenderSize - Point to pixel conversion
// ---------------------------------------------------------------------------

func TestRenderSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		w, h         float64
		dpi          int
		wantW, wantH int
	}{
		{name: "letter at 300", w: 612, h: 792, dpi: 300, wantW: 2550, wantH: 3300},
		{name: "a4 at 300 uses fractional points", w: 595.28, h: 841.89, dpi: 300, wantW: 2481, wantH: 3508},
		{name: "a4 at 150", w: 595.28, h: 841.89, dpi: 150, wantW: 1241, wantH: 1754},
		{name: "whole points at 150 round up", w: 595, h: 842, dpi: 150, wantW: 1240, wantH: 1755},
		{name: "identity at 72", w: 144, h: 72, dpi: 72, wantW: 144, wantH: 72},
		{name: "fraction of a pixel rounds up", w: 1, h: 1, dpi: 100, wantW: 2, wantH: 2},
		{name: "empty page clamps to one", w: 0, h: 0, dpi: 300, wantW: 1, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, h := RenderSize(tt.w, tt.h, tt.dpi)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("RenderSize(%v, %v, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.dpi, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderArgs - Tool command lines
// ---------------------------------------------------------------------------

func TestRenderArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tool ToolVariant
		want []string
	}{
		{
			name: "pdftocairo writes a single file",
			tool: ToolPdftocairo,
			want: []string{"-png", "-r", "300", "-f", "4", "-l", "4", "-singlefile", "in.pdf", "/tmp/x/page-1"},
		},
		{
			name: "pdftoppm has no singlefile",
			tool: ToolPdftoppm,
			want: []string{"-png", "-r", "300", "-f", "4", "-l", "4", "in.pdf", "/tmp/x/page-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := renderArgs(tt.tool, 300, 4, "in.pdf", "/tmp/x/page-1")
			if !slices.Equal(got, tt.want) {
				t.Errorf("renderArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderCandidates(t *testing.T) {
	t.Parallel()

	got := renderCandidates("/t/p", 7)
	want := []string{
		"/t/p.png",
		"/t/p-7.png",
		"/t/p-07.png",
		"/t/p-007.png",
		"/t/p-0007.png",
		"/t/p-00007.png",
	}
	if !slices.Equal(got, want) {
		t.Errorf("renderCandidates() = %v, want %v", got, want)
	}

	// Wide page numbers collapse several paddings into one name.
	got = renderCandidates("/t/p", 12345)
	want = []string{"/t/p.png", "/t/p-12345.png"}
	if !slices.Equal(got, want) {
		t.Errorf("renderCandidates(12345) = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestOnWhite - Canvas compositing
// ---------------------------------------------------------------------------

func TestOnWhite(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 10, 10)) // transparent
	src.SetNRGBA(5, 5, color.NRGBA{A: 0xff})

	got := onWhite(src)
	if got.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("size = %v, want 10x10", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("transparent pixel = %v, want white", c)
	}
	if c := got.RGBAAt(5, 5); c != (color.RGBA{A: 0xff}) {
		t.Errorf("content pixel = %v, want black", c)
	}
}

func TestOnWhite_OffsetSource(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(-3, 2, 7, 9))
	src.SetNRGBA(-3, 2, color.NRGBA{A: 0xff})

	got := onWhite(src)
	if got.Bounds() != image.Rect(0, 0, 10, 7) {
		t.Fatalf("size = %v, want 10x7 at the origin", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{A: 0xff}) {
		t.Errorf("corner pixel = %v, want black", c)
	}
}

// ---------------------------------------------------------------------------
// TestFitzRasterizer - Page size at fractional point dimensions
// ---------------------------------------------------------------------------

func TestFitzRasterizer_A4MatchesRenderSize(t *testing.T) {
	t.Parallel()

	const (
		a4W = 595.28
		a4H = 841.89
		dpi = 300
	)
	source := fixturePDFSize(t, t.TempDir(), a4W, a4H, 1)

	r, err := openFitz(source, dpi)
	if err != nil {
		t.Skipf("MuPDF unavailable: %v", err)
	}
	defer r.Close()

	img, err := r.Render(context.Background(), 0)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	wantW, wantH := RenderSize(a4W, a4H, dpi)
	if wantW != 2481 || wantH != 3508 {
		t.Fatalf("RenderSize(A4, 300) = %dx%d, want 2481x3508", wantW, wantH)
	}
	if got := img.Bounds(); got.Dx() != wantW || got.Dy() != wantH {
		t.Errorf("rendered page = %dx%d, want %dx%d", got.Dx(), got.Dy(), wantW, wantH)
	}
}

func TestBackendStrings(t *testing.T) {
	t.Parallel()

	if got := (RenderBackend{Kind: RenderInProcess}).String(); got != "mupdf (in-process)" {
		t.Errorf("in-process String() = %q", got)
	}
	b := RenderBackend{Kind: RenderExternal, Tool: ToolPdftoppm, Path: "/usr/bin/pdftoppm"}
	if got := b.String(); got != "pdftoppm (/usr/bin/pdftoppm)" {
		t.Errorf("external String() = %q", got)
	}
	if got := (EncodeBackend{Kind: EncodeExternal, Path: "/usr/bin/cwebp"}).String(); got != "cwebp (/usr/bin/cwebp)" {
		t.Errorf("encoder String() = %q", got)
	}
}
