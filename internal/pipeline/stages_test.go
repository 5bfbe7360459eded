package pipeline

import (
	"image"
	"image/color"
	"testing"
)

// newCanvas returns a w x h opaque white image.
func newCanvas(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

// fillRect paints r with c.
func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// samePixels reports whether a and b have equal size and identical pixels.
func samePixels(a, b image.Image) bool {
	if a.Bounds().Dx() != b.Bounds().Dx() || a.Bounds().Dy() != b.Bounds().Dy() {
		return false
	}
	ab, bb := a.Bounds(), b.Bounds()
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			if color.NRGBAModel.Convert(a.At(ab.Min.X+x, ab.Min.Y+y)) !=
				color.NRGBAModel.Convert(b.At(bb.Min.X+x, bb.Min.Y+y)) {
				return false
			}
		}
	}
	return true
}

var black = color.NRGBA{A: 0xff}

// ---------------------------------------------------------------------------
// TestTrim - Bounding box detection
// ---------------------------------------------------------------------------

func TestTrim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func() *image.NRGBA
		wantW int
		wantH int
	}{
		{
			name: "crops to content rectangle",
			build: func() *image.NRGBA {
				img := newCanvas(100, 80)
				fillRect(img, image.Rect(10, 20, 40, 30), black)
				return img
			},
			wantW: 30,
			wantH: 10,
		},
		{
			name: "single content pixel yields 1x1",
			build: func() *image.NRGBA {
				img := newCanvas(50, 50)
				img.SetNRGBA(7, 9, black)
				return img
			},
			wantW: 1,
			wantH: 1,
		},
		{
			name: "near-white pixels are background",
			build: func() *image.NRGBA {
				img := newCanvas(40, 40)
				fillRect(img, image.Rect(0, 0, 40, 5), color.NRGBA{R: 250, G: 246, B: 245, A: 0xff})
				fillRect(img, image.Rect(10, 10, 20, 20), black)
				return img
			},
			wantW: 10,
			wantH: 10,
		},
		{
			name: "one dark channel is content",
			build: func() *image.NRGBA {
				img := newCanvas(40, 40)
				fillRect(img, image.Rect(5, 5, 6, 35), color.NRGBA{R: 255, G: 255, B: 244, A: 0xff})
				return img
			},
			wantW: 1,
			wantH: 30,
		},
		{
			name: "transparent dark pixels are background",
			build: func() *image.NRGBA {
				img := newCanvas(40, 40)
				fillRect(img, image.Rect(0, 0, 40, 40), color.NRGBA{})
				fillRect(img, image.Rect(3, 4, 8, 6), black)
				return img
			},
			wantW: 5,
			wantH: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Trim(tt.build(), DefaultTrimThreshold)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("Trim() size = %dx%d, want %dx%d",
					got.Bounds().Dx(), got.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestTrim_BlankImageUnchanged(t *testing.T) {
	t.Parallel()

	img := newCanvas(30, 20)
	got := Trim(img, DefaultTrimThreshold)

	if got != image.Image(img) {
		t.Error("expected the same image back when nothing is content")
	}
}

func TestTrim_Idempotent(t *testing.T) {
	t.Parallel()

	img := newCanvas(64, 48)
	fillRect(img, image.Rect(12, 8, 30, 40), color.NRGBA{R: 20, G: 120, B: 200, A: 0xff})
	fillRect(img, image.Rect(40, 30, 41, 31), black)

	once := Trim(img, DefaultTrimThreshold)
	twice := Trim(once, DefaultTrimThreshold)

	if !samePixels(once, twice) {
		t.Error("Trim(Trim(img)) differs from Trim(img)")
	}
}

func TestTrim_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	img := newCanvas(20, 20)
	fillRect(img, image.Rect(5, 5, 10, 10), black)
	before := append([]uint8(nil), img.Pix...)

	_ = Trim(img, DefaultTrimThreshold)

	for i := range before {
		if img.Pix[i] != before[i] {
			t.Fatal("Trim modified its input")
		}
	}
}

func TestTrim_OffsetBounds(t *testing.T) {
	t.Parallel()

	// SubImage keeps parent coordinates; the crop must still be correct.
	parent := newCanvas(100, 100)
	fillRect(parent, image.Rect(60, 60, 70, 65), black)
	sub := parent.SubImage(image.Rect(50, 50, 100, 100))

	got := Trim(sub, DefaultTrimThreshold)
	if got.Bounds().Dx() != 10 || got.Bounds().Dy() != 5 {
		t.Errorf("Trim() size = %v, want 10x5", got.Bounds())
	}
}

// ---------------------------------------------------------------------------
// TestPad - White margin
// ---------------------------------------------------------------------------

func TestPad_ZeroIsIdentity(t *testing.T) {
	t.Parallel()

	img := newCanvas(10, 10)
	if got := Pad(img, 0); got != image.Image(img) {
		t.Error("Pad(img, 0) should return img")
	}
}

func TestPad(t *testing.T) {
	t.Parallel()

	const p = 7
	img := newCanvas(20, 12)
	fillRect(img, image.Rect(0, 0, 20, 12), color.NRGBA{R: 10, G: 20, B: 30, A: 0xff})

	got := Pad(img, p)

	b := got.Bounds()
	if b.Dx() != 20+2*p || b.Dy() != 12+2*p {
		t.Fatalf("Pad() size = %dx%d, want %dx%d", b.Dx(), b.Dy(), 20+2*p, 12+2*p)
	}

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(got.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			inside := x >= p && x < p+20 && y >= p && y < p+12
			if !inside && c != white {
				t.Fatalf("border pixel (%d,%d) = %v, want white", x, y, c)
			}
			if inside && c != (color.NRGBA{R: 10, G: 20, B: 30, A: 0xff}) {
				t.Fatalf("content pixel (%d,%d) = %v, want source colour", x, y, c)
			}
		}
	}
}

func TestPad_TransparentBlendsToWhite(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4)) // fully transparent
	got := Pad(img, 2)

	c := color.NRGBAModel.Convert(got.At(3, 3)).(color.NRGBA)
	if c != (color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("transparent source pixel = %v, want white", c)
	}
}

// ---------------------------------------------------------------------------
// TestResize - Proportional scaling
// ---------------------------------------------------------------------------

func TestResize_NearOneIsIdentity(t *testing.T) {
	t.Parallel()

	img := newCanvas(33, 17)
	for _, f := range []float64{1.0, 1.0005, 0.9991} {
		if got := Resize(img, f); got != image.Image(img) {
			t.Errorf("Resize(img, %v) should return img", f)
		}
	}
}

func TestResize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		w, h    int
		percent int
		wantW   int
		wantH   int
	}{
		{name: "half", w: 200, h: 101, percent: 50, wantW: 100, wantH: 51},
		{name: "double", w: 33, h: 17, percent: 200, wantW: 66, wantH: 34},
		{name: "minimum scale", w: 123, h: 45, percent: 10, wantW: 12, wantH: 5},
		{name: "maximum scale", w: 5, h: 3, percent: 400, wantW: 20, wantH: 12},
		{name: "clamps to one pixel", w: 4, h: 2, percent: 10, wantW: 1, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Resize(newCanvas(tt.w, tt.h), float64(tt.percent)/100)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("Resize() size = %dx%d, want %dx%d",
					got.Bounds().Dx(), got.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestApply - Stage order
// ---------------------------------------------------------------------------

func TestApply_TrimThenPadThenResize(t *testing.T) {
	t.Parallel()

	img := newCanvas(300, 300)
	fillRect(img, image.Rect(100, 100, 140, 120), black) // 40x20 content

	got := Apply(img, Options{Padding: 10, Scale: 0.5})

	// trim -> 40x20, pad -> 60x40, resize -> 30x20
	if got.Bounds().Dx() != 30 || got.Bounds().Dy() != 20 {
		t.Errorf("Apply() size = %dx%d, want 30x20", got.Bounds().Dx(), got.Bounds().Dy())
	}
}

func TestApply_Defaults(t *testing.T) {
	t.Parallel()

	img := newCanvas(50, 50)
	fillRect(img, image.Rect(10, 10, 20, 20), black)

	got := Apply(img, Options{})
	if got.Bounds().Dx() != 10 || got.Bounds().Dy() != 10 {
		t.Errorf("Apply() with zero options = %v, want trim only", got.Bounds())
	}
}
