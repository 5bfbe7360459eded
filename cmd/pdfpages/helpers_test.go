package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-pdfpages/internal/process"
)

// testEnv is an Environment with captured output and a fixed variable set.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv returns an environment with no tools on PATH, no .env file,
// and only the given variables set.
func newTestEnv(vars map[string]string) *testEnv {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    time.Now,
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(name string) string { return vars[name] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		LookPath: func(string) (string, bool) { return "", false },
	}
	return &testEnv{Environment: env, stdout: &stdout, stderr: &stderr}
}

// lookupOnly resolves the named tools to /fake/bin/<name>.
func lookupOnly(names ...string) process.LookupFunc {
	return func(name string) (string, bool) {
		for _, n := range names {
			if n == name {
				return "/fake/bin/" + name, true
			}
		}
		return "", false
	}
}

// fakeRunner runs fn in place of a subprocess and records calls.
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

// pdftocairoStub writes a 40x20 page image to the stem given as the last
// argument, the way pdftocairo -singlefile names its output.
func pdftocairoStub(path string, args []string) (process.Result, error) {
	if filepath.Base(path) != "pdftocairo" {
		return process.Result{}, nil
	}
	stem := args[len(args)-1]
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for y := 5; y < 15; y++ {
		for x := 10; x < 30; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 0xff})
		}
	}
	f, err := os.Create(stem + ".png")
	if err != nil {
		return process.Result{}, err
	}
	defer f.Close()
	return process.Result{}, png.Encode(f, img)
}

// fixturePDF writes a PDF with the given number of pages to dir.
func fixturePDF(t *testing.T, dir string, pages int) string {
	t.Helper()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: 144, Ht: 72},
	})
	pdf.SetFillColor(0, 0, 0)
	for range pages {
		pdf.AddPage()
		pdf.Rect(10, 10, 40, 10, "F")
	}

	path := filepath.Join(dir, "book.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("writing fixture PDF: %v", err)
	}
	return path
}

// listDir returns the sorted file names in dir.
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func containsAll(t *testing.T, what, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("%s should contain %q, got:\n%s", what, want, got)
		}
	}
}
