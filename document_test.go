package pdfpages

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ---------------------------------------------------------------------------
// TestOpenDocument - Source validation and page extraction
// ---------------------------------------------------------------------------

func TestOpenDocument(t *testing.T) {
	t.Parallel()

	doc, err := openDocument(fixturePDF(t, t.TempDir(), 3))
	if err != nil {
		t.Fatalf("openDocument() error = %v", err)
	}
	if doc.PageCount() != 3 {
		t.Errorf("PageCount() = %d, want 3", doc.PageCount())
	}

	for i := range 3 {
		data, err := doc.ExtractPage(i)
		if err != nil {
			t.Fatalf("ExtractPage(%d) error = %v", i, err)
		}
		n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
		if err != nil {
			t.Fatalf("extracted page %d is not a valid PDF: %v", i, err)
		}
		if n != 1 {
			t.Errorf("extracted page %d has %d pages, want 1", i, n)
		}
	}
}

func TestOpenDocument_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	notPDF := filepath.Join(dir, "notes.pdf")
	if err := os.WriteFile(notPDF, []byte("just some text"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.pdf")},
		{name: "not a PDF", path: notPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := openDocument(tt.path)
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("openDocument() error = %v, want ErrInvalidDocument", err)
			}
		})
	}
}
