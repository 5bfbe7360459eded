package pdfpages

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/alnah/go-pdfpages/internal/hints"
)

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// document is a source PDF held in memory for the duration of one run.
type document struct {
	path  string
	data  []byte
	pages int
	conf  *model.Configuration
}

// openDocument reads and validates the PDF at path and counts its pages.
func openDocument(path string) (*document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrInvalidDocument, err, hints.ForInvalidDocument())
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v%s", ErrInvalidDocument, path, err, hints.ForInvalidDocument())
	}
	if pages < 1 {
		return nil, fmt.Errorf("%w: %s: document has no pages", ErrInvalidDocument, path)
	}

	return &document{path: path, data: data, pages: pages, conf: conf}, nil
}

// PageCount returns the number of pages.
func (d *document) PageCount() int {
	return d.pages
}

// ExtractPage returns the page at index (0-based) as a standalone PDF.
func (d *document) ExtractPage(index int) ([]byte, error) {
	var buf bytes.Buffer
	selected := []string{strconv.Itoa(index + 1)}
	if err := api.Trim(bytes.NewReader(d.data), &buf, selected, d.conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
