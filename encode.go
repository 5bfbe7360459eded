package pdfpages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/alnah/go-pdfpages/internal/fileutil"
	"github.com/alnah/go-pdfpages/internal/hints"
	"github.com/alnah/go-pdfpages/internal/imgenc"
	"github.com/alnah/go-pdfpages/internal/process"
)

// EncodeKind tells how WebP files are produced.
type EncodeKind int

const (
	EncodeUnavailable EncodeKind = iota
	EncodeBuiltin                // linked-in libwebp
	EncodeExternal               // cwebp command-line tool
)

func (k EncodeKind) String() string {
	switch k {
	case EncodeBuiltin:
		return "built-in"
	case EncodeExternal:
		return "external"
	default:
		return "unavailable"
	}
}

// CwebpTool is the external WebP encoder.
const CwebpTool = "cwebp"

// EncodeBackend is the WebP encoder chosen for a run.
type EncodeBackend struct {
	Kind EncodeKind
	Path string // set when Kind is EncodeExternal
}

func (b EncodeBackend) String() string {
	if b.Kind == EncodeExternal {
		return fmt.Sprintf("%s (%s)", CwebpTool, b.Path)
	}
	return b.Kind.String()
}

// ResolveEncodeBackend picks the WebP encoder: the built-in one when
// compiled in, else cwebp found by lookPath. Finding neither is an error
// only when WebP output was requested.
func ResolveEncodeBackend(requested, builtin bool, lookPath process.LookupFunc) (EncodeBackend, error) {
	if builtin {
		return EncodeBackend{Kind: EncodeBuiltin}, nil
	}
	if path, ok := lookPath(CwebpTool); ok {
		return EncodeBackend{Kind: EncodeExternal, Path: path}, nil
	}
	if requested {
		return EncodeBackend{}, fmt.Errorf("%w: no built-in encoder and %s not found%s",
			ErrEncoderUnavailable, CwebpTool, hints.ForEncoder())
	}
	return EncodeBackend{}, nil
}

// imageWriter writes one processed page image in every requested format.
type imageWriter struct {
	outputs Outputs
	dpi     int
	quality int
	webp    EncodeBackend
	runner  process.Runner
	tmpDir  string
	write   func(path string, data []byte) error
}

// Write stores img as <dir>/<base>.png and/or .webp and returns the paths
// written, in order. On error the paths written so far are still returned.
func (w *imageWriter) Write(ctx context.Context, img image.Image, dir, base string) ([]string, error) {
	var written []string

	var pngPath string
	if w.outputs.PNG {
		pngPath = filepath.Join(dir, base+"."+ExtPNG)
		if err := w.writePNG(img, pngPath); err != nil {
			return written, err
		}
		written = append(written, pngPath)
	}

	if w.outputs.WebP {
		webpPath := filepath.Join(dir, base+"."+ExtWebP)
		if err := w.writeWebP(ctx, img, pngPath, webpPath); err != nil {
			return written, err
		}
		written = append(written, webpPath)
	}

	return written, nil
}

func (w *imageWriter) writePNG(img image.Image, path string) error {
	var buf bytes.Buffer
	if err := imgenc.EncodePNG(&buf, img, w.dpi); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncodeFailed, filepath.Base(path), err)
	}
	if err := w.write(path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// writeWebP encodes to path. pngPath is the page's PNG output when one was
// written; the external encoder reuses it instead of writing another.
func (w *imageWriter) writeWebP(ctx context.Context, img image.Image, pngPath, path string) error {
	switch w.webp.Kind {
	case EncodeBuiltin:
		var buf bytes.Buffer
		if err := imgenc.EncodeWebP(&buf, img, imgenc.NormalizeQuality(w.quality)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrEncodeFailed, filepath.Base(path), err)
		}
		if err := w.write(path, buf.Bytes()); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
		return nil
	case EncodeExternal:
		return w.cwebp(ctx, img, pngPath, path)
	default:
		return ErrEncoderUnavailable
	}
}

func (w *imageWriter) cwebp(ctx context.Context, img image.Image, pngPath, path string) error {
	input := pngPath
	if input == "" {
		input = filepath.Join(w.tmpDir, "webp-"+uuid.NewString()+"."+ExtPNG)
		if err := w.writePNG(img, input); err != nil {
			return err
		}
		defer func() { _ = os.Remove(input) }()
	}

	call := process.Call{
		Path:       w.webp.Path,
		Args:       cwebpArgs(w.quality, input, path),
		Candidates: []string{path},
	}
	if _, err := process.Invoke(ctx, w.runner, call); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrEncodeFailed, filepath.Base(path), err)
	}
	return nil
}

func cwebpArgs(quality int, input, output string) []string {
	return []string{"-q", strconv.Itoa(imgenc.QualityPercent(quality)), input, "-o", output}
}

// defaultWrite is the file writer used outside tests.
var defaultWrite = fileutil.WriteFile
