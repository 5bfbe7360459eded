package pdfpages

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/alnah/go-pdfpages/internal/fileutil"
	"github.com/alnah/go-pdfpages/internal/hints"
	"github.com/alnah/go-pdfpages/internal/imgenc"
	"github.com/alnah/go-pdfpages/internal/pipeline"
	"github.com/alnah/go-pdfpages/internal/process"
)

// Compile-time interface implementation checks.
var (
	_ process.Runner = process.ExecRunner{}
	_ rasterizer     = (*fitzRasterizer)(nil)
	_ rasterizer     = (*toolRasterizer)(nil)
)

// State is the stage a run has reached.
type State int

const (
	StateNotStarted State = iota
	StateSplitting
	StateRendering
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateSplitting:
		return "splitting"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result describes what a run produced. On failure it holds everything
// written before the error.
type Result struct {
	State     State
	Pages     int
	Documents []string // single-page PDFs, in page order
	Images    []string // PNG and WebP files, in write order
	Skipped   []int    // 1-based numbers of pages that could not be rendered
	Renderer  RenderBackend
	Encoder   EncodeBackend
}

// Converter splits PDFs into per-page documents and images.
// A Converter holds no per-run state and may be reused.
type Converter struct {
	runner      process.Runner
	lookPath    process.LookupFunc
	logger      zerolog.Logger
	builtinWebP bool
	tempDir     string
	progress    ProgressFunc

	write         func(path string, data []byte) error
	newRasterizer func(b RenderBackend, spec OutputSpec, tmpDir string) (rasterizer, error)
}

// Option configures a Converter.
type Option func(*Converter)

// WithRunner sets how external tools are executed.
func WithRunner(r process.Runner) Option {
	return func(c *Converter) { c.runner = r }
}

// WithLookPath sets how external tools are found.
func WithLookPath(fn process.LookupFunc) Option {
	return func(c *Converter) { c.lookPath = fn }
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithBuiltinWebP overrides detection of the in-process WebP encoder.
// Passing false forces cwebp.
func WithBuiltinWebP(available bool) Option {
	return func(c *Converter) { c.builtinWebP = available && imgenc.HasBuiltinWebP() }
}

// WithTempDir sets the parent directory for per-run scratch files.
func WithTempDir(dir string) Option {
	return func(c *Converter) { c.tempDir = dir }
}

// WithProgress sets the callback receiving progress events.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Converter) { c.progress = fn }
}

// NewConverter creates a Converter that runs real tools found on PATH.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		runner:      process.ExecRunner{},
		lookPath:    process.LookPath,
		logger:      zerolog.Nop(),
		builtinWebP: imgenc.HasBuiltinWebP(),
		write:       defaultWrite,
	}
	c.newRasterizer = c.openRasterizer

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run converts spec.Source synchronously. Pages are processed in order;
// the first error aborts the run. Cancelling ctx stops the run before the
// next page and kills a running tool.
func (c *Converter) Run(ctx context.Context, spec OutputSpec) (*Result, error) {
	return c.run(ctx, spec, c.emitter(nil))
}

// emitter forwards events to the configured ProgressFunc and to extra.
func (c *Converter) emitter(extra func(Event)) func(Event) {
	return func(e Event) {
		if c.progress != nil {
			c.progress(e)
		}
		if extra != nil {
			extra(e)
		}
	}
}

func (c *Converter) run(ctx context.Context, spec OutputSpec, emit func(Event)) (res *Result, err error) {
	res = &Result{State: StateNotStarted}
	log := c.logger.With().Str("source", spec.Source).Logger()

	transition := func(to State) {
		log.Debug().Stringer("from", res.State).Stringer("to", to).Msg("state change")
		res.State = to
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
		if err != nil {
			transition(StateFailed)
			log.Debug().Err(err).Msg("run failed")
		}
	}()

	// Trust boundary: the CLI validates earlier, library callers may not.
	if err := spec.Validate(); err != nil {
		return res, err
	}
	if err := fileutil.EnsureDir(spec.OutputDir); err != nil {
		return res, fmt.Errorf("%w: %v%s", ErrOutputDir, err, hints.ForOutputDirectory())
	}

	doc, err := openDocument(spec.Source)
	if err != nil {
		return res, err
	}
	res.Pages = doc.PageCount()
	log.Debug().Int("pages", res.Pages).Stringer("outputs", spec.Outputs).Msg("document opened")

	if spec.Outputs.PDF {
		transition(StateSplitting)
		if err := c.split(ctx, doc, spec, res, emit); err != nil {
			return res, err
		}
	}

	if spec.Outputs.Images() {
		transition(StateRendering)
		if err := c.render(ctx, spec, res, emit, log); err != nil {
			return res, err
		}
	}

	transition(StateDone)
	return res, nil
}

func (c *Converter) split(ctx context.Context, doc *document, spec OutputSpec, res *Result, emit func(Event)) error {
	total := doc.PageCount()
	for i := range total {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := doc.ExtractPage(i)
		if err != nil {
			return fmt.Errorf("%w: page %d: extracting: %v", ErrWriteFailed, i+1, err)
		}
		path := filepath.Join(spec.OutputDir, FileName(spec.Chapter, i, ExtPDF))
		if err := c.write(path, data); err != nil {
			return fmt.Errorf("%w: page %d: %w", ErrWriteFailed, i+1, err)
		}

		res.Documents = append(res.Documents, path)
		emit(Event{Kind: EventPageSplit, Page: i + 1, Total: total, Path: path})
	}

	emit(Event{Kind: EventSplitDone, Count: len(res.Documents), Total: total})
	return nil
}

func (c *Converter) render(ctx context.Context, spec OutputSpec, res *Result, emit func(Event), log zerolog.Logger) error {
	renderer, err := ResolveRenderBackend(spec.ExternalRenderer, c.lookPath)
	if err != nil {
		return err
	}
	encoder, err := ResolveEncodeBackend(spec.Outputs.WebP, c.builtinWebP, c.lookPath)
	if err != nil {
		return err
	}
	res.Renderer, res.Encoder = renderer, encoder
	log.Debug().Stringer("renderer", renderer).Stringer("encoder", encoder).Msg("backends resolved")

	tmpDir, cleanup, err := fileutil.MakeTempDir(c.tempDir, "pdfpages-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer cleanup()

	rast, err := c.newRasterizer(renderer, spec, tmpDir)
	if err != nil {
		return err
	}
	defer func() { _ = rast.Close() }()

	writer := &imageWriter{
		outputs: spec.Outputs,
		dpi:     spec.DPI,
		quality: spec.Quality,
		webp:    encoder,
		runner:  c.runner,
		tmpDir:  tmpDir,
		write:   c.write,
	}
	stages := pipeline.Options{
		Threshold: pipeline.DefaultTrimThreshold,
		Padding:   spec.Padding,
		Scale:     spec.ScaleFactor(),
	}

	total := res.Pages
	for i := range total {
		if err := ctx.Err(); err != nil {
			return err
		}

		img, err := rast.Render(ctx, i)
		if errors.Is(err, errPageUnavailable) {
			log.Warn().Int("page", i+1).Err(err).Msg("page skipped")
			res.Skipped = append(res.Skipped, i+1)
			emit(Event{Kind: EventPageSkipped, Page: i + 1, Total: total, Err: err})
			continue
		}
		if err != nil {
			return err
		}

		img = pipeline.Apply(img, stages)

		paths, err := writer.Write(ctx, img, spec.OutputDir, BaseName(spec.Chapter, i))
		for _, p := range paths {
			res.Images = append(res.Images, p)
			emit(Event{Kind: EventImageWritten, Page: i + 1, Total: total, Path: p})
		}
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}

	emit(Event{Kind: EventImagesDone, Count: len(res.Images), Total: total})
	return nil
}

// openRasterizer creates the rasterizer for backend.
func (c *Converter) openRasterizer(b RenderBackend, spec OutputSpec, tmpDir string) (rasterizer, error) {
	if b.Kind == RenderExternal {
		return &toolRasterizer{
			backend: b,
			source:  spec.Source,
			dpi:     spec.DPI,
			tmpDir:  tmpDir,
			runner:  c.runner,
		}, nil
	}
	return openFitz(spec.Source, spec.DPI)
}
