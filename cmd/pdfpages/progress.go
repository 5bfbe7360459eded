package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	pdfpages "github.com/alnah/go-pdfpages"
)

// reporter consumes conversion events in order.
type reporter interface {
	handle(ev pdfpages.Event)
	finish()
}

// newReporter picks a progress bar, event lines, or silence.
func newReporter(env *Environment, flags *convertFlags) reporter {
	switch {
	case flags.common.quiet:
		return quietReporter{}
	case flags.progress:
		return &barReporter{w: env.Stderr}
	default:
		return &lineReporter{w: env.Stdout}
	}
}

// quietReporter discards events. Skipped pages still appear in the summary.
type quietReporter struct{}

func (quietReporter) handle(pdfpages.Event) {}
func (quietReporter) finish()               {}

// lineReporter prints one line per event.
type lineReporter struct {
	w io.Writer
}

func (r *lineReporter) handle(ev pdfpages.Event) {
	fmt.Fprintln(r.w, ev.String())
}

func (r *lineReporter) finish() {}

// barReporter draws one progress bar per phase: splitting, then rendering.
type barReporter struct {
	w     io.Writer
	bar   *progressbar.ProgressBar
	phase pdfpages.EventKind
}

func (r *barReporter) handle(ev pdfpages.Event) {
	switch ev.Kind {
	case pdfpages.EventPageSplit:
		r.advance(pdfpages.EventPageSplit, "Splitting", ev)
	case pdfpages.EventImageWritten, pdfpages.EventPageSkipped:
		r.advance(pdfpages.EventImageWritten, "Rendering", ev)
	case pdfpages.EventSplitDone, pdfpages.EventImagesDone:
		r.finish()
	}
}

// advance moves the bar for phase to ev.Page, creating it on first use.
// A page with both PNG and WebP output reports the same page twice.
func (r *barReporter) advance(phase pdfpages.EventKind, description string, ev pdfpages.Event) {
	if r.bar == nil || r.phase != phase {
		r.finish()
		r.phase = phase
		r.bar = progressbar.NewOptions(ev.Total,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("pages"),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(r.w, "\n")
			}),
		)
	}
	_ = r.bar.Set(ev.Page)
}

func (r *barReporter) finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
}
