package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// formatFlags selects output kinds. Unset kinds fall back to the config.
type formatFlags struct {
	pdf  bool
	png  bool
	webp bool
}

// any reports whether at least one kind was requested on the command line.
func (f formatFlags) any() bool {
	return f.pdf || f.png || f.webp
}

// imageFlags holds raster settings. Values are applied only when the
// flag was set explicitly, so 0 padding can override a config value.
type imageFlags struct {
	dpi     int
	padding int
	scale   int
	quality int
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	formats  formatFlags
	image    imageFlags
	external bool
	chapter  string
	progress bool

	// changed records flags set on the command line.
	changed map[string]bool
}

// set reports whether the named flag was given explicitly.
func (f *convertFlags) set(name string) bool {
	return f.changed[name]
}

// addCommonFlags adds config, quiet, and verbose flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show backend choices and debug logs")
}

// addFormatFlags adds output kind flags to a FlagSet.
func addFormatFlags(fs *flag.FlagSet, f *formatFlags) {
	fs.BoolVar(&f.pdf, "pdf", false, "write one PDF per page")
	fs.BoolVar(&f.png, "png", false, "write one PNG per page")
	fs.BoolVar(&f.webp, "webp", false, "write one WebP per page")
}

// addImageFlags adds raster settings flags to a FlagSet.
func addImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.IntVar(&f.dpi, "dpi", 0, "render resolution (default 300)")
	fs.IntVar(&f.padding, "padding", 0, "white margin in pixels after trimming")
	fs.IntVar(&f.scale, "scale", 0, "resize percent, 10-400 (default 100)")
	fs.IntVar(&f.quality, "quality", 0, "WebP quality, 1-100 (default 90)")
}

// newConvertFlagSet registers every convert flag on a new FlagSet bound
// to f. Parsing and shell completion share it.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.BoolVar(&f.external, "external", false, "rasterize with pdftocairo/pdftoppm")
	fs.StringVar(&f.chapter, "chapter", "", "chapter label for file names")
	fs.BoolVar(&f.progress, "progress", false, "show a progress bar instead of lines")

	addCommonFlags(fs, &f.common)
	addFormatFlags(fs, &f.formats)
	addImageFlags(fs, &f.image)
	return fs
}

// parseConvertFlags parses convert command flags.
// Returns the flags and the remaining positional arguments.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{changed: make(map[string]bool)}
	fs := newConvertFlagSet(f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })
	return f, fs.Args(), nil
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json bool
}

func newDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	return fs
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newDoctorFlagSet(f)

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return f, nil
}
