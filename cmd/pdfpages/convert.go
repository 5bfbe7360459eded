package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	pdfpages "github.com/alnah/go-pdfpages"
	"github.com/alnah/go-pdfpages/internal/config"
)

// ErrNoInput is returned when convert is called without a source PDF.
var ErrNoInput = errors.New("no input PDF given")

// runConvertCmd parses flags, runs the conversion, and maps the outcome to
// an exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printConvertUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		fmt.Fprintln(env.Stderr)
		printConvertUsage(env.Stderr)
		return ExitUsage
	}

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert loads settings, starts the conversion, and reports progress.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	cfg, envCfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}

	source, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}

	spec := buildOutputSpec(source, cfg)
	if err := spec.Validate(); err != nil {
		return err
	}

	opts := append(env.converterOptions(),
		pdfpages.WithLogger(newLogger(env, flags.common.verbose)),
		pdfpages.WithTempDir(envCfg.TempDir),
	)
	conv := pdfpages.NewConverter(opts...)

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Converting %s -> %s (%s, %d dpi)\n",
			spec.Source, spec.OutputDir, spec.Outputs, spec.DPI)
	}

	start := env.Now()
	job := conv.Start(ctx, spec)

	reporter := newReporter(env, flags)
	for ev := range job.Events() {
		reporter.handle(ev)
	}
	res, err := job.Wait()
	reporter.finish()

	if err != nil {
		return err
	}

	printSummary(env, res, spec, env.Now().Sub(start), flags.common.quiet, flags.common.verbose)
	return nil
}

// resolveConfig layers config file, environment, and flags, in increasing
// precedence, and validates the result.
func resolveConfig(flags *convertFlags, env *Environment) (*config.Config, *envConfig, error) {
	src, err := newEnvSource(env)
	if err != nil {
		return nil, nil, err
	}
	envCfg := loadEnvConfig(src)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr, src)
		warnInvalidEnvVars(env.Stderr, envCfg)
	}

	cfg := config.DefaultConfig()
	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, envCfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
// Zero means unset in the config, so an explicit --dpi, --scale or
// --quality of 0 is a usage error.
func mergeFlags(flags *convertFlags, cfg *config.Config) error {
	if err := rejectExplicitZero(flags); err != nil {
		return err
	}

	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}

	// Format flags replace the configured list rather than extending it.
	if flags.formats.any() {
		var formats []string
		if flags.formats.pdf {
			formats = append(formats, config.FormatPDF)
		}
		if flags.formats.png {
			formats = append(formats, config.FormatPNG)
		}
		if flags.formats.webp {
			formats = append(formats, config.FormatWebP)
		}
		cfg.Output.Formats = formats
	}

	if flags.set("dpi") {
		cfg.Image.DPI = flags.image.dpi
	}
	if flags.set("padding") {
		cfg.Image.Padding = flags.image.padding
	}
	if flags.set("scale") {
		cfg.Image.Scale = flags.image.scale
	}
	if flags.set("quality") {
		cfg.Image.Quality = flags.image.quality
	}
	if flags.set("external") {
		cfg.Render.External = flags.external
	}
	if flags.set("chapter") {
		cfg.Chapter = flags.chapter
	}
	return nil
}

func rejectExplicitZero(flags *convertFlags) error {
	checks := []struct {
		name     string
		value    int
		sentinel error
	}{
		{"dpi", flags.image.dpi, pdfpages.ErrInvalidDPI},
		{"scale", flags.image.scale, pdfpages.ErrInvalidScale},
		{"quality", flags.image.quality, pdfpages.ErrInvalidQuality},
	}
	for _, c := range checks {
		if flags.set(c.name) && c.value == 0 {
			return fmt.Errorf("%w: %w: --%s 0", ErrUsage, c.sentinel, c.name)
		}
	}
	return nil
}

// resolveInputPath returns the single positional PDF argument.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input PDF, got %d", ErrUsage, len(args))
	}
}

// defaultOutputDir places pages next to the source, in <name>_pages.
func defaultOutputDir(source string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(source), stem+"_pages")
}

// buildOutputSpec converts the merged config into a run specification.
// Zero config values keep the library defaults.
func buildOutputSpec(source string, cfg *config.Config) pdfpages.OutputSpec {
	outputDir := cfg.Output.Dir
	if outputDir == "" {
		outputDir = defaultOutputDir(source)
	}

	spec := pdfpages.DefaultOutputSpec(source, outputDir)
	spec.Outputs = pdfpages.Outputs{
		PDF:  cfg.HasFormat(config.FormatPDF),
		PNG:  cfg.HasFormat(config.FormatPNG),
		WebP: cfg.HasFormat(config.FormatWebP),
	}
	if cfg.Image.DPI > 0 {
		spec.DPI = cfg.Image.DPI
	}
	spec.Padding = cfg.Image.Padding
	if cfg.Image.Scale > 0 {
		spec.ScalePercent = cfg.Image.Scale
	}
	if cfg.Image.Quality > 0 {
		spec.Quality = cfg.Image.Quality
	}
	spec.ExternalRenderer = cfg.Render.External
	spec.Chapter = cfg.Chapter
	return spec
}

// newLogger returns a debug console logger on stderr when verbose, and a
// no-op logger otherwise.
func newLogger(env *Environment, verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        env.Stderr,
		NoColor:    true,
		TimeFormat: time.Kitchen,
	}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// printSummary reports what was written.
func printSummary(env *Environment, res *pdfpages.Result, spec pdfpages.OutputSpec, elapsed time.Duration, quiet, verbose bool) {
	if len(res.Skipped) > 0 {
		pages := make([]string, len(res.Skipped))
		for i, p := range res.Skipped {
			pages[i] = fmt.Sprint(p)
		}
		fmt.Fprintf(env.Stderr, "warning: skipped unrenderable page(s): %s\n", strings.Join(pages, ", "))
	}

	if quiet {
		return
	}

	if verbose && spec.Outputs.Images() {
		fmt.Fprintf(env.Stdout, "Renderer: %s\n", res.Renderer)
		if spec.Outputs.WebP {
			fmt.Fprintf(env.Stdout, "Encoder: %s\n", res.Encoder)
		}
	}

	fmt.Fprintf(env.Stdout, "Done: %d page(s), %d PDF(s), %d image(s) in %s",
		res.Pages, len(res.Documents), len(res.Images), spec.OutputDir)
	if verbose {
		fmt.Fprintf(env.Stdout, " (%v)", elapsed.Round(time.Millisecond))
	}
	fmt.Fprintln(env.Stdout)
}
