package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-pdfpages/internal/config"
)

const envPrefix = "PDFPAGES_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
// Integer fields are 0, and Padding and External nil, when unset or
// unparsable. Unparsable values are collected in Invalid.
type envConfig struct {
	ConfigPath string   // PDFPAGES_CONFIG: config file name or path
	OutputDir  string   // PDFPAGES_OUTPUT_DIR: output directory
	Formats    []string // PDFPAGES_FORMATS: comma-separated pdf,png,webp
	DPI        int      // PDFPAGES_DPI
	Padding    *int     // PDFPAGES_PADDING: 0 is a valid override
	Scale      int      // PDFPAGES_SCALE
	Quality    int      // PDFPAGES_QUALITY
	External   *bool    // PDFPAGES_EXTERNAL: true/false
	Chapter    string   // PDFPAGES_CHAPTER
	TempDir    string   // PDFPAGES_TEMP_DIR: scratch space for tool output

	Invalid []envWarning
}

// envWarning describes a variable whose value was ignored.
type envWarning struct {
	Name  string
	Value string
	Want  string
}

func (w envWarning) String() string {
	return fmt.Sprintf("warning: ignoring %s=%q (want %s)", w.Name, w.Value, w.Want)
}

// knownEnvVars lists valid PDFPAGES_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PDFPAGES_CONFIG":     true,
	"PDFPAGES_OUTPUT_DIR": true,
	"PDFPAGES_FORMATS":    true,
	"PDFPAGES_DPI":        true,
	"PDFPAGES_PADDING":    true,
	"PDFPAGES_SCALE":      true,
	"PDFPAGES_QUALITY":    true,
	"PDFPAGES_EXTERNAL":   true,
	"PDFPAGES_CHAPTER":    true,
	"PDFPAGES_TEMP_DIR":   true,
	"PDFPAGES_CONTAINER":  true, // read by doctor
}

// envSource resolves variables from the process environment first, then
// from a .env file. Process variables always win.
type envSource struct {
	getenv  func(string) string
	environ func() []string
	dotenv  map[string]string
}

// newEnvSource reads the .env file named by env.DotEnv, if any.
// A missing file is not an error; a malformed one is.
func newEnvSource(env *Environment) (*envSource, error) {
	src := &envSource{getenv: env.Getenv, environ: env.Environ}
	if src.getenv == nil {
		src.getenv = func(string) string { return "" }
	}
	if src.environ == nil {
		src.environ = func() []string { return nil }
	}
	if env.DotEnv == "" {
		return src, nil
	}

	values, err := godotenv.Read(env.DotEnv)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return src, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUsage, env.DotEnv, err)
	}
	src.dotenv = values
	return src, nil
}

// get returns the value of name, preferring the process environment.
func (s *envSource) get(name string) string {
	if v := s.getenv(name); v != "" {
		return v
	}
	return s.dotenv[name]
}

// names returns every PDFPAGES_* variable visible from either source, sorted.
func (s *envSource) names() []string {
	seen := make(map[string]bool)
	for _, kv := range s.environ() {
		name := strings.SplitN(kv, "=", 2)[0]
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	for name := range s.dotenv {
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized PDFPAGES_* values.
func loadEnvConfig(src *envSource) *envConfig {
	cfg := &envConfig{
		ConfigPath: src.get("PDFPAGES_CONFIG"),
		OutputDir:  src.get("PDFPAGES_OUTPUT_DIR"),
		Chapter:    src.get("PDFPAGES_CHAPTER"),
		TempDir:    src.get("PDFPAGES_TEMP_DIR"),
	}

	cfg.DPI, _ = cfg.intVar(src, "PDFPAGES_DPI", 1)
	cfg.Scale, _ = cfg.intVar(src, "PDFPAGES_SCALE", 1)
	cfg.Quality, _ = cfg.intVar(src, "PDFPAGES_QUALITY", 1)
	if n, ok := cfg.intVar(src, "PDFPAGES_PADDING", 0); ok {
		cfg.Padding = &n
	}

	if formats := src.get("PDFPAGES_FORMATS"); formats != "" {
		for _, f := range strings.Split(formats, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.Formats = append(cfg.Formats, f)
			}
		}
	}

	if external := strings.TrimSpace(src.get("PDFPAGES_EXTERNAL")); external != "" {
		if b, err := strconv.ParseBool(external); err == nil {
			cfg.External = &b
		} else {
			cfg.Invalid = append(cfg.Invalid, envWarning{"PDFPAGES_EXTERNAL", external, "true or false"})
		}
	}

	return cfg
}

// intVar parses name as an integer no smaller than least. It reports false when
// the variable is unset or invalid; invalid values are recorded.
func (c *envConfig) intVar(src *envSource, name string, least int) (int, bool) {
	raw := strings.TrimSpace(src.get(name))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < least {
		want := "a positive integer"
		if least == 0 {
			want = "zero or a positive integer"
		}
		c.Invalid = append(c.Invalid, envWarning{name, raw, want})
		return 0, false
	}
	return n, true
}

// warnUnknownEnvVars logs warnings for unrecognized PDFPAGES_* variables.
// Helps catch typos like PDFPAGES_DIP instead of PDFPAGES_DPI.
func warnUnknownEnvVars(w io.Writer, src *envSource) {
	for _, name := range src.names() {
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// warnInvalidEnvVars logs warnings for PDFPAGES_* values that were ignored.
func warnInvalidEnvVars(w io.Writer, env *envConfig) {
	for _, inv := range env.Invalid {
		fmt.Fprintln(w, inv)
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; flags are applied later via
// mergeFlags. Resulting precedence: flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if len(env.Formats) > 0 {
		cfg.Output.Formats = env.Formats
	}
	if env.DPI > 0 {
		cfg.Image.DPI = env.DPI
	}
	if env.Padding != nil {
		cfg.Image.Padding = *env.Padding
	}
	if env.Scale > 0 {
		cfg.Image.Scale = env.Scale
	}
	if env.Quality > 0 {
		cfg.Image.Quality = env.Quality
	}
	if env.External != nil {
		cfg.Render.External = *env.External
	}
	if env.Chapter != "" {
		cfg.Chapter = env.Chapter
	}
}
