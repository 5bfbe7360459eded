package main

import (
	"testing"

	"github.com/alnah/go-pdfpages/internal/config"
	"github.com/alnah/go-pdfpages/internal/yamlutil"
)

// ---------------------------------------------------------------------------
// TestRunConfigCmd - Effective settings output
// ---------------------------------------------------------------------------

func TestRunConfigCmd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(map[string]string{"PDFPAGES_DPI": "120"})
	code := runConfigCmd([]string{"book.pdf", "--webp", "--quality", "75"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runConfigCmd() = %d, want ExitSuccess\nstderr: %s", code, env.stderr)
	}

	var got config.Config
	if err := yamlutil.UnmarshalStrict(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not a valid config: %v\n%s", err, env.stdout)
	}
	if got.Image.DPI != 120 || got.Image.Quality != 75 || !got.HasFormat(config.FormatWebP) {
		t.Errorf("config = %+v", got)
	}
}

func TestRunConfigCmd_InvalidValue(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil)
	if code := runConfigCmd([]string{"--quality", "300"}, env.Environment); code != ExitUsage {
		t.Errorf("runConfigCmd() = %d, want ExitUsage", code)
	}
}
