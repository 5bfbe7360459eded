package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	fcolor "github.com/fatih/color"
	xwebp "golang.org/x/image/webp"

	pdfpages "github.com/alnah/go-pdfpages"
	"github.com/alnah/go-pdfpages/internal/imgenc"
	"github.com/alnah/go-pdfpages/internal/process"
)

// versionTimeout bounds each "tool -v" call.
const versionTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string     `json:"status"` // "ready", "warnings", "errors"
	Renderers []toolInfo `json:"renderers"`
	Encoders  []toolInfo `json:"encoders"`
	Env       envInfo    `json:"environment"`
	System    systemInfo `json:"system"`
	Warnings  []string   `json:"warnings,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
}

// toolInfo describes one rendering or encoding backend.
type toolInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Builtin bool   `json:"builtin,omitempty"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	result := runDoctor(env.Context(), env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkRenderers(ctx, env, result)
	checkEncoders(ctx, env, result)
	checkEnvironment(env, result)
	checkSystem(env, result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkRenderers lists the in-process renderer and the poppler tools.
// Missing poppler tools only disable --external.
func checkRenderers(ctx context.Context, env *Environment, result *doctorResult) {
	result.Renderers = append(result.Renderers, toolInfo{
		Name:    pdfpages.RenderBackend{Kind: pdfpages.RenderInProcess}.String(),
		Found:   true,
		Builtin: true,
	})

	anyExternal := false
	for _, tool := range pdfpages.RenderTools {
		info := lookupTool(ctx, env, tool.String(), "-v")
		anyExternal = anyExternal || info.Found
		result.Renderers = append(result.Renderers, info)
	}
	if !anyExternal {
		result.Warnings = append(result.Warnings,
			"pdftocairo/pdftoppm not found: --external is unavailable (install poppler)")
	}
}

// checkEncoders reports WebP encoding backends and self-tests the built-in one.
func checkEncoders(ctx context.Context, env *Environment, result *doctorResult) {
	builtin := toolInfo{Name: "webp (built-in)", Builtin: true}
	if imgenc.HasBuiltinWebP() {
		if err := webpSelfTest(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Built-in WebP encoder failed self-test: %v", err))
		} else {
			builtin.Found = true
		}
	}
	result.Encoders = append(result.Encoders, builtin)

	cwebp := lookupTool(ctx, env, pdfpages.CwebpTool, "-version")
	result.Encoders = append(result.Encoders, cwebp)

	if !builtin.Found && !cwebp.Found {
		result.Warnings = append(result.Warnings,
			"No WebP encoder: --webp is unavailable (install cwebp or rebuild without nowebp)")
	}
}

// webpSelfTest encodes a small image and checks the result decodes.
func webpSelfTest() error {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(2, 2, color.NRGBA{A: 0xff})

	var buf bytes.Buffer
	if err := imgenc.EncodeWebP(&buf, img, imgenc.DefaultQuality); err != nil {
		return err
	}
	cfg, err := xwebp.DecodeConfig(&buf)
	if err != nil {
		return err
	}
	if cfg.Width != 8 || cfg.Height != 4 {
		return fmt.Errorf("decoded size %dx%d, want 8x4", cfg.Width, cfg.Height)
	}
	return nil
}

// lookupTool resolves name and asks it for its version.
func lookupTool(ctx context.Context, env *Environment, name, versionFlag string) toolInfo {
	info := toolInfo{Name: name}
	if env.LookPath == nil {
		return info
	}
	path, ok := env.LookPath(name)
	if !ok {
		return info
	}
	info.Found = true
	info.Path = path
	if env.Runner != nil {
		info.Version = toolVersion(ctx, env.Runner, path, versionFlag)
	}
	return info
}

// toolVersion returns the first line the tool prints for its version flag.
// Some poppler builds exit non-zero after printing it.
func toolVersion(ctx context.Context, r process.Runner, path, versionFlag string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	res, err := r.Run(ctx, path, versionFlag)
	out := res.Combined()
	var exitErr *process.ExitError
	if err != nil {
		if !errors.As(err, &exitErr) {
			return ""
		}
		out = exitErr.Output
	}
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(line)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(env *Environment, result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env.getenv)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if env.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("PDFPAGES_CONTAINER") == "1" {
		return true, "PDFPAGES_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the scratch directory used for tool output is writable.
func checkSystem(env *Environment, result *doctorResult) {
	tmpDir := env.getenv("PDFPAGES_TEMP_DIR")
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	result.System.TempDir = tmpDir

	testFile := filepath.Join(tmpDir, "pdfpages-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

var (
	markOK    = fcolor.New(fcolor.FgGreen).Sprint("[OK]")
	markWarn  = fcolor.New(fcolor.FgYellow).Sprint("[WARN]")
	markError = fcolor.New(fcolor.FgRed).Sprint("[ERROR]")
	markNone  = fcolor.New(fcolor.Faint).Sprint("[--]")
)

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pdfpages doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Renderers")
	for _, t := range r.Renderers {
		printTool(w, t)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "WebP encoders")
	for _, t := range r.Encoders {
		printTool(w, t)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  %s Platform: %s/%s\n", markOK, r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  %s Container: detected (%s)\n", markOK, r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintf(w, "  %s CI: detected\n", markOK)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  %s Temp directory: writable (%s)\n", markOK, r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  %s Temp directory: not writable (%s)\n", markError, r.System.TempDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  %s %s\n", markWarn, warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  %s %s\n", markError, err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printTool prints one backend line.
func printTool(w io.Writer, t toolInfo) {
	switch {
	case !t.Found:
		fmt.Fprintf(w, "  %s %s: not found\n", markNone, t.Name)
	case t.Builtin:
		fmt.Fprintf(w, "  %s %s\n", markOK, t.Name)
	case t.Version != "":
		fmt.Fprintf(w, "  %s %s: %s (%s)\n", markOK, t.Name, t.Path, t.Version)
	default:
		fmt.Fprintf(w, "  %s %s: %s\n", markOK, t.Name, t.Path)
	}
}
