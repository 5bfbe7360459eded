// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"runtime"
	"strings"

	"github.com/alnah/go-pdfpages/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// GOOS is the platform used to pick install commands. Overridable in tests.
var GOOS = runtime.GOOS

// ForRenderer returns install hints when no external rasterizer was found.
// Both pdftocairo and pdftoppm ship with poppler.
func ForRenderer() string {
	hints := []string{installCommand("poppler-utils", "poppler", "poppler")}
	hints = append(hints, "or drop --external to use the built-in renderer")
	return formatHints(hints)
}

// ForEncoder returns install hints when WebP output has no encoder.
// cwebp ships with libwebp.
func ForEncoder() string {
	return formatHints([]string{
		installCommand("webp", "webp", "libwebp-tools"),
		"or rebuild without the nowebp tag",
	})
}

// ForInvalidDocument returns hints for unreadable source documents.
func ForInvalidDocument() string {
	return format("check the file is a PDF and is not encrypted or truncated")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-pdfpages/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-pdfpages) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-pdfpages") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// installCommand picks the package-manager command for the current platform.
// Containers are assumed to be Debian-based unless they are Alpine.
func installCommand(aptPkg, brewPkg, apkPkg string) string {
	switch GOOS {
	case "darwin":
		return "brew install " + brewPkg
	case "windows":
		return "install " + brewPkg + " and add its bin directory to PATH"
	}
	if IsInContainer() && fileutil.FileExists("/etc/alpine-release") {
		return "apk add " + apkPkg
	}
	return "apt-get install " + aptPkg
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
