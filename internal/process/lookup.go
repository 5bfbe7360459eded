package process

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FallbackDirs are searched after PATH. GUI launchers and cron jobs often
// start with a PATH that misses package-manager install locations.
var FallbackDirs = []string{
	"/usr/local/bin",
	"/opt/homebrew/bin",
	"/usr/bin",
	"/opt/local/bin",
	"/snap/bin",
	"/bin",
}

// LookupFunc resolves an executable name to an absolute path.
type LookupFunc func(name string) (string, bool)

// LookPath searches the inherited PATH, then FallbackDirs.
func LookPath(name string) (string, bool) {
	return Find(name, SearchDirs(os.Getenv("PATH"), FallbackDirs))
}

// SearchDirs returns the PATH entries in order followed by fallback,
// without duplicates or empty entries.
func SearchDirs(pathEnv string, fallback []string) []string {
	seen := make(map[string]bool)
	var dirs []string

	add := func(dir string) {
		if dir == "" {
			return
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	for _, dir := range filepath.SplitList(pathEnv) {
		add(dir)
	}
	for _, dir := range fallback {
		add(dir)
	}
	return dirs
}

// Find returns the first dir/name that is an executable regular file.
func Find(name string, dirs []string) (string, bool) {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// isExecutable reports whether path is a regular file with an execute bit.
// Windows has no execute bit; the .exe suffix stands in for it.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return strings.EqualFold(filepath.Ext(path), ".exe")
	}
	return info.Mode().Perm()&0o111 != 0
}
