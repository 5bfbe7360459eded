package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoOutput is returned when a tool exits cleanly but none of the
// expected output files exist.
var ErrNoOutput = errors.New("no output file produced")

// Call describes one tool invocation and where its output may appear.
// Tools disagree on output naming, so Candidates lists every name the tool
// might choose, in priority order. When none exists, ScanDir is searched
// for a file starting with ScanPrefix and ending with ScanExt.
type Call struct {
	Path       string
	Args       []string
	Candidates []string
	ScanDir    string
	ScanPrefix string
	ScanExt    string
}

// Output is the file a tool produced.
type Output struct {
	Path   string
	Result Result
	call   Call
}

// Discard removes the output file and every candidate path.
// Missing files are ignored.
func (o *Output) Discard() {
	removeQuietly(append([]string{o.Path}, o.call.Candidates...)...)
}

// Invoke runs the tool described by call and locates its output.
// Launch and exit failures are returned as *LaunchError and *ExitError.
// On any failure the candidate paths are removed before returning.
func Invoke(ctx context.Context, r Runner, call Call) (*Output, error) {
	res, err := r.Run(ctx, call.Path, call.Args...)
	if err != nil {
		removeQuietly(call.Candidates...)
		return nil, err
	}

	path, ok := locate(call)
	if !ok {
		removeQuietly(call.Candidates...)
		return nil, fmt.Errorf("%w: %s (tried %s)", ErrNoOutput, filepath.Base(call.Path), strings.Join(call.Candidates, ", "))
	}

	return &Output{Path: path, Result: res, call: call}, nil
}

// locate returns the first existing candidate, then falls back to a
// prefix/extension scan of ScanDir.
func locate(call Call) (string, bool) {
	for _, candidate := range call.Candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}

	if call.ScanDir == "" {
		return "", false
	}
	entries, err := os.ReadDir(call.ScanDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() &&
			strings.HasPrefix(name, call.ScanPrefix) &&
			strings.EqualFold(filepath.Ext(name), call.ScanExt) {
			return filepath.Join(call.ScanDir, name), true
		}
	}
	return "", false
}

func removeQuietly(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
