// Package process runs external command-line tools synchronously, locates
// the files they produce and cleans up after them.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Sentinel errors for tool invocation failures.
var (
	ErrLaunch = errors.New("launch failed")
	ErrExit   = errors.New("execution failed")
)

// Result holds the captured output of a finished tool.
type Result struct {
	Stdout string
	Stderr string
}

// Combined returns stdout followed by stderr, whitespace-trimmed.
func (r Result) Combined() string {
	return strings.TrimSpace(r.Stdout + r.Stderr)
}

// Runner abstracts command execution to enable testing without real subprocesses.
type Runner interface {
	Run(ctx context.Context, path string, args ...string) (Result, error)
}

// LaunchError reports a tool that could not be started at all.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrLaunch, e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Is matches ErrLaunch in addition to the wrapped OS error.
func (e *LaunchError) Is(target error) bool { return target == ErrLaunch }

// ExitError reports a tool that ran but exited with a non-zero status.
// Output holds stdout+stderr, trimmed.
type ExitError struct {
	Path   string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: %s exited with status %d", ErrExit, e.Path, e.Code)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// Is matches ErrExit.
func (e *ExitError) Is(target error) bool { return target == ErrExit }

// ExecRunner implements Runner using os/exec.
// Tools run in their own process group; cancelling ctx kills the whole group.
type ExecRunner struct{}

// Run executes path with args and waits for it to finish.
func (ExecRunner) Run(ctx context.Context, path string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 -- path comes from LookPath
	isolate(cmd)
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{}, &LaunchError{Path: path, Err: err}
	}

	err := cmd.Wait()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("%s: %w", path, ctxErr)
		}
		return res, &ExitError{Path: path, Code: exitErr.ExitCode(), Output: res.Combined()}
	}
	return res, &LaunchError{Path: path, Err: err}
}
