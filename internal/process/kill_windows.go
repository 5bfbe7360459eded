//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills a tool and all its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; cmd.Wait reports the outcome to the caller
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

// isolate is a no-op on Windows: taskkill /T already walks the process tree.
func isolate(*exec.Cmd) {}
