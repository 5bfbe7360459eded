//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// KillProcessGroup kills a tool and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; cmd.Wait reports the outcome to the caller
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// isolate places the command in its own process group so that
// KillProcessGroup reaches helpers the tool spawns.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
