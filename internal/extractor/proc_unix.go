//go:build linux || darwin
// +build linux darwin

package extractor

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the tool in its own process group so cancellation can
// reap any helpers it spawned (e.g. ffmpeg for thumbnail conversion).
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate kills the tool's whole process group.
func terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
