//go:build windows
// +build windows

package extractor

import "os/exec"

// setProcessGroup is a no-op on Windows; process groups work differently and
// the service runs in Linux containers anyway.
func setProcessGroup(cmd *exec.Cmd) {}

// terminate kills only the tool process itself.
func terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
