// Package procgroup starts external tools in their own process group so a
// whole tool tree can be stopped together.
package procgroup

import (
	"errors"
	"os"
	"os/exec"
)

// Terminate asks the process group of cmd to stop.
// It is safe to call on commands that never started or already exited.
func Terminate(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	err := terminate(cmd)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
