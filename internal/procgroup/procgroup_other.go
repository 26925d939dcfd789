//go:build !unix

package procgroup

import (
	"os/exec"
)

// Set is a no-op on platforms without process groups.
func Set(cmd *exec.Cmd) {}

// Only the root process can be stopped here.
func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
