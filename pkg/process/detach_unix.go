//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own process group so terminal signals sent
// to workon do not reach it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
