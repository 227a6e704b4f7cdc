//go:build unix

package dispatch

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func configure(cmd *exec.Cmd, spec Spec) {
	switch spec.Mode {
	case Detached:
		// New session: the program outlives fae and its terminal signals.
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	case Capture:
		// Own process group so a timeout kills installer subprocesses too.
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		cmd.Cancel = func() error {
			return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
		}
	}
}
