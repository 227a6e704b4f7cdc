//go:build windows

package dispatch

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func configure(cmd *exec.Cmd, spec Spec) {
	attr := &syscall.SysProcAttr{CmdLine: spec.CmdLine}
	if spec.Mode == Detached {
		attr.CreationFlags = windows.CREATE_NEW_PROCESS_GROUP
	}
	cmd.SysProcAttr = attr
}
