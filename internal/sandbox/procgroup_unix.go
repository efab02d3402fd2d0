//go:build unix

package sandbox

import (
	"os/exec"
	"syscall"
	"time"
)

// configureProcessGroup puts cmd in its own process group so cancellation
// reaches the shell and everything it started. With a grace period the group
// gets SIGTERM first and SIGKILL once the grace period has passed.
func configureProcessGroup(cmd *exec.Cmd, grace time.Duration) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		group := -cmd.Process.Pid
		if grace <= 0 {
			return syscall.Kill(group, syscall.SIGKILL)
		}
		if err := syscall.Kill(group, syscall.SIGTERM); err != nil {
			return syscall.Kill(group, syscall.SIGKILL)
		}
		go func() {
			time.Sleep(grace)
			_ = syscall.Kill(group, syscall.SIGKILL)
		}()
		return nil
	}
	cmd.WaitDelay = grace + time.Second
}
