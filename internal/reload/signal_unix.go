//go:build unix

package reload

import (
	"fmt"
	"syscall"
)

// signalReload sends SIGUSR1, which kitty and polybar treat as a request to
// reload their configuration.
func signalReload(pid int) error {
	if err := syscall.Kill(pid, syscall.SIGUSR1); err != nil {
		return fmt.Errorf("failed to send reload signal to PID %d: %w", pid, err)
	}
	return nil
}
