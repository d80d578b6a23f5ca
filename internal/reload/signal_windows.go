//go:build windows

package reload

import "fmt"

// signalReload is not supported on Windows.
func signalReload(pid int) error {
	return fmt.Errorf("reload signals are not supported on Windows (PID %d)", pid)
}
