//go:build windows

package runner

import "syscall"

var (
	kernel32                     = syscall.NewLazyDLL("kernel32.dll")
	procGenerateConsoleCtrlEvent = kernel32.NewProc("GenerateConsoleCtrlEvent")
)

// sendInterrupt re-raises Ctrl+C so the normal shutdown path runs after the
// raw-mode stdin reader swallowed the keypress.
func sendInterrupt() {
	// CTRL_C_EVENT (0) to the current process group (0).
	procGenerateConsoleCtrlEvent.Call(0, 0)
}
