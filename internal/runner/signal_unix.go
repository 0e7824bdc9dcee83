//go:build !windows

package runner

import (
	"os"
	"syscall"
)

// sendInterrupt re-raises SIGINT so the normal shutdown path runs after the
// raw-mode stdin reader swallowed the Ctrl+C keypress.
func sendInterrupt() {
	syscall.Kill(os.Getpid(), syscall.SIGINT)
}
