//go:build windows

package runner

// fixOutputProcessing is a no-op on Windows, where console output is not
// affected by raw input mode.
func fixOutputProcessing(fd int) {}
