//go:build windows
// +build windows

package progress

// Windows has no SIGUSR1 or SIGINFO.
func setupSignals() {}
