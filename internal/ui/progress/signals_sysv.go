//go:build aix || linux || solaris
// +build aix linux solaris

package progress

import (
	"os/signal"
	"syscall"
)

func setupSignals() {
	signal.Notify(signals.ch, syscall.SIGUSR1)
}
