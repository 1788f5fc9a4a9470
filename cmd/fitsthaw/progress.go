package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fitsthaw/fitsthaw/internal/ui"
	"github.com/fitsthaw/fitsthaw/internal/ui/progress"
)

// calculateProgressInterval returns the interval configured via
// $FITSTHAW_PROGRESS_FPS, or if unset returns an interval for 60fps on
// interactive terminals and 0 (= disabled) everywhere else.
func calculateProgressInterval(show bool) time.Duration {
	interval := time.Second / 60
	fps, err := strconv.ParseFloat(os.Getenv("FITSTHAW_PROGRESS_FPS"), 64)
	if err == nil && fps > 0 {
		if fps > 60 {
			fps = 60
		}
		interval = time.Duration(float64(time.Second) / fps)
	} else if !stdoutIsTerminal() || !show {
		interval = 0
	}
	return interval
}

// newProgressMax returns a progress.Counter that prints to stdout.
func newProgressMax(show bool, max uint64, description string) *progress.Counter {
	if !show {
		return nil
	}
	interval := calculateProgressInterval(show)

	return progress.NewCounter(interval, max, func(v uint64, max uint64, d time.Duration, final bool) {
		var status string
		if max == 0 {
			status = fmt.Sprintf("[%s]          %d %s",
				ui.FormatDuration(d), v, description)
		} else {
			status = fmt.Sprintf("[%s] %s  %d / %d %s",
				ui.FormatDuration(d), ui.FormatPercent(v, max), v, max, description)
		}

		printProgress(status, final)
	})
}

// printProgress prints the status to stdout. On a terminal the cursor is
// moved back to the start of the line so the next report overwrites it.
func printProgress(status string, final bool) {
	canUpdateStatus := stdoutIsTerminal()

	w := stdoutTerminalWidth()
	if w > 0 {
		if w < 3 {
			status = ui.Truncate(status, w)
		} else {
			trunc := ui.Truncate(status, w-3)
			if len(trunc) < len(status) {
				status = trunc + "..."
			}
		}
	}

	var carriageControl, clear string

	if canUpdateStatus {
		clear = clearLine(w)
	}

	if !(strings.HasSuffix(status, "\r") || strings.HasSuffix(status, "\n")) {
		if canUpdateStatus {
			carriageControl = "\r"
		} else {
			carriageControl = "\n"
		}
	}

	_, _ = os.Stdout.Write([]byte(clear + status + carriageControl))
	if final {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

// terminalProgressPrinter prints messages and counters to the configured
// streams, honoring the verbosity set on the command line.
type terminalProgressPrinter struct {
	show      bool
	verbosity uint
}

func newTerminalProgressPrinter(verbosity uint) progress.Printer {
	return &terminalProgressPrinter{
		show:      verbosity > 0,
		verbosity: verbosity,
	}
}

func (t *terminalProgressPrinter) NewCounter(description string) *progress.Counter {
	return newProgressMax(t.show, 0, description)
}

func (t *terminalProgressPrinter) E(msg string, args ...interface{}) {
	Warnf(msg+"\n", args...)
}

func (t *terminalProgressPrinter) P(msg string, args ...interface{}) {
	if t.verbosity >= 1 {
		Printf(msg+"\n", args...)
	}
}

func (t *terminalProgressPrinter) V(msg string, args ...interface{}) {
	if t.verbosity >= 2 {
		Printf(msg+"\n", args...)
	}
}

func (t *terminalProgressPrinter) VV(msg string, args ...interface{}) {
	if t.verbosity >= 3 {
		Printf(msg+"\n", args...)
	}
}
