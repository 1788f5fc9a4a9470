package frame

import (
	"strings"
	"time"

	"github.com/fitsthaw/fitsthaw/internal/errors"
)

// ErrNoDateObs is returned by ParseDateObs when the header carries the
// sentinel value instead of a timestamp.
var ErrNoDateObs = errors.New("frame has no DATE-OBS timestamp")

// noDateObs is the header sentinel for frames without an observation time.
const noDateObs = "N/A"

// ParseDateObs parses a DATE-OBS header value. The value is either a bare
// date or a date with a time of day, and the fractional seconds may be
// missing, partial, or complete. Partial fractions are padded with trailing
// zeros to full microsecond precision before parsing. Timestamps are naive
// UTC.
func ParseDateObs(s string) (time.Time, error) {
	if s == noDateObs {
		return time.Time{}, ErrNoDateObs
	}

	// Check if there is a time of day
	if !strings.Contains(s, "T") {
		return time.Parse("2006-01-02", s)
	}

	// Check if there are fractional seconds in the time
	if i := strings.LastIndex(s, "."); i >= 0 {
		if pad := 6 - (len(s) - i - 1); pad > 0 {
			s += strings.Repeat("0", pad)
		}
	} else {
		s += ".000000"
	}

	return time.Parse("2006-01-02T15:04:05.000000", s)
}

// DecayOrigin renders t in the only timestamp form the index accepts as a
// decay function origin: millisecond precision, microseconds truncated, with
// a literal UTC marker appended.
func DecayOrigin(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000") + "UTC"
}
