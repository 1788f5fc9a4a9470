package thaw

import (
	"context"
	"time"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/debug"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/ui/progress"

	"github.com/cenkalti/backoff/v4"
)

// errRestoresPending makes the poll loop try again after the interval.
var errRestoresPending = errors.New("restores pending")

// Wait polls the store until every key reports that its restore finished.
// Each cycle sweeps only the keys not yet known to be restored and emits a
// progress line with the count remaining. The first sweep runs before any
// sleep, so an already thawed set returns immediately. There is no internal
// timeout; cancel ctx to stop waiting. A failing status check aborts the
// wait with the underlying error.
func Wait(ctx context.Context, store archive.Store, keys []string, interval time.Duration, printer progress.Printer) error {
	if interval <= 0 {
		return errors.Fatalf("poll interval must be positive, got %v", interval)
	}

	restored := make(map[string]bool, len(keys))

	sweep := func() error {
		for _, key := range keys {
			if restored[key] {
				continue
			}

			status, err := store.Status(ctx, key)
			if err != nil {
				return backoff.Permanent(errors.Wrapf(err, "status %v", key))
			}

			if status.Done() {
				debug.Log("%v restored, expires %v", key, status.Expiry)
				restored[key] = true
			}
		}

		left := len(keys) - len(restored)
		if left == 0 {
			return nil
		}

		printer.P("%v: waiting for files to thaw: %d left to be restored",
			time.Now().Format("2006-01-02 15:04:05"), left)
		return errRestoresPending
	}

	return backoff.Retry(sweep, backoff.WithContext(backoff.NewConstantBackOff(interval), ctx))
}
