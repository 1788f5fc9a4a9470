// Package thaw drives the retrieval pipeline: requesting restores from the
// archival tier, waiting for them to finish, and downloading the thawed
// objects.
package thaw

import (
	"context"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/debug"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/ui/progress"
)

// Options bundles the parameters of a restore request sweep.
type Options struct {
	// Days the restored copies stay retrievable.
	Days int

	// Tier selects the retrieval tier.
	Tier archive.Tier
}

// Thaw requests a restore for every key. Keys that are missing from the
// store are reported and dropped so the waiter never polls a broken
// reference; restores already underway count as success. Any other failure
// aborts the whole sweep. The input slice is never modified; the surviving
// keys are returned as a new slice in input order.
func Thaw(ctx context.Context, store archive.Store, keys []string, opts Options, printer progress.Printer) ([]string, error) {
	if opts.Days <= 0 {
		return nil, errors.Fatalf("number of restore days must be positive, got %d", opts.Days)
	}

	live := make([]string, 0, len(keys))
	for _, key := range keys {
		err := store.Restore(ctx, key, opts.Days, opts.Tier)
		switch {
		case err == nil:
			printer.V("requested thaw of %v", key)
		case store.IsNotExist(err):
			// The bucket holds some broken references.
			printer.E("unable to thaw %v: no such key", key)
			continue
		case store.IsRestoreAlreadyInProgress(err):
			debug.Log("restore of %v already in progress", key)
			printer.V("thaw of %v already in progress", key)
		default:
			return nil, errors.Wrapf(err, "thaw %v", key)
		}

		live = append(live, key)
	}

	return live, nil
}
