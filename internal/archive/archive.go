// Package archive defines the cold storage capability the retrieval
// pipeline runs against.
package archive

import (
	"context"
	"time"
)

// Store is a cold storage service holding archived frames. Implementations
// must be safe to reuse for sequential calls over the lifetime of a run.
type Store interface {
	// Restore asks the storage service to thaw the object at key from the
	// archival tier, keeping the restored copy around for days days.
	Restore(ctx context.Context, key string, days int, tier Tier) error

	// Status reports the restore state of the object at key.
	Status(ctx context.Context, key string) (RestoreStatus, error)

	// Download fetches the object at key into a local file at path,
	// creating missing parent directories.
	Download(ctx context.Context, key, path string) error

	// Keys lists all object keys below prefix, in listing order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// IsNotExist reports whether err means the requested object does not
	// exist in the store.
	IsNotExist(err error) bool

	// IsRestoreAlreadyInProgress reports whether err means a restore for
	// the object is already underway.
	IsRestoreAlreadyInProgress(err error) bool
}

// RestoreStatus describes the thaw state of a single archived object. It is
// recomputed on every poll and never persisted.
type RestoreStatus struct {
	// Requested is true once a restore has been requested for the object.
	Requested bool

	// Ongoing is true while the storage service is still thawing the
	// object.
	Ongoing bool

	// Expiry is the time the restored copy will be removed again, if the
	// store reports it.
	Expiry time.Time
}

// Done reports whether the object is thawed and ready for download.
func (s RestoreStatus) Done() bool {
	return s.Requested && !s.Ongoing
}
