// Package dryrun implements the store wrapper behind --dry-run.
package dryrun

import (
	"context"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/debug"
)

// Store passes listings and error classification through to an underlying
// store, but fakes everything that would touch the archive or the local
// disk: restore requests are accepted without being sent, every object
// reports as already restored so nothing waits, and downloads write no
// files.
type Store struct {
	s archive.Store
}

// statically ensure that Store implements archive.Store.
var _ archive.Store = &Store{}

// New returns a dry-run wrapper around s.
func New(s archive.Store) *Store {
	debug.Log("created new dry store")
	return &Store{s: s}
}

// Restore pretends the restore request was accepted.
func (st *Store) Restore(ctx context.Context, key string, days int, tier archive.Tier) error {
	debug.Log("faked restore of %v, days %d, tier %v", key, days, &tier)
	return nil
}

// Status reports every object as restored, so a dry run never sleeps.
func (st *Store) Status(ctx context.Context, key string) (archive.RestoreStatus, error) {
	return archive.RestoreStatus{Requested: true}, nil
}

// Download pretends the object was fetched.
func (st *Store) Download(ctx context.Context, key, path string) error {
	debug.Log("faked download of %v to %v", key, path)
	return nil
}

// Keys lists the real archive.
func (st *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	return st.s.Keys(ctx, prefix)
}

func (st *Store) IsNotExist(err error) bool {
	return st.s.IsNotExist(err)
}

func (st *Store) IsRestoreAlreadyInProgress(err error) bool {
	return st.s.IsRestoreAlreadyInProgress(err)
}
