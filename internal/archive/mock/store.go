// Package mock implements a store whose behavior is controlled by function
// fields, for use in tests.
package mock

import (
	"context"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/errors"
)

// Store implements a mock archive store.
type Store struct {
	RestoreFn  func(ctx context.Context, key string, days int, tier archive.Tier) error
	StatusFn   func(ctx context.Context, key string) (archive.RestoreStatus, error)
	DownloadFn func(ctx context.Context, key, path string) error
	KeysFn     func(ctx context.Context, prefix string) ([]string, error)

	IsNotExistFn                 func(err error) bool
	IsRestoreAlreadyInProgressFn func(err error) bool
}

// NewStore returns new mock store.
func NewStore() *Store {
	return &Store{}
}

func (m *Store) Restore(ctx context.Context, key string, days int, tier archive.Tier) error {
	if m.RestoreFn == nil {
		return errors.New("not implemented")
	}

	return m.RestoreFn(ctx, key, days, tier)
}

func (m *Store) Status(ctx context.Context, key string) (archive.RestoreStatus, error) {
	if m.StatusFn == nil {
		return archive.RestoreStatus{}, errors.New("not implemented")
	}

	return m.StatusFn(ctx, key)
}

func (m *Store) Download(ctx context.Context, key, path string) error {
	if m.DownloadFn == nil {
		return errors.New("not implemented")
	}

	return m.DownloadFn(ctx, key, path)
}

func (m *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if m.KeysFn == nil {
		return nil, errors.New("not implemented")
	}

	return m.KeysFn(ctx, prefix)
}

func (m *Store) IsNotExist(err error) bool {
	if m.IsNotExistFn == nil {
		return false
	}

	return m.IsNotExistFn(err)
}

func (m *Store) IsRestoreAlreadyInProgress(err error) bool {
	if m.IsRestoreAlreadyInProgressFn == nil {
		return false
	}

	return m.IsRestoreAlreadyInProgressFn(err)
}

// make sure that Store implements the store interface
var _ archive.Store = &Store{}
