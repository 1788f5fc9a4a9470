// Package mock implements a metadata searcher controlled by a function
// field, for use in tests.
package mock

import (
	"context"

	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/index"
)

// Searcher implements a mock index searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query interface{}) ([]index.Record, error)
}

// NewSearcher returns new mock searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

func (m *Searcher) Search(ctx context.Context, query interface{}) ([]index.Record, error) {
	if m.SearchFn == nil {
		return nil, errors.New("not implemented")
	}

	return m.SearchFn(ctx, query)
}

// make sure that Searcher implements the searcher interface
var _ index.Searcher = &Searcher{}
