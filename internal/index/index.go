// Package index queries the metadata search index holding one record of
// FITS header fields per archived frame.
package index

import (
	"context"

	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/frame"
)

// A Record is the metadata the index stores for one frame. The fields
// mirror the FITS header cards the retrieval pipeline cares about; records
// are owned by the index and read-only here.
type Record struct {
	Filename   string `json:"filename"`
	SiteID     string `json:"SITEID"`
	Instrument string `json:"INSTRUME"`
	Filter     string `json:"FILTER"`
	ObsType    string `json:"OBSTYPE"`
	DateObs    string `json:"DATE-OBS"`
}

// A Searcher runs a search over the metadata index and returns the matching
// records, most relevant first.
type Searcher interface {
	Search(ctx context.Context, query interface{}) ([]Record, error)
}

// ErrNotFound is returned by Lookup when the index holds no record for a
// frame.
var ErrNotFound = errors.New("frame not found in index")

// LookupQuery returns the search body that finds the metadata record for a
// frame. The filename is stripped of its extensions first, so the lookup
// works irrespective of compression.
func LookupQuery(filename string) interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"match_phrase": map[string]interface{}{
				"filename": frame.Stripped(filename),
			},
		},
	}
}

// Lookup returns the metadata record for the named frame. If the index has
// no record, ErrNotFound is returned and the caller decides whether that is
// fatal.
func Lookup(ctx context.Context, s Searcher, filename string) (*Record, error) {
	hits, err := s.Search(ctx, LookupQuery(filename))
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "frame %v", filename)
	}

	return &hits[0], nil
}
