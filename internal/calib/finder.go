// Package calib finds the calibration frames taken nearest in time to a
// science frame.
package calib

import (
	"context"
	"strings"

	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/frame"
	"github.com/fitsthaw/fitsthaw/internal/index"
	"github.com/fitsthaw/fitsthaw/internal/ui/progress"
)

// SkyFlat is the observation type whose calibration match additionally
// requires the filter band to agree with the target frame.
const SkyFlat = "SKYFLAT"

// finalProduct marks non-intermediate data products in frame names. Hits
// without it are working copies and never worth thawing.
const finalProduct = "00.fits"

// A Finder searches the metadata index for the calibration frames that best
// match a target frame.
type Finder struct {
	Searcher index.Searcher
	Printer  progress.Printer
}

// NearestQuery builds the search body scoring calibration frames of type
// obsType by closeness in time to the target record. Hits must match the
// observation type, site and instrument of the target exactly, plus the
// filter band for sky flats. Relevance decays linearly from the target's
// DATE-OBS with a one hour scale and a decay of 0.999 per hour, multiplied
// into the boolean match score.
func NearestQuery(obsType string, n int, target *index.Record) (interface{}, error) {
	matchFilters := []interface{}{
		map[string]interface{}{"match_phrase": map[string]interface{}{"OBSTYPE": obsType}},
		map[string]interface{}{"match_phrase": map[string]interface{}{"SITEID": target.SiteID}},
		map[string]interface{}{"match_phrase": map[string]interface{}{"INSTRUME": target.Instrument}},
	}
	if obsType == SkyFlat {
		matchFilters = append(matchFilters,
			map[string]interface{}{"match_phrase": map[string]interface{}{"FILTER": target.Filter}})
	}

	// Without a target timestamp there is no decay origin and no way to
	// score candidates.
	dateObs, err := frame.ParseDateObs(target.DateObs)
	if err != nil {
		return nil, errors.Wrapf(err, "frame %v", target.Filename)
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"function_score": map[string]interface{}{
				"query": map[string]interface{}{
					"bool": map[string]interface{}{
						"must": matchFilters,
					},
				},
				"functions": []interface{}{
					map[string]interface{}{
						"linear": map[string]interface{}{
							"DATE-OBS": map[string]interface{}{
								"origin": frame.DecayOrigin(dateObs),
								"scale":  "1h",
								"decay":  0.999,
							},
						},
					},
				},
				"boost_mode": "multiply",
			},
		},
		"size": n,
	}, nil
}

// Nearest returns the object keys of the n calibration frames of type
// obsType nearest in time to the named frame, most relevant first. A frame
// that is missing from the index is reported and yields an empty list; hits
// that are not final products, or whose names cannot be turned into object
// keys, are dropped.
func (f *Finder) Nearest(ctx context.Context, obsType string, n int, filename string) ([]string, error) {
	target, err := index.Lookup(ctx, f.Searcher, filename)
	if errors.Is(err, index.ErrNotFound) {
		f.Printer.E("frame %v not found in index, skipping calibration search", filename)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	query, err := NearestQuery(obsType, n, target)
	if err != nil {
		return nil, err
	}

	hits, err := f.Searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, hit := range hits {
		if !strings.Contains(hit.Filename, finalProduct) {
			f.Printer.VV("ignoring intermediate product %v", hit.Filename)
			continue
		}

		key, err := frame.ObjectKey(hit.Filename)
		if err != nil {
			f.Printer.E("skipping calibration frame: %v", err)
			continue
		}

		keys = append(keys, key)
	}

	return keys, nil
}
