package calib_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fitsthaw/fitsthaw/internal/calib"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/frame"
	"github.com/fitsthaw/fitsthaw/internal/index"
	"github.com/fitsthaw/fitsthaw/internal/index/mock"
	rtest "github.com/fitsthaw/fitsthaw/internal/test"
	"github.com/fitsthaw/fitsthaw/internal/ui/progress"

	"github.com/google/go-cmp/cmp"
)

// capturePrinter records error messages, everything else is discarded.
type capturePrinter struct {
	progress.NoopPrinter
	errs []string
}

func (p *capturePrinter) E(msg string, args ...interface{}) {
	p.errs = append(p.errs, fmt.Sprintf(msg, args...))
}

func asTree(t testing.TB, query interface{}) map[string]interface{} {
	t.Helper()

	buf, err := json.Marshal(query)
	rtest.OK(t, err)

	var tree map[string]interface{}
	rtest.OK(t, json.Unmarshal(buf, &tree))
	return tree
}

func TestNearestQuery(t *testing.T) {
	target := &index.Record{
		Filename:   "coj0m405-kb24-20200101-0042-e00",
		SiteID:     "coj",
		Instrument: "kb24",
		Filter:     "rp",
		ObsType:    "EXPOSE",
		DateObs:    "2020-01-01T10:30:00.5",
	}

	query, err := calib.NearestQuery("BIAS", 3, target)
	rtest.OK(t, err)

	want := asTree(t, map[string]interface{}{
		"query": map[string]interface{}{
			"function_score": map[string]interface{}{
				"query": map[string]interface{}{
					"bool": map[string]interface{}{
						"must": []interface{}{
							map[string]interface{}{"match_phrase": map[string]interface{}{"OBSTYPE": "BIAS"}},
							map[string]interface{}{"match_phrase": map[string]interface{}{"SITEID": "coj"}},
							map[string]interface{}{"match_phrase": map[string]interface{}{"INSTRUME": "kb24"}},
						},
					},
				},
				"functions": []interface{}{
					map[string]interface{}{
						"linear": map[string]interface{}{
							"DATE-OBS": map[string]interface{}{
								"origin": "2020-01-01T10:30:00.500UTC",
								"scale":  "1h",
								"decay":  0.999,
							},
						},
					},
				},
				"boost_mode": "multiply",
			},
		},
		"size": 3,
	})

	if diff := cmp.Diff(want, asTree(t, query)); diff != "" {
		t.Errorf("unexpected query: (-want +got)\n%s", diff)
	}
}

func TestNearestQuerySkyFlat(t *testing.T) {
	target := &index.Record{
		Filename:   "coj0m405-kb24-20200101-0042-e00",
		SiteID:     "coj",
		Instrument: "kb24",
		Filter:     "w",
		ObsType:    "EXPOSE",
		DateObs:    "2020-01-01",
	}

	query, err := calib.NearestQuery("SKYFLAT", 1, target)
	rtest.OK(t, err)

	tree := asTree(t, query)
	must := tree["query"].(map[string]interface{})["function_score"].(map[string]interface{})["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]interface{})

	// sky flats carry the extra filter-band clause
	rtest.Equals(t, 4, len(must))
	wantFilter := map[string]interface{}{"match_phrase": map[string]interface{}{"FILTER": "w"}}
	if diff := cmp.Diff(wantFilter, must[3]); diff != "" {
		t.Errorf("unexpected filter clause: (-want +got)\n%s", diff)
	}
}

func TestNearestQueryNoDateObs(t *testing.T) {
	target := &index.Record{
		Filename: "coj0m405-kb24-20200101-0042-e00",
		DateObs:  "N/A",
	}

	_, err := calib.NearestQuery("BIAS", 1, target)
	rtest.Assert(t, errors.Is(err, frame.ErrNoDateObs), "expected ErrNoDateObs, got %v", err)
}

func TestNearest(t *testing.T) {
	target := index.Record{
		Filename:   "coj0m405-kb24-20200101-0042-e00",
		SiteID:     "coj",
		Instrument: "kb24",
		Filter:     "rp",
		ObsType:    "EXPOSE",
		DateObs:    "2020-01-01T10:30:00",
	}

	calls := 0
	m := mock.NewSearcher()
	m.SearchFn = func(ctx context.Context, query interface{}) ([]index.Record, error) {
		calls++
		switch calls {
		case 1:
			// target lookup
			return []index.Record{target}, nil
		case 2:
			tree := asTree(t, query)
			rtest.Equals(t, float64(2), tree["size"])

			return []index.Record{
				{Filename: "coj0m405-kb24-20200101-0003-b00.fits"},
				{Filename: "coj0m405-kb24-20200101-0004-g01.fits"}, // intermediate product
				{Filename: "badname00.fits"},                       // unconventional name
				{Filename: "coj0m405-kb24-20191231-0001-b00.fits"},
			}, nil
		default:
			return nil, errors.New("unexpected search")
		}
	}

	printer := &capturePrinter{}
	f := &calib.Finder{Searcher: m, Printer: printer}

	keys, err := f.Nearest(context.Background(), "BIAS", 2, "coj0m405-kb24-20200101-0042-e00.fits")
	rtest.OK(t, err)

	// order preserved, intermediate and malformed hits dropped
	rtest.Equals(t, []string{
		"coj/kb24/20200101/raw/coj0m405-kb24-20200101-0003-b00.fits.fz",
		"coj/kb24/20191231/raw/coj0m405-kb24-20191231-0001-b00.fits.fz",
	}, keys)
	rtest.Equals(t, 2, calls)
	rtest.Equals(t, 1, len(printer.errs))
}

func TestNearestTargetMissing(t *testing.T) {
	m := mock.NewSearcher()
	m.SearchFn = func(ctx context.Context, query interface{}) ([]index.Record, error) {
		return nil, nil
	}

	printer := &capturePrinter{}
	f := &calib.Finder{Searcher: m, Printer: printer}

	keys, err := f.Nearest(context.Background(), "BIAS", 2, "never-observed-frame.fits")
	rtest.OK(t, err)
	rtest.Equals(t, 0, len(keys))
	rtest.Equals(t, 1, len(printer.errs))
}

func TestNearestSearchError(t *testing.T) {
	m := mock.NewSearcher()
	m.SearchFn = func(ctx context.Context, query interface{}) ([]index.Record, error) {
		return nil, errors.New("cluster unreachable")
	}

	f := &calib.Finder{Searcher: m, Printer: &progress.NoopPrinter{}}

	_, err := f.Nearest(context.Background(), "BIAS", 2, "coj0m405-kb24-20200101-0042-e00")
	rtest.Assert(t, err != nil, "expected search error to propagate")
}
