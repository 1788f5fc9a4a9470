package index_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/index"
	"github.com/fitsthaw/fitsthaw/internal/index/mock"
	rtest "github.com/fitsthaw/fitsthaw/internal/test"

	"github.com/google/go-cmp/cmp"
)

func marshal(t testing.TB, query interface{}) string {
	t.Helper()

	buf, err := json.Marshal(query)
	rtest.OK(t, err)
	return string(buf)
}

func TestLookupQuery(t *testing.T) {
	want := `{"query":{"match_phrase":{"filename":"coj0m405-kb24-20200101-0001-e00"}}}`

	// the body must be identical irrespective of the extension
	for _, filename := range []string{
		"coj0m405-kb24-20200101-0001-e00",
		"coj0m405-kb24-20200101-0001-e00.fits",
		"coj0m405-kb24-20200101-0001-e00.fits.fz",
	} {
		if diff := cmp.Diff(want, marshal(t, index.LookupQuery(filename))); diff != "" {
			t.Errorf("unexpected query for %v: (-want +got)\n%s", filename, diff)
		}
	}
}

func TestLookup(t *testing.T) {
	record := index.Record{
		Filename:   "coj0m405-kb24-20200101-0001-e00",
		SiteID:     "coj",
		Instrument: "kb24",
		Filter:     "rp",
		ObsType:    "EXPOSE",
		DateObs:    "2020-01-01T10:30:00.5",
	}

	m := mock.NewSearcher()
	m.SearchFn = func(ctx context.Context, query interface{}) ([]index.Record, error) {
		want := marshal(t, index.LookupQuery("coj0m405-kb24-20200101-0001-e00"))
		rtest.Equals(t, want, marshal(t, query))

		// the first hit wins
		return []index.Record{record, {Filename: "other"}}, nil
	}

	got, err := index.Lookup(context.Background(), m, "coj0m405-kb24-20200101-0001-e00.fits.fz")
	rtest.OK(t, err)
	rtest.Equals(t, record, *got)
}

func TestLookupNotFound(t *testing.T) {
	m := mock.NewSearcher()
	m.SearchFn = func(ctx context.Context, query interface{}) ([]index.Record, error) {
		return nil, nil
	}

	_, err := index.Lookup(context.Background(), m, "never-observed.fits")
	rtest.Assert(t, errors.Is(err, index.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestLookupSearchError(t *testing.T) {
	m := mock.NewSearcher()
	m.SearchFn = func(ctx context.Context, query interface{}) ([]index.Record, error) {
		return nil, errors.New("cluster unreachable")
	}

	_, err := index.Lookup(context.Background(), m, "coj0m405-kb24-20200101-0001-e00")
	rtest.Assert(t, err != nil, "expected search error to propagate")
	rtest.Assert(t, !errors.Is(err, index.ErrNotFound), "search failure must not read as not found")
}
