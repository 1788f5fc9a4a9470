package main

import (
	"context"
	"strings"
	"testing"

	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/index"
	rtest "github.com/fitsthaw/fitsthaw/internal/test"
)

func TestRunCalibrations(t *testing.T) {
	env, cleanup := withTestEnvironment(t)
	defer cleanup()

	calls := 0
	env.searcher.SearchFn = func(_ context.Context, _ interface{}) ([]index.Record, error) {
		calls++
		switch calls {
		case 1:
			return []index.Record{{
				Filename:   "coj0m405-kb24-20200101-0001-00",
				SiteID:     "coj",
				Instrument: "kb24",
				ObsType:    "EXPOSE",
				DateObs:    "2020-01-01T10:30:00.5",
			}}, nil
		case 2:
			return []index.Record{
				{Filename: "coj0m405-kb24-20200101-0050-b00.fits"},
				{Filename: "coj0m405-kb24-20191231-0048-b00.fits"},
			}, nil
		default:
			return nil, errors.New("unexpected search request")
		}
	}

	opts := CalibrationsOptions{Type: "BIAS", Count: 2}
	rtest.OK(t, runCalibrations(context.Background(), opts, env.gopts,
		[]string{"coj0m405-kb24-20200101-0001-00.fits"}))

	rtest.Equals(t,
		"coj/kb24/20200101/raw/coj0m405-kb24-20200101-0050-b00.fits.fz\n"+
			"coj/kb24/20191231/raw/coj0m405-kb24-20191231-0048-b00.fits.fz\n",
		env.stdout.String())
}

func TestRunCalibrationsNotFound(t *testing.T) {
	env, cleanup := withTestEnvironment(t)
	defer cleanup()

	env.searcher.SearchFn = func(_ context.Context, _ interface{}) ([]index.Record, error) {
		return nil, nil
	}

	opts := CalibrationsOptions{Type: "BIAS", Count: 1}
	rtest.OK(t, runCalibrations(context.Background(), opts, env.gopts,
		[]string{"coj0m405-kb24-20200101-0001-00.fits"}))

	rtest.Equals(t, "", env.stdout.String())
	rtest.Assert(t, strings.Contains(env.stderr.String(), "not found in index"),
		"expected a warning, got %q", env.stderr.String())
}

func TestRunCalibrationsUsage(t *testing.T) {
	env, cleanup := withTestEnvironment(t)
	defer cleanup()

	err := runCalibrations(context.Background(), CalibrationsOptions{Type: "BIAS", Count: 1}, env.gopts, nil)
	rtest.Assert(t, errors.IsFatal(err), "expected fatal error for missing frame, got %v", err)

	err = runCalibrations(context.Background(), CalibrationsOptions{Count: 1}, env.gopts,
		[]string{"coj0m405-kb24-20200101-0001-00.fits"})
	rtest.Assert(t, errors.IsFatal(err), "expected fatal error for missing type, got %v", err)

	err = runCalibrations(context.Background(), CalibrationsOptions{Type: "BIAS"}, env.gopts,
		[]string{"coj0m405-kb24-20200101-0001-00.fits"})
	rtest.Assert(t, errors.IsFatal(err), "expected fatal error for zero count, got %v", err)
}
