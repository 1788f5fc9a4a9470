package main

import (
	"context"
	"strings"
	"testing"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	rtest "github.com/fitsthaw/fitsthaw/internal/test"
	"github.com/fitsthaw/fitsthaw/internal/thaw"
)

func TestRunThaw(t *testing.T) {
	env, cleanup := withTestEnvironment(t)
	defer cleanup()
	env.gopts.verbosity = 1

	var days []int
	var tiers []archive.Tier
	requested := env.recordRestores(&days, &tiers)

	// the duplicate must be folded into a single restore request
	frames := []string{
		"coj0m405-kb24-20200101-0001-00.fits",
		"coj0m405-kb24-20200101-0002-00.fits",
		"coj0m405-kb24-20200101-0001-00.fits",
	}

	opts := ThawOptions{
		Thaw: thaw.Options{Days: 3, Tier: archive.TierBulk},
	}

	rtest.OK(t, runThaw(context.Background(), opts, env.gopts, frames))

	rtest.Equals(t, []string{
		"coj/kb24/20200101/raw/coj0m405-kb24-20200101-0001-00.fits.fz",
		"coj/kb24/20200101/raw/coj0m405-kb24-20200101-0002-00.fits.fz",
	}, *requested)
	rtest.Equals(t, []int{3, 3}, days)
	rtest.Equals(t, []archive.Tier{archive.TierBulk, archive.TierBulk}, tiers)

	rtest.Assert(t, strings.Contains(env.stdout.String(), "requested the restore of 2 files for 3 days"),
		"unexpected summary %q", env.stdout.String())
}

func TestRunThawMissing(t *testing.T) {
	env, cleanup := withTestEnvironment(t)
	defer cleanup()

	env.classifyNotExist()
	env.store.RestoreFn = func(_ context.Context, key string, _ int, _ archive.Tier) error {
		if strings.Contains(key, "0002") {
			return errNoSuchKey
		}
		return nil
	}

	frames := []string{
		"coj0m405-kb24-20200101-0001-00.fits",
		"coj0m405-kb24-20200101-0002-00.fits",
	}

	err := runThaw(context.Background(), ThawOptions{Thaw: thaw.Options{Days: 1}}, env.gopts, frames)
	rtest.Assert(t, errors.Is(err, ErrPartialRetrieval), "expected ErrPartialRetrieval, got %v", err)
	rtest.Assert(t, strings.Contains(env.stderr.String(), "no such key"),
		"expected a warning about the missing key, got %q", env.stderr.String())
}

func TestRunThawAlreadyInProgress(t *testing.T) {
	env, cleanup := withTestEnvironment(t)
	defer cleanup()

	errRunning := errors.New("RestoreAlreadyInProgress")
	env.store.RestoreFn = func(_ context.Context, _ string, _ int, _ archive.Tier) error {
		return errRunning
	}
	env.store.IsRestoreAlreadyInProgressFn = func(err error) bool {
		return errors.Is(err, errRunning)
	}

	err := runThaw(context.Background(), ThawOptions{Thaw: thaw.Options{Days: 1}}, env.gopts,
		[]string{"coj0m405-kb24-20200101-0001-00.fits"})
	rtest.OK(t, err)
}

func TestRunThawDryRun(t *testing.T) {
	env, cleanup := withTestEnvironment(t)
	defer cleanup()
	env.gopts.verbosity = 1

	// RestoreFn stays nil, the dry run must not issue any request
	opts := ThawOptions{
		DryRun: true,
		Thaw:   thaw.Options{Days: 1},
	}

	rtest.OK(t, runThaw(context.Background(), opts, env.gopts,
		[]string{"coj0m405-kb24-20200101-0001-00.fits"}))
	rtest.Assert(t, strings.Contains(env.stdout.String(), "dry run: the restore of 1 files would have been requested"),
		"unexpected summary %q", env.stdout.String())
}

func TestRunThawNoFrames(t *testing.T) {
	env, cleanup := withTestEnvironment(t)
	defer cleanup()

	err := runThaw(context.Background(), ThawOptions{Thaw: thaw.Options{Days: 1}}, env.gopts, nil)
	rtest.Assert(t, errors.IsFatal(err), "expected fatal error, got %v", err)
}
