package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/archive/mock"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/index"
	indexmock "github.com/fitsthaw/fitsthaw/internal/index/mock"
	"github.com/fitsthaw/fitsthaw/internal/options"
	"github.com/fitsthaw/fitsthaw/internal/ui/progress"
)

var errNoSuchKey = errors.New("no such key")

type testEnvironment struct {
	base     string
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	store    *mock.Store
	searcher *indexmock.Searcher
	gopts    GlobalOptions
}

// withTestEnvironment prepares global options backed by a mock store and a
// mock searcher, so command runs stay offline.
func withTestEnvironment(t testing.TB) (env *testEnvironment, cleanup func()) {
	env = &testEnvironment{
		base:     t.TempDir(),
		stdout:   bytes.NewBuffer(nil),
		stderr:   bytes.NewBuffer(nil),
		store:    mock.NewStore(),
		searcher: indexmock.NewSearcher(),
	}

	env.gopts = GlobalOptions{
		Bucket:    "test-bucket",
		Region:    "test-region",
		KeyID:     "test",
		Secret:    "geheim",
		IndexHost: "https://index.invalid",
		IndexName: "fitsheaders",
		stdout:    env.stdout,
		stderr:    env.stderr,
		extended:  make(options.Options),
	}
	env.gopts.storeTestHook = func(_ archive.Store) (archive.Store, error) {
		return env.store, nil
	}
	env.gopts.searcherTestHook = func(_ index.Searcher) (index.Searcher, error) {
		return env.searcher, nil
	}

	// always overwrite global options
	globalOptions = env.gopts

	cleanup = func() {
		globalOptions = GlobalOptions{stdout: os.Stdout, stderr: os.Stderr}
	}

	return env, cleanup
}

// classifyNotExist wires the store's IsNotExist classifier to errNoSuchKey.
func (env *testEnvironment) classifyNotExist() {
	env.store.IsNotExistFn = func(err error) bool {
		return errors.Is(err, errNoSuchKey)
	}
}

// downloadToDisk makes the mock store write each downloaded object to the
// requested path, with the object key as content.
func (env *testEnvironment) downloadToDisk() {
	env.store.DownloadFn = func(_ context.Context, key, path string) error {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return err
		}
		return os.WriteFile(path, []byte(key), 0600)
	}
}

// restoredImmediately reports every status probe as restored.
func (env *testEnvironment) restoredImmediately() {
	env.store.StatusFn = func(_ context.Context, _ string) (archive.RestoreStatus, error) {
		return archive.RestoreStatus{Requested: true}, nil
	}
}

// recordRestores collects the restore requests the store receives.
func (env *testEnvironment) recordRestores(days *[]int, tiers *[]archive.Tier) *[]string {
	keys := new([]string)
	env.store.RestoreFn = func(_ context.Context, key string, d int, tier archive.Tier) error {
		*keys = append(*keys, key)
		if days != nil {
			*days = append(*days, d)
		}
		if tiers != nil {
			*tiers = append(*tiers, tier)
		}
		return nil
	}
	return keys
}

// messagePrinter collects error messages, everything else is discarded.
type messagePrinter struct {
	progress.NoopPrinter
	errs []string
}

func (p *messagePrinter) E(msg string, args ...interface{}) {
	p.errs = append(p.errs, fmt.Sprintf(msg, args...))
}
