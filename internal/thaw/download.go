package thaw

import (
	"context"
	"path"
	"path/filepath"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/ui/progress"
)

// Download fetches every key into its mirrored path below baseDir. A key
// that fails to download is reported and skipped without blocking the
// others; the skipped keys are returned. The error return is reserved for
// cancellation.
func Download(ctx context.Context, store archive.Store, keys []string, baseDir string, printer progress.Printer) ([]string, error) {
	counter := printer.NewCounter("files downloaded")
	counter.SetMax(uint64(len(keys)))
	defer counter.Done()

	var skipped []string
	for _, key := range keys {
		target := filepath.Join(baseDir, filepath.FromSlash(key))

		err := store.Download(ctx, key, target)
		if err != nil {
			if ctx.Err() != nil {
				return skipped, ctx.Err()
			}

			printer.E("skipped %v: %v", path.Base(key), err)
			skipped = append(skipped, key)
			continue
		}

		counter.Add(1)
		printer.V("downloaded %v", path.Base(key))
	}

	return skipped, nil
}
