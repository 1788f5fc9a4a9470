package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitsthaw/fitsthaw/internal/calib"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/thaw"
	"github.com/fitsthaw/fitsthaw/internal/ui"
)

var cmdFetch = &cobra.Command{
	Use:   "fetch [flags] [FRAME ...]",
	Short: "Thaw frames and download them once they are restored",
	Long: `
The "fetch" command runs the complete retrieval pipeline: it resolves the
object key of every frame, requests their restore from cold storage, polls
until the archive reports all of them as restored and downloads the results
into the output directory, mirroring the remote key hierarchy.

With --calibration-type, the calibration frames taken closest in time to
each requested frame are looked up in the metadata index and fetched along
with it.

Frames that do not exist are reported and skipped, the remaining frames are
still retrieved.

EXIT STATUS
===========

Exit status is 0 if all frames were retrieved, 3 if some had to be skipped,
130 if fitsthaw was interrupted and 1 for any other error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd.Context(), fetchOptions, globalOptions, args)
	},
}

// ErrPartialRetrieval is used to report that some frames were skipped.
var ErrPartialRetrieval = errors.New("at least one frame could not be retrieved")

// FetchOptions bundle all options for the 'fetch' command.
type FetchOptions struct {
	FrameList string
	Target    string
	DryRun    bool
	Scan      bool

	CalibrationTypes []string
	CalibrationCount int

	Thaw         thaw.Options
	PollInterval time.Duration
	MaxWait      time.Duration
}

var fetchOptions FetchOptions

func init() {
	cmdRoot.AddCommand(cmdFetch)

	f := cmdFetch.Flags()
	f.StringVar(&fetchOptions.FrameList, "frame-list", "", "read frame names from this `file` (use - to read from stdin)")
	f.StringVar(&fetchOptions.Target, "output-dir", "", "base `directory` to download the frames to (default: current directory)")
	f.BoolVar(&fetchOptions.DryRun, "dry-run", false, "do not request restores or write files, just report what would be done")
	f.BoolVar(&fetchOptions.Scan, "scan", false, "resolve keys by scanning the bucket listing instead of deriving them from the frame names")
	f.StringArrayVar(&fetchOptions.CalibrationTypes, "calibration-type", nil, "also fetch the nearest calibration frames with this `OBSTYPE`, e.g. BIAS (can be specified multiple times)")
	f.IntVar(&fetchOptions.CalibrationCount, "calibration-count", 1, "number of calibration frames to fetch per type and frame")
	f.IntVar(&fetchOptions.Thaw.Days, "thaw-days", 1, "number of `days` to keep the restored copies available")
	f.Var(&fetchOptions.Thaw.Tier, "thaw-mode", "retrieval tier for the restore, one of (Standard|Bulk)")
	f.DurationVar(&fetchOptions.PollInterval, "poll-interval", 5*time.Minute, "`duration` between restore status sweeps")
	f.DurationVar(&fetchOptions.MaxWait, "max-wait", 0, "maximum `duration` to wait for the restores to finish (default: wait forever)")
}

func runFetch(ctx context.Context, opts FetchOptions, gopts GlobalOptions, args []string) error {
	frames, err := readFrameList(opts.FrameList, args)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return errors.Fatal("nothing to fetch, please specify frame names or --frame-list")
	}
	if len(opts.CalibrationTypes) > 0 && opts.CalibrationCount < 1 {
		return errors.Fatalf("number of calibration frames must be positive, got %d", opts.CalibrationCount)
	}

	if opts.Target == "" {
		opts.Target = "."
	}

	printer := newTerminalProgressPrinter(gopts.verbosity)

	store, err := openStore(gopts, opts.DryRun)
	if err != nil {
		return err
	}

	start := time.Now()

	keys, unresolved, err := resolveKeys(ctx, newResolver(store, opts.Scan), frames, printer)
	if err != nil {
		return err
	}

	if len(opts.CalibrationTypes) > 0 {
		searcher, err := openSearcher(gopts)
		if err != nil {
			return err
		}

		finder := &calib.Finder{Searcher: searcher, Printer: printer}
		for _, filename := range frames {
			for _, obsType := range opts.CalibrationTypes {
				found, err := finder.Nearest(ctx, obsType, opts.CalibrationCount, filename)
				if err != nil {
					return err
				}

				keys = append(keys, found...)
			}
		}
	}

	keys = dedupKeys(keys)

	requested, err := thaw.Thaw(ctx, store, keys, opts.Thaw, printer)
	if err != nil {
		return err
	}

	waitCtx := ctx
	if opts.MaxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, opts.MaxWait)
		defer cancel()
	}

	if err := thaw.Wait(waitCtx, store, requested, opts.PollInterval, printer); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return errors.Fatalf("restores still pending after %v, giving up", opts.MaxWait)
		}
		return err
	}

	skipped, err := thaw.Download(ctx, store, requested, opts.Target, printer)
	if err != nil {
		return err
	}

	skippedKeys := make(map[string]struct{}, len(skipped))
	for _, key := range skipped {
		skippedKeys[key] = struct{}{}
	}

	var files int
	var size uint64
	for _, key := range requested {
		if _, ok := skippedKeys[key]; ok {
			continue
		}

		files++
		if fi, err := os.Stat(filepath.Join(opts.Target, filepath.FromSlash(key))); err == nil {
			size += uint64(fi.Size())
		}
	}

	if opts.DryRun {
		printer.P("dry run: %d files would have been retrieved", files)
	} else {
		printer.P("retrieved %d files (%s) in %s",
			files, ui.FormatBytes(size), ui.FormatDuration(time.Since(start)))
	}

	if unresolved > 0 || len(requested) < len(keys) || len(skipped) > 0 {
		return ErrPartialRetrieval
	}

	return nil
}
