package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/thaw"
)

var cmdThaw = &cobra.Command{
	Use:   "thaw [flags] [FRAME ...]",
	Short: "Request the restore of frames from cold storage",
	Long: `
The "thaw" command resolves the object key of every frame and requests
their restore from cold storage, without waiting for the restores to
finish. This fits the Bulk retrieval tier, where thawing takes several
hours: request the restores, come back later and run "fetch" or "status".

Requesting the restore of a frame that is already thawing is harmless, the
running restore is kept.

EXIT STATUS
===========

Exit status is 0 if all restores were requested, 3 if some frames had to
be skipped, 130 if fitsthaw was interrupted and 1 for any other error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runThaw(cmd.Context(), thawOptions, globalOptions, args)
	},
}

// ThawOptions bundle all options for the 'thaw' command.
type ThawOptions struct {
	FrameList string
	DryRun    bool
	Scan      bool

	Thaw thaw.Options
}

var thawOptions ThawOptions

func init() {
	cmdRoot.AddCommand(cmdThaw)

	f := cmdThaw.Flags()
	f.StringVar(&thawOptions.FrameList, "frame-list", "", "read frame names from this `file` (use - to read from stdin)")
	f.BoolVar(&thawOptions.DryRun, "dry-run", false, "do not request restores, just report what would be done")
	f.BoolVar(&thawOptions.Scan, "scan", false, "resolve keys by scanning the bucket listing instead of deriving them from the frame names")
	f.IntVar(&thawOptions.Thaw.Days, "thaw-days", 1, "number of `days` to keep the restored copies available")
	f.Var(&thawOptions.Thaw.Tier, "thaw-mode", "retrieval tier for the restore, one of (Standard|Bulk)")
}

func runThaw(ctx context.Context, opts ThawOptions, gopts GlobalOptions, args []string) error {
	frames, err := readFrameList(opts.FrameList, args)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return errors.Fatal("nothing to thaw, please specify frame names or --frame-list")
	}

	printer := newTerminalProgressPrinter(gopts.verbosity)

	store, err := openStore(gopts, opts.DryRun)
	if err != nil {
		return err
	}

	keys, unresolved, err := resolveKeys(ctx, newResolver(store, opts.Scan), frames, printer)
	if err != nil {
		return err
	}

	keys = dedupKeys(keys)

	requested, err := thaw.Thaw(ctx, store, keys, opts.Thaw, printer)
	if err != nil {
		return err
	}

	if opts.DryRun {
		printer.P("dry run: the restore of %d files would have been requested", len(requested))
	} else {
		printer.P("requested the restore of %d files for %d days", len(requested), opts.Thaw.Days)
	}

	if unresolved > 0 || len(requested) < len(keys) {
		return ErrPartialRetrieval
	}

	return nil
}
