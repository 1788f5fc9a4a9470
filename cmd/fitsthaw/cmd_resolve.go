package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/frame"
)

var cmdResolve = &cobra.Command{
	Use:   "resolve [flags] [FRAME ...]",
	Short: "Print the object key of frames",
	Long: `
The "resolve" command prints the archive object key of every frame, one per
line, without touching the frames. Keys are derived from the
site-instrument-dayobs naming convention, with --scan they are searched in
the bucket listing instead, which also covers frames that predate the
convention.

EXIT STATUS
===========

Exit status is 0 if all frames were resolved, 3 if some could not be
resolved, 130 if fitsthaw was interrupted and 1 for any other error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.Context(), resolveOptions, globalOptions, args)
	},
}

// ResolveOptions bundle all options for the 'resolve' command.
type ResolveOptions struct {
	FrameList string
	Scan      bool
}

var resolveOptions ResolveOptions

func init() {
	cmdRoot.AddCommand(cmdResolve)

	f := cmdResolve.Flags()
	f.StringVar(&resolveOptions.FrameList, "frame-list", "", "read frame names from this `file` (use - to read from stdin)")
	f.BoolVar(&resolveOptions.Scan, "scan", false, "resolve keys by scanning the bucket listing instead of deriving them from the frame names")
}

func runResolve(ctx context.Context, opts ResolveOptions, gopts GlobalOptions, args []string) error {
	frames, err := readFrameList(opts.FrameList, args)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return errors.Fatal("nothing to resolve, please specify frame names or --frame-list")
	}

	// Deriving keys from the naming convention needs no bucket access at
	// all, only --scan does.
	resolver := frame.Resolver(frame.ConventionResolver{})
	if opts.Scan {
		store, err := openStore(gopts, false)
		if err != nil {
			return err
		}
		resolver = &frame.ScanResolver{Lister: store}
	}

	printer := newTerminalProgressPrinter(gopts.verbosity)

	keys, unresolved, err := resolveKeys(ctx, resolver, frames, printer)
	if err != nil {
		return err
	}

	for _, key := range keys {
		Printf("%v\n", key)
	}

	if unresolved > 0 {
		return ErrPartialRetrieval
	}

	return nil
}
