package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/fitsthaw/fitsthaw/internal/debug"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/options"
)

func init() {
	// don't import `go.uber.org/automaxprocs` to disable the log output
	_, _ = maxprocs.Set()
}

// cmdRoot is the base command when no other commands have been specified.
var cmdRoot = &cobra.Command{
	Use:   "fitsthaw",
	Short: "Restore archival FITS frames from cold storage",
	Long: `
fitsthaw requests the restore of archival FITS frames from cold storage,
waits until the archive has thawed them and downloads the results. Frames
are addressed by their bare filenames, the object key of each frame is
derived from the site-instrument-dayobs naming convention or, for frames
that predate it, found by scanning the bucket listing.

EXIT STATUS
===========

Exit status is 0 if all frames were retrieved, 3 if some frames had to be
skipped, 130 if fitsthaw was interrupted and 1 for any other error.
`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// set verbosity, default is one
		globalOptions.verbosity = 1
		if globalOptions.Quiet && globalOptions.Verbose > 0 {
			return errors.Fatal("--quiet and --verbose cannot be specified at the same time")
		}

		switch {
		case globalOptions.Verbose >= 2:
			globalOptions.verbosity = 3
		case globalOptions.Verbose > 0:
			globalOptions.verbosity = 2
		case globalOptions.Quiet:
			globalOptions.verbosity = 0
		}

		// parse extended options
		opts, err := options.Parse(globalOptions.Options)
		if err != nil {
			return err
		}
		globalOptions.extended = opts

		return runDebug()
	},
}

func main() {
	debug.Log("main %#v", os.Args)
	debug.Log("fitsthaw %s compiled with %v on %v/%v",
		version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	ctx := createGlobalContext()
	err := cmdRoot.ExecuteContext(ctx)

	if err == nil {
		err = ctx.Err()
	}

	switch {
	case err == nil:
	case errors.IsFatal(err):
		// Fatal errors carry a message meant for the user, print it without
		// the stack trace.
		fmt.Fprintf(globalOptions.stderr, "%v\n", err)
	case errors.Is(err, ErrPartialRetrieval):
		fmt.Fprintf(globalOptions.stderr, "Warning: %v\n", err)
	default:
		fmt.Fprintf(globalOptions.stderr, "%+v\n", err)
	}

	var exitCode int
	switch {
	case err == nil:
		exitCode = 0
	case errors.Is(err, ErrPartialRetrieval):
		exitCode = 3
	case errors.Is(err, context.Canceled):
		exitCode = 130
	default:
		exitCode = 1
	}

	Exit(exitCode)
}
