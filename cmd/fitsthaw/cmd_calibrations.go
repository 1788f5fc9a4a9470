package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitsthaw/fitsthaw/internal/calib"
	"github.com/fitsthaw/fitsthaw/internal/errors"
)

var cmdCalibrations = &cobra.Command{
	Use:   "calibrations [flags] FRAME",
	Short: "Print the calibration frames taken closest to a frame",
	Long: `
The "calibrations" command looks the frame up in the metadata index and
prints the object keys of the calibration frames with the given OBSTYPE
taken closest in time to it, best match first. For sky flats the filter of
the frame must match as well.

EXIT STATUS
===========

Exit status is 0 if the command was successful, 130 if fitsthaw was
interrupted and 1 if there was any error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCalibrations(cmd.Context(), calibrationsOptions, globalOptions, args)
	},
}

// CalibrationsOptions bundle all options for the 'calibrations' command.
type CalibrationsOptions struct {
	Type  string
	Count int
}

var calibrationsOptions CalibrationsOptions

func init() {
	cmdRoot.AddCommand(cmdCalibrations)

	f := cmdCalibrations.Flags()
	f.StringVar(&calibrationsOptions.Type, "type", "", "`OBSTYPE` of the calibration frames to search, e.g. BIAS, DARK or SKYFLAT")
	f.IntVarP(&calibrationsOptions.Count, "count", "n", 1, "number of calibration frames to print")
}

func runCalibrations(ctx context.Context, opts CalibrationsOptions, gopts GlobalOptions, args []string) error {
	if len(args) != 1 {
		return errors.Fatal("please specify exactly one frame name")
	}
	if opts.Type == "" {
		return errors.Fatal("please specify the calibration frame type (--type)")
	}
	if opts.Count < 1 {
		return errors.Fatalf("number of calibration frames must be positive, got %d", opts.Count)
	}

	searcher, err := openSearcher(gopts)
	if err != nil {
		return err
	}

	printer := newTerminalProgressPrinter(gopts.verbosity)
	finder := &calib.Finder{Searcher: searcher, Printer: printer}

	keys, err := finder.Nearest(ctx, opts.Type, opts.Count, args[0])
	if err != nil {
		return err
	}

	for _, key := range keys {
		Printf("%v\n", key)
	}

	return nil
}
