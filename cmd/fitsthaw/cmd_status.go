package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fitsthaw/fitsthaw/internal/errors"
)

var cmdStatus = &cobra.Command{
	Use:   "status [flags] [FRAME ...]",
	Short: "Report the restore state of frames",
	Long: `
The "status" command checks every frame once and reports its restore state:

    restored       the frame is thawed and can be downloaded
    restoring      a restore is running, check again later
    not requested  the frame is in cold storage and no restore was requested
    missing        the archive holds no object for this key

EXIT STATUS
===========

Exit status is 0 if the command was successful, 130 if fitsthaw was
interrupted and 1 if there was any error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd.Context(), statusOptions, globalOptions, args)
	},
}

// StatusOptions bundle all options for the 'status' command.
type StatusOptions struct {
	FrameList string
	Scan      bool
}

var statusOptions StatusOptions

func init() {
	cmdRoot.AddCommand(cmdStatus)

	f := cmdStatus.Flags()
	f.StringVar(&statusOptions.FrameList, "frame-list", "", "read frame names from this `file` (use - to read from stdin)")
	f.BoolVar(&statusOptions.Scan, "scan", false, "resolve keys by scanning the bucket listing instead of deriving them from the frame names")
}

func runStatus(ctx context.Context, opts StatusOptions, gopts GlobalOptions, args []string) error {
	frames, err := readFrameList(opts.FrameList, args)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return errors.Fatal("nothing to check, please specify frame names or --frame-list")
	}

	printer := newTerminalProgressPrinter(gopts.verbosity)

	store, err := openStore(gopts, false)
	if err != nil {
		return err
	}

	keys, _, err := resolveKeys(ctx, newResolver(store, opts.Scan), frames, printer)
	if err != nil {
		return err
	}

	for _, key := range dedupKeys(keys) {
		status, err := store.Status(ctx, key)
		switch {
		case err != nil && store.IsNotExist(err):
			Printf("%-13s  %v\n", "missing", key)
		case err != nil:
			return errors.Wrapf(err, "status %v", key)
		case status.Done():
			if status.Expiry.IsZero() {
				Printf("%-13s  %v\n", "restored", key)
			} else {
				Printf("%-13s  %v (expires %v)\n", "restored", key, status.Expiry.Local().Format(TimeFormat))
			}
		case status.Ongoing:
			Printf("%-13s  %v\n", "restoring", key)
		default:
			Printf("%-13s  %v\n", "not requested", key)
		}
	}

	return nil
}
