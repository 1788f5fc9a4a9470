package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/debug"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/frame"
	"github.com/fitsthaw/fitsthaw/internal/textfile"
	"github.com/fitsthaw/fitsthaw/internal/ui/progress"
)

// readFrameList reads frame names from the file at name ("-" means standard
// input) and appends the positional args. Every line names one frame in its
// first whitespace delimited column, blank lines and lines starting with '#'
// are ignored.
func readFrameList(name string, args []string) ([]string, error) {
	var frames []string

	if name != "" {
		var (
			data []byte
			err  error
		)

		if name == "-" {
			if stdinIsTerminal() {
				Verbosef("reading frame list from stdin\n")
			}
			data, err = io.ReadAll(os.Stdin)
			if err == nil {
				data, err = textfile.Decode(data)
			}
		} else {
			data, err = textfile.Read(name)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "frame list %v", name)
		}

		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			frames = append(frames, strings.Fields(line)[0])
		}
		if err := sc.Err(); err != nil {
			return nil, errors.Wrapf(err, "frame list %v", name)
		}
	}

	return append(frames, args...), nil
}

// newResolver picks the key resolution strategy: derive keys from the frame
// naming convention, or scan the bucket listing for frames that predate it.
func newResolver(store archive.Store, scan bool) frame.Resolver {
	if scan {
		return &frame.ScanResolver{Lister: store}
	}
	return frame.ConventionResolver{}
}

// resolveKeys maps every frame name to its object key. Frames without a
// resolvable key are reported and counted, they do not stop the run.
func resolveKeys(ctx context.Context, resolver frame.Resolver, frames []string, printer progress.Printer) (keys []string, unresolved int, err error) {
	for _, filename := range frames {
		key, err := resolver.Resolve(ctx, filename)
		if err != nil {
			if errors.Is(err, frame.ErrUnresolved) {
				printer.E("%v, skipping", err)
				unresolved++
				continue
			}
			return nil, 0, err
		}

		debug.Log("resolved %v to %v", filename, key)
		keys = append(keys, key)
	}

	return keys, unresolved, nil
}

// dedupKeys drops duplicate keys, keeping the first occurrence order. The
// same calibration frame often serves several of the requested frames.
func dedupKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))

	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}

	return unique
}
