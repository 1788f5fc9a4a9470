// Package frame knows how FITS frames are named: how a frame filename maps
// to the object key that archives it, and how DATE-OBS header timestamps are
// parsed.
package frame

import (
	"fmt"
	"strings"

	"github.com/fitsthaw/fitsthaw/internal/errors"
)

// Compressed normalizes a frame filename to the fpacked form stored in the
// archive. Uncompressed names get the .fz suffix, already compressed names
// pass through unchanged, as do names without a FITS extension.
func Compressed(filename string) string {
	filename = strings.ReplaceAll(filename, ".fits.fz", ".fits")
	return strings.ReplaceAll(filename, ".fits", ".fits.fz")
}

// Stripped removes the FITS and fpack extensions so that the name matches
// the extensionless filenames the metadata index stores.
func Stripped(filename string) string {
	filename = strings.ReplaceAll(filename, ".fits", "")
	return strings.ReplaceAll(filename, ".fz", "")
}

// ObjectKey derives the archive object key for a frame named after the
// site-instrument-dayobs convention, e.g.
//
//	coj0m405-kb24-20200101-0001-e00.fits
//
// maps to coj/kb24/20200101/raw/coj0m405-kb24-20200101-0001-e00.fits.fz.
// The site is the first three characters, instrument and day-of-observation
// are the second and third hyphen separated segments. The stored filename is
// always the compressed form, regardless of the extension of the input.
// Names that do not follow the convention have no derivable key, the
// returned error wraps ErrUnresolved.
func ObjectKey(filename string) (string, error) {
	parts := strings.Split(filename, "-")
	if len(parts) < 3 || len(parts[0]) < 3 {
		return "", errors.Wrapf(ErrUnresolved, "frame name %q does not follow the site-instrument-dayobs convention", filename)
	}

	site := parts[0][:3]
	instrument := parts[1]
	dayobs := parts[2]
	if instrument == "" || dayobs == "" {
		return "", errors.Wrapf(ErrUnresolved, "frame name %q does not follow the site-instrument-dayobs convention", filename)
	}

	return fmt.Sprintf("%s/%s/%s/raw/%s", site, instrument, dayobs, Compressed(filename)), nil
}
