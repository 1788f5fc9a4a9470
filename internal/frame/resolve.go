package frame

import (
	"context"
	"strings"

	"github.com/fitsthaw/fitsthaw/internal/debug"
	"github.com/fitsthaw/fitsthaw/internal/errors"
)

// ErrUnresolved is returned by a Resolver when no object key exists for a
// frame.
var ErrUnresolved = errors.New("no object key found for frame")

// A Resolver maps a bare frame filename to the object key that stores it.
type Resolver interface {
	Resolve(ctx context.Context, filename string) (string, error)
}

// ConventionResolver resolves frames named after the site-instrument-dayobs
// convention by deriving the key directly from the name.
type ConventionResolver struct{}

func (ConventionResolver) Resolve(_ context.Context, filename string) (string, error) {
	return ObjectKey(filename)
}

// A KeyLister lists all object keys below a prefix.
type KeyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ScanResolver resolves frames that predate the naming convention by
// scanning the complete archive listing for the first key that contains the
// filename. The listing is loaded on the first call and reused afterwards,
// so each lookup is still a linear scan but the bucket is listed only once
// per resolver.
type ScanResolver struct {
	Lister KeyLister

	keys   []string
	listed bool
}

func (r *ScanResolver) Resolve(ctx context.Context, filename string) (string, error) {
	if !r.listed {
		keys, err := r.Lister.Keys(ctx, "")
		if err != nil {
			return "", errors.Wrap(err, "Keys")
		}

		debug.Log("loaded %d object keys", len(keys))
		r.keys = keys
		r.listed = true
	}

	for _, key := range r.keys {
		if strings.Contains(key, filename) {
			return key, nil
		}
	}

	return "", errors.Wrapf(ErrUnresolved, "frame %v", filename)
}
