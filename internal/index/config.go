package index

import (
	"time"

	"github.com/fitsthaw/fitsthaw/internal/options"
)

// Config contains all configuration necessary to connect to the metadata
// index.
type Config struct {
	// Address is the URL of the search cluster, e.g. https://search.example.org.
	Address string

	// Name is the index to search.
	Name string

	// Username and Password enable basic auth when the cluster requires it.
	Username string
	Password options.SecretString

	Timeout time.Duration `option:"timeout" help:"set a timeout for index requests (default: 60s)"`
}

// NewConfig returns a new Config with the default values filled in.
func NewConfig() Config {
	return Config{
		Timeout: 60 * time.Second,
	}
}

func init() {
	options.Register("index", Config{})
}
