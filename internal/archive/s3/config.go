package s3

import (
	"github.com/fitsthaw/fitsthaw/internal/options"
)

// Config contains all configuration necessary to connect to an s3 compatible
// server holding the archive bucket.
type Config struct {
	Endpoint string `option:"endpoint" help:"connect to this S3 endpoint instead of the AWS default"`
	UseHTTP  bool   `option:"use-http" help:"connect without TLS (only sensible with a private test endpoint)"`

	KeyID  string
	Secret options.SecretString

	Bucket string
	Region string

	BucketLookup  string `option:"bucket-lookup" help:"bucket lookup style: 'auto', 'dns' or 'path'"`
	ListObjectsV1 bool   `option:"list-objects-v1" help:"use the older V1 API for listing the bucket"`
	MaxRetries    uint   `option:"retries" help:"set the number of HTTP retries attempted per request"`
}

// NewConfig returns a new Config with the default values filled in.
func NewConfig() Config {
	return Config{}
}

func init() {
	options.Register("s3", Config{})
}
