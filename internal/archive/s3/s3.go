// Package s3 accesses an archive held in an S3 compatible bucket.
package s3

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/debug"
	"github.com/fitsthaw/fitsthaw/internal/errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store holds frames in an S3 bucket with an archival storage class.
type Store struct {
	client *minio.Client
	cfg    Config
}

// make sure that *Store implements archive.Store
var _ archive.Store = &Store{}

// Open connects to the S3 endpoint described by cfg. All requests go through
// the given http.RoundTripper.
func Open(cfg Config, rt http.RoundTripper) (*Store, error) {
	debug.Log("open, config %#v", cfg)

	if cfg.MaxRetries > 0 {
		minio.MaxRetry = int(cfg.MaxRetries)
	}

	// Chains all credential types, in the following order:
	//	- Static credentials provided by user
	//	- AWS env vars (i.e. AWS_ACCESS_KEY_ID)
	//	- Minio env vars (i.e. MINIO_ACCESS_KEY)
	//	- AWS creds file (i.e. AWS_SHARED_CREDENTIALS_FILE or ~/.aws/credentials)
	//	- Minio creds file (i.e. MINIO_SHARED_CREDENTIALS_FILE or ~/.mc/config.json)
	//	- IAM profile based credentials. (performs an HTTP
	//	  call to a pre-defined endpoint, only valid inside
	//	  configured ec2 instances)
	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.Static{
			Value: credentials.Value{
				AccessKeyID:     cfg.KeyID,
				SecretAccessKey: cfg.Secret.Unwrap(),
			},
		},
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{},
		&credentials.FileMinioClient{},
		&credentials.IAM{
			Client: &http.Client{
				Transport: http.DefaultTransport,
			},
		},
	})

	c, err := creds.Get()
	if err != nil {
		return nil, errors.Wrap(err, "creds.Get")
	}

	if c.SignerType == credentials.SignatureAnonymous {
		debug.Log("using anonymous access for %#v", cfg.Endpoint)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}

	opts := &minio.Options{
		Creds:     creds,
		Secure:    !cfg.UseHTTP,
		Region:    cfg.Region,
		Transport: rt,
	}

	switch strings.ToLower(cfg.BucketLookup) {
	case "", "auto":
		opts.BucketLookup = minio.BucketLookupAuto
	case "dns":
		opts.BucketLookup = minio.BucketLookupDNS
	case "path":
		opts.BucketLookup = minio.BucketLookupPath
	default:
		return nil, fmt.Errorf(`bad bucket-lookup style %q must be "auto", "path" or "dns"`, cfg.BucketLookup)
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, errors.Wrap(err, "minio.New")
	}

	return &Store{client: client, cfg: cfg}, nil
}

// wireTier translates a retrieval tier to the value S3 expects on the wire.
func wireTier(t archive.Tier) minio.TierType {
	if t == archive.TierBulk {
		return minio.TierBulk
	}
	return minio.TierStandard
}

// Restore asks S3 to thaw the object at key from the archival storage class.
func (s *Store) Restore(ctx context.Context, key string, days int, tier archive.Tier) error {
	req := minio.RestoreRequest{}
	req.SetDays(days)
	req.SetGlacierJobParameters(minio.GlacierJobParameters{Tier: wireTier(tier)})

	debug.Log("RestoreObject(%v, %v), days %d, tier %v", s.cfg.Bucket, key, days, &tier)
	err := s.client.RestoreObject(ctx, s.cfg.Bucket, key, "", req)
	return errors.Wrap(err, "client.RestoreObject")
}

// restoreStatus converts the x-amz-restore information of a HEAD response.
func restoreStatus(obj minio.ObjectInfo) archive.RestoreStatus {
	var status archive.RestoreStatus
	if obj.Restore != nil {
		status.Requested = true
		status.Ongoing = obj.Restore.OngoingRestore
		status.Expiry = obj.Restore.ExpiryTime
	}
	return status
}

// Status reports the restore state of the object at key.
func (s *Store) Status(ctx context.Context, key string) (archive.RestoreStatus, error) {
	obj, err := s.client.StatObject(ctx, s.cfg.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return archive.RestoreStatus{}, errors.Wrap(err, "client.StatObject")
	}

	return restoreStatus(obj), nil
}

// Download fetches the object at key into a local file at path, creating
// missing parent directories.
func (s *Store) Download(ctx context.Context, key, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "MkdirAll")
	}

	debug.Log("FGetObject(%v, %v) to %v", s.cfg.Bucket, key, path)
	err := s.client.FGetObject(ctx, s.cfg.Bucket, key, path, minio.GetObjectOptions{})
	return errors.Wrap(err, "client.FGetObject")
}

// Keys lists all object keys below prefix, in listing order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	debug.Log("using ListObjectsV1(%v)", s.cfg.ListObjectsV1)

	var keys []string
	for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
		UseV1:     s.cfg.ListObjectsV1,
	}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, "client.ListObjects")
		}

		if obj.Key == "" {
			continue
		}

		keys = append(keys, obj.Key)
	}

	return keys, ctx.Err()
}

// IsNotExist returns true if the error is caused by a not existing object.
func (s *Store) IsNotExist(err error) bool {
	debug.Log("IsNotExist(%T, %#v)", err, err)

	var e minio.ErrorResponse
	return errors.As(err, &e) && e.Code == "NoSuchKey"
}

// IsRestoreAlreadyInProgress returns true if the error says a restore for
// the object is already underway.
func (s *Store) IsRestoreAlreadyInProgress(err error) bool {
	debug.Log("IsRestoreAlreadyInProgress(%T, %#v)", err, err)

	var e minio.ErrorResponse
	return errors.As(err, &e) && e.Code == "RestoreAlreadyInProgress"
}
