package s3

import (
	"testing"
	"time"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	rtest "github.com/fitsthaw/fitsthaw/internal/test"

	"github.com/minio/minio-go/v7"
)

func TestWireTier(t *testing.T) {
	rtest.Equals(t, minio.TierStandard, wireTier(archive.TierStandard))
	rtest.Equals(t, minio.TierBulk, wireTier(archive.TierBulk))
}

func TestIsNotExist(t *testing.T) {
	var s Store

	err := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	rtest.Assert(t, s.IsNotExist(err), "NoSuchKey not recognized")
	rtest.Assert(t, s.IsNotExist(errors.Wrap(err, "client.RestoreObject")), "wrapped NoSuchKey not recognized")

	rtest.Assert(t, !s.IsNotExist(nil), "nil classified as not exist")
	rtest.Assert(t, !s.IsNotExist(errors.New("other")), "unrelated error classified as not exist")
	rtest.Assert(t, !s.IsNotExist(minio.ErrorResponse{Code: "AccessDenied"}), "AccessDenied classified as not exist")
}

func TestIsRestoreAlreadyInProgress(t *testing.T) {
	var s Store

	err := minio.ErrorResponse{Code: "RestoreAlreadyInProgress", Message: "Object restore is already in progress."}
	rtest.Assert(t, s.IsRestoreAlreadyInProgress(err), "RestoreAlreadyInProgress not recognized")
	rtest.Assert(t, s.IsRestoreAlreadyInProgress(errors.Wrap(err, "client.RestoreObject")), "wrapped RestoreAlreadyInProgress not recognized")

	rtest.Assert(t, !s.IsRestoreAlreadyInProgress(nil), "nil classified as in progress")
	rtest.Assert(t, !s.IsRestoreAlreadyInProgress(minio.ErrorResponse{Code: "NoSuchKey"}), "NoSuchKey classified as in progress")
}

func TestRestoreStatus(t *testing.T) {
	expiry := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	var tests = []struct {
		obj  minio.ObjectInfo
		want archive.RestoreStatus
	}{
		{
			// no x-amz-restore header at all: never requested
			obj:  minio.ObjectInfo{},
			want: archive.RestoreStatus{},
		},
		{
			obj: minio.ObjectInfo{Restore: &minio.RestoreInfo{OngoingRestore: true}},
			want: archive.RestoreStatus{
				Requested: true,
				Ongoing:   true,
			},
		},
		{
			obj: minio.ObjectInfo{Restore: &minio.RestoreInfo{OngoingRestore: false, ExpiryTime: expiry}},
			want: archive.RestoreStatus{
				Requested: true,
				Ongoing:   false,
				Expiry:    expiry,
			},
		},
	}

	for _, test := range tests {
		status := restoreStatus(test.obj)
		rtest.Equals(t, test.want, status)
		rtest.Equals(t, test.want.Done(), status.Done())
	}
}
