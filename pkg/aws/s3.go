package aws

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	awssdk "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

// contentTypes maps report file extensions to their MIME types.
var contentTypes = map[string]string{
	".json": "application/json",
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// S3 uploads report files to a bucket.
type S3 struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// NewS3 returns an S3 that uploads to the specified bucket with keys under prefix.
func NewS3(sess *session.Session, bucket, prefix string) *S3 {
	return &S3{
		client: s3.New(sess),
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Upload implements orgstats.ReportStore.
func (s *S3) Upload(ctx context.Context, file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := path.Join(s.prefix, filepath.Base(file))
	req := s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   f,
	}
	if ct, ok := contentTypes[filepath.Ext(file)]; ok {
		req.ContentType = awssdk.String(ct)
	}

	if _, err := s.client.PutObjectWithContext(ctx, &req); err != nil {
		return "", errors.Wrapf(err, "could not upload %s to bucket '%s'", file, s.bucket)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
