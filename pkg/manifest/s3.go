package manifest

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/routehub-io/routehub/pkg/registry"
)

// S3API is the subset of the S3 client used to fetch a manifest object.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// IsS3Path reports whether path is an s3://bucket/key manifest location.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// LoadS3 fetches and parses a manifest stored in object storage. The path
// must be of the form s3://bucket/key. Deployments that publish build
// artifacts to a bucket can point the loader straight at them.
func LoadS3(ctx context.Context, client S3API, path string) (registry.Snapshot, error) {
	bucket, key, err := splitS3Path(path)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching manifest from s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading manifest from s3://%s/%s: %w", bucket, key, err)
	}
	return Parse(data)
}

func splitS3Path(path string) (bucket, key string, err error) {
	u, err := url.Parse(path)
	if err != nil || u.Scheme != "s3" || u.Host == "" || u.Path == "" {
		return "", "", fmt.Errorf("invalid s3 manifest path %q, want s3://bucket/key", path)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}
