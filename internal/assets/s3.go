package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config locates a bucket of sound clips.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// Prefix is prepended to every clip key, e.g. "packs/default".
	Prefix string
	UseSSL bool
}

// S3Source fetches clips from an S3-compatible object store.
type S3Source struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ Source = (*S3Source)(nil)

// NewS3Source validates cfg and creates the client. No request is made
// until the first Fetch.
func NewS3Source(cfg S3Config) (*S3Source, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
	}, nil
}

// ObjectKey returns the object key a clip resolves to.
func (s *S3Source) ObjectKey(clip string) string {
	key := clipKey(clip)
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// Fetch implements Source.
func (s *S3Source) Fetch(ctx context.Context, clip string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.ObjectKey(clip), minio.GetObjectOptions{})
	if err != nil {
		return nil, &FetchError{Clip: clip, Err: err}
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(io.LimitReader(obj, maxClipSize+1))
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, &FetchError{Clip: clip, Err: errors.New("object not found")}
		}
		return nil, &FetchError{Clip: clip, Err: err}
	}
	if len(data) > maxClipSize {
		return nil, &FetchError{Clip: clip, Err: fmt.Errorf("clip exceeds %d bytes", maxClipSize)}
	}
	return data, nil
}
