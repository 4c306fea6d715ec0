package assets

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Region skips the bucket location lookup when set.
	Region string
	// MaxRetries bounds attempts per request. Zero keeps the client default.
	MaxRetries int
	// PublicURL overrides the base returned URLs are built from.
	// Defaults to <endpoint>/<bucket>.
	PublicURL string
}

// S3Sink uploads objects to an S3 compatible asset host
type S3Sink struct {
	cfg     S3Config
	client  *minio.Client
	baseURL string
}

func NewS3Sink(cfg S3Config) (*S3Sink, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 sink: endpoint, access key, secret key and bucket are required")
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:     cfg.UseSSL,
		Region:     cfg.Region,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	base := cfg.PublicURL
	if base == "" {
		base, err = url.JoinPath(cl.EndpointURL().String(), cfg.Bucket)
		if err != nil {
			return nil, fmt.Errorf("s3 base url: %w", err)
		}
	}

	return &S3Sink{cfg: cfg, client: cl, baseURL: base}, nil
}

// EnsureBucket creates the bucket when it does not exist yet
func (s *S3Sink) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region})
	}
	return nil
}

func (s *S3Sink) Put(ctx context.Context, obj Object) (string, error) {
	size := obj.Size
	if size <= 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, obj.Key, obj.Body, size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", obj.Key, err)
	}
	return s.ObjectURL(obj.Key)
}

// ObjectURL returns the public URL of key
func (s *S3Sink) ObjectURL(key string) (string, error) {
	return url.JoinPath(s.baseURL, key)
}
