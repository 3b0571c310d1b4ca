// Package storage wraps the S3-compatible media host.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ObjectStore struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
}

func NewObjectStore(cfg *config.Config) (*ObjectStore, error) {
	endpoint := cfg.MediaEndpoint
	useSSL := cfg.MediaUseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse media endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MediaAccessKey, cfg.MediaSecretKey, ""),
		Secure: useSSL,
		Region: cfg.MediaRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client:    client,
		bucket:    cfg.MediaBucket,
		region:    cfg.MediaRegion,
		publicURL: publicBase(cfg.MediaPublicURL, endpoint, useSSL, cfg.MediaBucket),
	}, nil
}

// EnsureBucket creates the media bucket when it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Put uploads one object and returns its public URL.
func (s *ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.URL(key), nil
}

func (s *ObjectStore) URL(key string) string {
	return s.publicURL + "/" + strings.TrimPrefix(key, "/")
}

// publicBase prefers an explicit CDN base, otherwise a path-style bucket URL.
func publicBase(explicit, host string, useSSL bool, bucket string) string {
	if explicit != "" {
		return strings.TrimSuffix(explicit, "/")
	}
	scheme := "https"
	if !useSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, host, bucket)
}
