package storage

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/fabrikasoft/fabrika-api/internal/config"
)

// Client wraps a MinIO connection bound to a single bucket. Used for product
// reference files (patterns, photos).
type Client struct {
	mc         *minio.Client
	bucket     string
	presignTTL time.Duration
}

// New connects to MinIO and ensures the bucket exists.
func New(ctx context.Context, cfg config.StorageConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("created storage bucket")
	}

	return &Client{mc: mc, bucket: cfg.Bucket, presignTTL: cfg.PresignTTL}, nil
}

// Upload stores an object under the given key.
func (c *Client) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := c.mc.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// PresignedURL returns a time-limited GET URL for the object.
func (c *Client) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, c.presignTTL, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Remove deletes the object. Removing a missing object is not an error.
func (c *Client) Remove(ctx context.Context, key string) error {
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}
