package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hszk-dev/gothumb/internal/domain/repository"
	"github.com/hszk-dev/gothumb/internal/infrastructure/metrics"
)

// expiresAtKey is the user metadata key carrying an entry's expiry time.
// Object stores have no per-key TTL, so expiry is enforced on read.
const expiresAtKey = "Expires-At"

// objectReader abstracts minio.Object for testability.
// *minio.Object satisfies this interface.
type objectReader interface {
	io.ReadCloser
	Stat() (minio.ObjectInfo, error)
}

// minioClient defines the interface for MinIO operations used by the cache.
// This abstraction allows for easier unit testing with mocks.
type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error)
}

// minioClientAdapter wraps *minio.Client to implement minioClient.
// Needed because *minio.Client.GetObject returns *minio.Object while the
// interface returns objectReader for testability.
type minioClientAdapter struct {
	client *minio.Client
}

func (a *minioClientAdapter) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return a.client.BucketExists(ctx, bucketName)
}

func (a *minioClientAdapter) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.client.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (a *minioClientAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (objectReader, error) {
	return a.client.GetObject(ctx, bucketName, objectName, opts)
}

// MinIOConfig holds configuration for the object-store cache backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOImageCache implements ImageCache on top of a MinIO bucket. It is the
// alternative backend for deployments without a Redis to point at.
type MinIOImageCache struct {
	client minioClient
	bucket string
	now    func() time.Time
}

// NewMinIOImageCache creates an object-store backed image cache.
// It verifies the bucket exists during initialization to fail fast on
// misconfiguration.
func NewMinIOImageCache(ctx context.Context, cfg MinIOConfig) (*MinIOImageCache, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return newMinIOImageCacheWithClient(ctx, &minioClientAdapter{client: client}, cfg.Bucket)
}

// newMinIOImageCacheWithClient creates a cache with a given minioClient.
// This is used for dependency injection in tests.
func newMinIOImageCacheWithClient(ctx context.Context, client minioClient, bucket string) (*MinIOImageCache, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", repository.ErrBucketNotFound, bucket)
	}

	return &MinIOImageCache{
		client: client,
		bucket: bucket,
		now:    time.Now,
	}, nil
}

// Get retrieves an image from the bucket.
// Returns nil, nil on cache miss; entries past their expiry count as misses.
func (c *MinIOImageCache) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(
			metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeMinIO,
		).Inc()
		return nil, fmt.Errorf("minio get object: %w", err)
	}
	defer obj.Close()

	// GetObject returns a lazy reader that doesn't fail until read.
	info, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			metrics.CacheOperationsTotal.WithLabelValues(
				metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeMinIO,
			).Inc()
			return nil, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(
			metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeMinIO,
		).Inc()
		return nil, fmt.Errorf("minio stat object: %w", err)
	}

	if c.expired(info) {
		metrics.CacheOperationsTotal.WithLabelValues(
			metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeMinIO,
		).Inc()
		return nil, nil
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(
			metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeMinIO,
		).Inc()
		return nil, fmt.Errorf("minio read object: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(
		metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeMinIO,
	).Inc()
	return data, nil
}

// Set stores an image in the bucket with its expiry recorded in user metadata.
// Empty payloads are skipped.
func (c *MinIOImageCache) Set(ctx context.Context, key string, image []byte, ttl time.Duration) error {
	if len(image) == 0 {
		return nil
	}

	opts := minio.PutObjectOptions{
		ContentType: "image/png",
		UserMetadata: map[string]string{
			expiresAtKey: c.now().Add(ttl).UTC().Format(time.RFC3339),
		},
	}

	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(image), int64(len(image)), opts)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(
			metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeMinIO,
		).Inc()
		return fmt.Errorf("minio put object: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(
		metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeMinIO,
	).Inc()
	return nil
}

// expired reports whether the object's recorded expiry has passed.
// Objects without the metadata entry never expire.
func (c *MinIOImageCache) expired(info minio.ObjectInfo) bool {
	raw, ok := info.UserMetadata[expiresAtKey]
	if !ok {
		return false
	}

	expiresAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}

	return c.now().After(expiresAt)
}
