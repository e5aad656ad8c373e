// Package media stores uploaded blobs in an S3-compatible object store.
// The database keeps only metadata; the bytes live in the bucket.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"arbor/internal/config"
)

// Store wraps a MinIO client bound to a single bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore connects to the object store, ensures the configured bucket
// exists, and verifies the connection with a write-read-delete round
// trip of a probe object.
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store client: %w", err)
	}

	store := &Store{client: client, bucket: cfg.MinioBucket}

	exists, err := client.BucketExists(ctx, store.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", store.bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, store.bucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", store.bucket, err)
		}
		slog.Info("created media bucket", "bucket", store.bucket)
	}

	if err := store.smokeTest(ctx); err != nil {
		return nil, err
	}
	slog.Info("object store connected", "endpoint", cfg.MinioEndpoint, "bucket", store.bucket)
	return store, nil
}

// smokeTest writes, stats, reads back, and removes a probe object so a
// misconfigured store fails at startup rather than on the first upload.
func (s *Store) smokeTest(ctx context.Context) error {
	key := fmt.Sprintf("connection-probe-%d", time.Now().UnixNano())
	payload := []byte("probe")

	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{ContentType: "text/plain"}); err != nil {
		return fmt.Errorf("object store probe write failed: %w", err)
	}
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return fmt.Errorf("object store probe stat failed: %w", err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("object store probe read failed: %w", err)
	}
	read, err := io.ReadAll(obj)
	obj.Close()
	if err != nil || !bytes.Equal(read, payload) {
		return fmt.Errorf("object store probe readback mismatch: %w", err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("object store probe cleanup failed: %w", err)
	}
	return nil
}

// Put uploads an object and returns its key.
func (s *Store) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to store object %q: %w", key, err)
	}
	return nil
}

// Get opens an object for reading. The caller closes the reader.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object %q: %w", key, err)
	}
	// GetObject is lazy; stat forces the first round trip so missing
	// objects surface here instead of mid-stream.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to stat object %q: %w", key, err)
	}
	return obj, nil
}

// Remove deletes an object. Removing a missing object is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}
	return nil
}
