package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbor/internal/models"
)

type blobStoreStub struct {
	putFn    func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	getFn    func(ctx context.Context, key string) (io.ReadCloser, error)
	removeFn func(ctx context.Context, key string) error
}

func (s *blobStoreStub) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return s.putFn(ctx, key, reader, size, contentType)
}
func (s *blobStoreStub) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.getFn(ctx, key)
}
func (s *blobStoreStub) Remove(ctx context.Context, key string) error {
	return s.removeFn(ctx, key)
}

func noopBlobStore() *blobStoreStub {
	return &blobStoreStub{
		putFn: func(_ context.Context, _ string, _ io.Reader, _ int64, _ string) error { return nil },
		getFn: func(_ context.Context, _ string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("bytes")), nil
		},
		removeFn: func(_ context.Context, _ string) error { return nil },
	}
}

func TestUploadChecksSizeAndType(t *testing.T) {
	svc := NewMediaService(noopMediaRepo(), noopBlobStore())
	ctx := context.Background()

	_, err := svc.Upload(ctx, writer(), strings.NewReader(""), 0, "image/png")
	require.Error(t, err)
	assert.Equal(t, "invalid_media_size", appErrCode(t, err))

	_, err = svc.Upload(ctx, writer(), strings.NewReader("x"), maxUploadSize+1, "image/png")
	require.Error(t, err)
	assert.Equal(t, "invalid_media_size", appErrCode(t, err))

	_, err = svc.Upload(ctx, writer(), strings.NewReader("x"), 1, "application/pdf")
	require.Error(t, err)
	assert.Equal(t, "unsupported_media_type", appErrCode(t, err))
}

func TestUploadStoresAndRecords(t *testing.T) {
	store := noopBlobStore()
	var storedKey string
	store.putFn = func(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
		storedKey = key
		return nil
	}
	svc := NewMediaService(noopMediaRepo(), store)

	media, err := svc.Upload(context.Background(), writer(), strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, storedKey, media.ObjectKey)
	assert.Equal(t, uint(1), media.UserID)
	assert.True(t, strings.HasPrefix(media.ObjectKey, "u1/"))
}

func TestUploadCleansUpOrphanedBlob(t *testing.T) {
	store := noopBlobStore()
	removed := false
	store.removeFn = func(_ context.Context, _ string) error {
		removed = true
		return nil
	}
	mediaRepo := noopMediaRepo()
	mediaRepo.createFn = func(_ context.Context, _ *models.Media) error {
		return models.NewInternalError("error_creating_media", errors.New("db down"))
	}
	svc := NewMediaService(mediaRepo, store)

	_, err := svc.Upload(context.Background(), writer(), strings.NewReader("png"), 3, "image/png")
	require.Error(t, err)
	assert.True(t, removed, "orphaned blob should be removed")
}

func TestUploadWithoutStore(t *testing.T) {
	svc := NewMediaService(noopMediaRepo(), nil)
	_, err := svc.Upload(context.Background(), writer(), strings.NewReader("x"), 1, "image/png")
	require.Error(t, err)
	assert.Equal(t, "media_storage_disabled", appErrCode(t, err))
}

func TestDeleteMediaOwnerOrModerator(t *testing.T) {
	mediaRepo := noopMediaRepo()
	mediaRepo.getByIDFn = func(_ context.Context, id uint) (*models.Media, error) {
		return &models.Media{ID: id, UserID: 1, ObjectKey: "u1/k"}, nil
	}
	svc := NewMediaService(mediaRepo, noopBlobStore())
	ctx := context.Background()

	err := svc.Delete(ctx, &Actor{UserID: 2}, 1)
	require.Error(t, err)
	assert.Equal(t, "permission_denied", appErrCode(t, err))

	require.NoError(t, svc.Delete(ctx, writer(), 1))
	require.NoError(t, svc.Delete(ctx, moderator(), 1))
}
