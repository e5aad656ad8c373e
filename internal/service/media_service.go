package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"arbor/internal/models"
	"arbor/internal/repository"
)

// maxUploadSize caps uploads at 16 MiB.
const maxUploadSize = 16 << 20

// BlobStore is the object store surface the media service needs.
type BlobStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MediaService handles upload and retrieval of user media.
type MediaService struct {
	mediaRepo repository.MediaRepository
	store     BlobStore
}

// NewMediaService returns a new MediaService. store may be nil when no
// object store is configured; uploads then fail cleanly.
func NewMediaService(mediaRepo repository.MediaRepository, store BlobStore) *MediaService {
	return &MediaService{mediaRepo: mediaRepo, store: store}
}

// Upload stores a blob and records its reference.
func (s *MediaService) Upload(ctx context.Context, actor *Actor, reader io.Reader, size int64, contentType string) (*models.Media, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, models.NewValidationError("media_storage_disabled")
	}
	if size <= 0 || size > maxUploadSize {
		return nil, models.NewValidationError("invalid_media_size")
	}
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return nil, models.NewValidationError("unsupported_media_type")
	}

	key := fmt.Sprintf("u%d/%s", actor.UserID, uuid.NewString())
	if err := s.store.Put(ctx, key, reader, size, contentType); err != nil {
		return nil, models.NewInternalError("error_storing_media", err)
	}

	media := &models.Media{
		UserID:      actor.UserID,
		ObjectKey:   key,
		ContentType: contentType,
		Size:        size,
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		// Orphaned blob; best effort cleanup.
		_ = s.store.Remove(ctx, key)
		return nil, err
	}
	return media, nil
}

// Download opens a stored blob for reading. Media references are
// readable by anyone who can name them; visibility is enforced on the
// entities that embed them.
func (s *MediaService) Download(ctx context.Context, id uint) (*models.Media, io.ReadCloser, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.store == nil {
		return nil, nil, models.NewValidationError("media_storage_disabled")
	}
	reader, err := s.store.Get(ctx, media.ObjectKey)
	if err != nil {
		return nil, nil, models.NewInternalError("error_loading_media", err)
	}
	return media, reader, nil
}

// Delete removes a blob and its reference. Only the uploader or a user
// moderator may delete.
func (s *MediaService) Delete(ctx context.Context, actor *Actor, id uint) error {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	ownerID := media.UserID
	if err := canWriteEntity(actor, &ownerID, models.PermissionModerateUsers); err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.Remove(ctx, media.ObjectKey); err != nil {
			return models.NewInternalError("error_deleting_media", err)
		}
	}
	return s.mediaRepo.Delete(ctx, id)
}
