package repository

import (
	"context"
	"errors"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// MediaRepository defines the interface for media reference storage.
// Blob bytes live in the object store; this only tracks references.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id uint) (*models.Media, error)
	Delete(ctx context.Context, id uint) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return models.NewInternalError("error_creating_media", err)
	}
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("media_not_found")
		}
		return nil, models.NewInternalError("error_loading_media", err)
	}
	return &media, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Media{}, id).Error; err != nil {
		return models.NewInternalError("error_deleting_media", err)
	}
	return nil
}
