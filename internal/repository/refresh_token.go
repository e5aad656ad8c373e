package repository

import (
	"context"
	"errors"
	"time"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// RefreshTokenRepository defines the interface for refresh token
// storage.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, id uint) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository.
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return models.NewInternalError("error_creating_refresh_token", err)
	}
	return nil
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&refreshToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthenticatedError("invalid_refresh_token")
		}
		return nil, models.NewInternalError("error_loading_refresh_token", err)
	}
	return &refreshToken, nil
}

func (r *refreshTokenRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.RefreshToken{}, id).Error; err != nil {
		return models.NewInternalError("error_deleting_refresh_token", err)
	}
	return nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if err := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.RefreshToken{}).Error; err != nil {
		return models.NewInternalError("error_deleting_refresh_token", err)
	}
	return nil
}
