package repository

import (
	"context"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// ServerConfigurationRepository provides idempotent access to the
// instance-wide configuration row.
type ServerConfigurationRepository interface {
	// GetOrInit returns the active configuration, creating the default
	// row if none exists yet. Implemented as a single conditional insert
	// so concurrent first-time callers cannot race two rows into place.
	GetOrInit(ctx context.Context) (*models.ServerConfiguration, error)
	Update(ctx context.Context, cfg *models.ServerConfiguration) error
}

type serverConfigurationRepository struct {
	db *gorm.DB
}

// NewServerConfigurationRepository creates a new server configuration
// repository.
func NewServerConfigurationRepository(db *gorm.DB) ServerConfigurationRepository {
	return &serverConfigurationRepository{db: db}
}

func (r *serverConfigurationRepository) GetOrInit(ctx context.Context) (*models.ServerConfiguration, error) {
	cfg := models.DefaultServerConfiguration()
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		FirstOrCreate(cfg).Error; err != nil {
		return nil, models.NewInternalError("error_inserting_default_server_configuration", err)
	}
	return cfg, nil
}

func (r *serverConfigurationRepository) Update(ctx context.Context, cfg *models.ServerConfiguration) error {
	if err := r.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return models.NewInternalError("error_updating_server_configuration", err)
	}
	return nil
}
