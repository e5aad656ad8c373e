package repository

import (
	"context"
	"errors"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// ModerationSide selects which of a membership's two independent
// moderation states a decision applies to.
type ModerationSide string

const (
	// GroupSide is the moderation state owned by the group's moderators.
	GroupSide ModerationSide = "group_moderation"
	// UserSide is the moderation state owned by the member themselves.
	UserSide ModerationSide = "user_moderation"
)

// MembershipRepository defines the interface for membership data
// operations. Mutations recount the group's member_count and the user's
// group_count in the same transaction.
type MembershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	Get(ctx context.Context, userID, groupID uint) (*models.Membership, error)
	Update(ctx context.Context, membership *models.Membership) error
	UpdateModeration(ctx context.Context, userID, groupID uint, side ModerationSide, state models.Moderation) (*models.Membership, error)
	Delete(ctx context.Context, userID, groupID uint) error
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Membership, error)
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(membership).Error; err != nil {
			return models.NewInternalError("error_creating_membership", err)
		}
		return recountMembershipCounts(ctx, tx, membership.UserID, membership.GroupID)
	})
	return asAppError(err, "error_creating_membership")
}

func (r *membershipRepository) Get(ctx context.Context, userID, groupID uint) (*models.Membership, error) {
	var membership models.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("membership_not_found")
		}
		return nil, models.NewInternalError("error_loading_membership", err)
	}
	return &membership, nil
}

func (r *membershipRepository) Update(ctx context.Context, membership *models.Membership) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Membership{}).
			Where("user_id = ? AND group_id = ?", membership.UserID, membership.GroupID).
			Updates(map[string]interface{}{
				"permissions":      membership.Permissions,
				"group_moderation": membership.GroupModeration,
				"user_moderation":  membership.UserModeration,
			})
		if result.Error != nil {
			return models.NewInternalError("error_updating_membership", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("membership_not_found")
		}
		return recountMembershipCounts(ctx, tx, membership.UserID, membership.GroupID)
	})
	return asAppError(err, "error_updating_membership")
}

func (r *membershipRepository) UpdateModeration(ctx context.Context, userID, groupID uint, side ModerationSide, state models.Moderation) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND group_id = ?", userID, groupID).
			First(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("membership_not_found")
			}
			return models.NewInternalError("error_loading_membership", err)
		}
		if err := tx.Model(&models.Membership{}).
			Where("user_id = ? AND group_id = ?", userID, groupID).
			Update(string(side), state).Error; err != nil {
			return models.NewInternalError("error_updating_membership", err)
		}
		if side == GroupSide {
			membership.GroupModeration = state
		} else {
			membership.UserModeration = state
		}
		return recountMembershipCounts(ctx, tx, userID, groupID)
	})
	if err != nil {
		return nil, asAppError(err, "error_updating_membership")
	}
	return &membership, nil
}

func (r *membershipRepository) Delete(ctx context.Context, userID, groupID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND group_id = ?", userID, groupID).
			Delete(&models.Membership{})
		if result.Error != nil {
			return models.NewInternalError("error_deleting_membership", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("membership_not_found")
		}
		return recountMembershipCounts(ctx, tx, userID, groupID)
	})
	return asAppError(err, "error_deleting_membership")
}

func (r *membershipRepository) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Membership, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var memberships []models.Membership
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&memberships).Error; err != nil {
		return nil, models.NewInternalError("error_listing_memberships", err)
	}
	return memberships, nil
}
