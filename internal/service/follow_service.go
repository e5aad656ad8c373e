package service

import (
	"context"

	"arbor/internal/models"
	"arbor/internal/observability"
	"arbor/internal/repository"
	"arbor/internal/validation"
)

// FollowService manages follow relationships between users.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// CreateFollow starts following a target user. The initial moderation
// state comes from the target's follow policy, so a locked-down profile
// yields a pending request rather than an immediate follow.
func (s *FollowService) CreateFollow(ctx context.Context, actor *Actor, targetUserID uint) (*models.Follow, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	follow := &models.Follow{
		UserID:               actor.UserID,
		TargetUserID:         targetUserID,
		TargetUserModeration: target.DefaultFollowModeration,
	}
	if verr := validation.ValidateFollow(follow, validation.OperationCreate); verr != nil {
		return nil, verr
	}

	if existing, err := s.followRepo.Get(ctx, actor.UserID, targetUserID); err == nil && existing != nil {
		return nil, models.NewValidationError("follow_already_exists")
	}

	if err := s.followRepo.Create(ctx, follow); err != nil {
		return nil, err
	}
	return follow, nil
}

// DecideFollow resolves a pending follow request. Only the target user
// (or a user moderator) may decide, and the decision must be terminal.
func (s *FollowService) DecideFollow(ctx context.Context, actor *Actor, userID, targetUserID uint, state models.Moderation) (*models.Follow, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.Is(targetUserID) && !actor.Can(models.PermissionModerateUsers) {
		return nil, models.NewPermissionDeniedError("permission_denied")
	}

	follow := &models.Follow{
		UserID:               userID,
		TargetUserID:         targetUserID,
		TargetUserModeration: state,
	}
	if verr := validation.ValidateFollow(follow, validation.OperationUpdate); verr != nil {
		return nil, verr
	}

	decided, err := s.followRepo.UpdateModeration(ctx, userID, targetUserID, state)
	if err != nil {
		return nil, err
	}
	observability.RecordModerationDecision("follow", string(state))
	return decided, nil
}

// DeleteFollow unfollows. Either side of the relationship may sever it.
func (s *FollowService) DeleteFollow(ctx context.Context, actor *Actor, userID, targetUserID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Is(userID) && !actor.Is(targetUserID) && !actor.Can(models.PermissionModerateUsers) {
		return models.NewPermissionDeniedError("permission_denied")
	}

	follow := &models.Follow{UserID: userID, TargetUserID: targetUserID}
	if verr := validation.ValidateFollow(follow, validation.OperationDelete); verr != nil {
		return verr
	}
	return s.followRepo.Delete(ctx, userID, targetUserID)
}

// GetFollow returns the follow between two users, if any. Only the
// participants or a user moderator may inspect it.
func (s *FollowService) GetFollow(ctx context.Context, actor *Actor, userID, targetUserID uint) (*models.Follow, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.Is(userID) && !actor.Is(targetUserID) && !actor.Can(models.PermissionModerateUsers) {
		return nil, models.NewPermissionDeniedError("permission_denied")
	}
	return s.followRepo.Get(ctx, userID, targetUserID)
}
