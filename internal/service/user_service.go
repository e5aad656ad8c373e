package service

import (
	"context"

	"arbor/internal/models"
	"arbor/internal/repository"
	"arbor/internal/validation"
)

// UserService provides user profile operations.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	mediaRepo  repository.MediaRepository
}

// NewUserService returns a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	mediaRepo repository.MediaRepository,
) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo, mediaRepo: mediaRepo}
}

// GetUser returns a user profile, subject to the target's visibility.
func (s *UserService) GetUser(ctx context.Context, actor *Actor, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	related := s.hasApprovedFollow(ctx, actor, id)
	ownerID := user.ID
	if err := canReadEntity(actor, &ownerID, user.Visibility, models.ModerationUnmoderated, models.PermissionModerateUsers, related); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserInput is the payload for profile updates. Nil fields are
// left unchanged.
type UpdateUserInput struct {
	UserID                  uint
	Bio                     *string
	AvatarMediaID           *uint
	Visibility              *models.Visibility
	DefaultFollowModeration *models.Moderation
	Permissions             *models.PermissionSet
}

// UpdateUser mutates a profile. Only the owner or an actor with
// moderate_users may write; permission-set changes additionally require
// moderate_users (a user cannot grant themselves capabilities).
func (s *UserService) UpdateUser(ctx context.Context, actor *Actor, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	ownerID := user.ID
	if err := canWriteEntity(actor, &ownerID, models.PermissionModerateUsers); err != nil {
		return nil, err
	}

	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.AvatarMediaID != nil {
		if _, err := s.mediaRepo.GetByID(ctx, *in.AvatarMediaID); err != nil {
			return nil, err
		}
		user.AvatarMediaID = in.AvatarMediaID
	}
	if in.Visibility != nil {
		user.Visibility = *in.Visibility
	}
	if in.DefaultFollowModeration != nil {
		user.DefaultFollowModeration = *in.DefaultFollowModeration
	}
	if in.Permissions != nil {
		if err := canModerate(actor, models.PermissionModerateUsers); err != nil {
			return nil, err
		}
		user.Permissions = *in.Permissions
	}

	if verr := validation.ValidateUser(user); verr != nil {
		return nil, verr
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns user profiles the actor may browse.
func (s *UserService) ListUsers(ctx context.Context, actor *Actor, limit, offset int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	visible := make([]models.User, 0, len(users))
	for _, user := range users {
		ownerID := user.ID
		if canReadEntity(actor, &ownerID, user.Visibility, models.ModerationUnmoderated, models.PermissionModerateUsers, false) == nil {
			visible = append(visible, user)
		}
	}
	return visible, nil
}

// hasApprovedFollow reports whether actor holds a passing follow on
// target, which unlocks limited-visibility reads.
func (s *UserService) hasApprovedFollow(ctx context.Context, actor *Actor, targetUserID uint) bool {
	if actor == nil {
		return false
	}
	follow, err := s.followRepo.Get(ctx, actor.UserID, targetUserID)
	if err != nil {
		return false
	}
	return follow.TargetUserModeration.Passing()
}
