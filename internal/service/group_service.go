package service

import (
	"context"

	"arbor/internal/models"
	"arbor/internal/repository"
	"arbor/internal/validation"
)

// GroupService provides group creation, lookup, and administration.
type GroupService struct {
	groupRepo      repository.GroupRepository
	membershipRepo repository.MembershipRepository
}

// NewGroupService returns a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository, membershipRepo repository.MembershipRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo, membershipRepo: membershipRepo}
}

// CreateGroupInput is the payload for creating a group.
type CreateGroupInput struct {
	Name                         string
	Shortname                    string
	Description                  string
	Visibility                   string
	DefaultMembershipModeration  string
	DefaultPostModeration        string
	DefaultEventModeration       string
	DefaultMembershipPermissions models.PermissionSet
}

// CreateGroup creates a group and enrolls the creator as its first
// member with admin permissions. The persisted shortname is the derived
// one, never the raw declared value.
func (s *GroupService) CreateGroup(ctx context.Context, actor *Actor, in CreateGroupInput) (*models.Group, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        in.Name,
		Shortname:   in.Shortname,
		Description: in.Description,
		Visibility:  models.VisibilityServerPublic,
		DefaultMembershipModeration:  models.ModerationUnmoderated,
		DefaultPostModeration:        models.ModerationUnmoderated,
		DefaultEventModeration:       models.ModerationUnmoderated,
		DefaultMembershipPermissions: in.DefaultMembershipPermissions,
	}
	if group.DefaultMembershipPermissions == nil {
		group.DefaultMembershipPermissions = models.PermissionSet{
			models.PermissionViewPosts,
			models.PermissionCreatePosts,
			models.PermissionViewEvents,
			models.PermissionCreateEvents,
		}
	}
	if err := applyGroupEnums(group, in.Visibility, in.DefaultMembershipModeration, in.DefaultPostModeration, in.DefaultEventModeration); err != nil {
		return nil, err
	}

	if verr := validation.ValidateGroup(group); verr != nil {
		return nil, verr
	}
	group.Shortname = validation.DeriveShortname(group)

	if existing, err := s.groupRepo.GetByShortname(ctx, group.Shortname); err == nil && existing != nil {
		return nil, models.NewValidationError("shortname_taken")
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	membership := &models.Membership{
		UserID:  actor.UserID,
		GroupID: group.ID,
		Permissions: models.PermissionSet{
			models.PermissionAdmin,
		},
		GroupModeration: models.ModerationUnmoderated,
		UserModeration:  models.ModerationUnmoderated,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}
	// Creation enrolled one passing member.
	group.MemberCount = 1
	return group, nil
}

// UpdateGroupInput is the payload for group updates. Nil fields are
// left unchanged.
type UpdateGroupInput struct {
	GroupID                      uint
	Name                         *string
	Description                  *string
	Visibility                   *string
	DefaultMembershipModeration  *string
	DefaultPostModeration        *string
	DefaultEventModeration       *string
	DefaultMembershipPermissions *models.PermissionSet
}

// UpdateGroup mutates a group. Only a member holding admin within the
// group, or an actor with moderate_users, may write.
func (s *GroupService) UpdateGroup(ctx context.Context, actor *Actor, in UpdateGroupInput) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGroupAdmin(ctx, actor, group.ID); err != nil {
		return nil, err
	}

	if in.Name != nil {
		group.Name = *in.Name
	}
	if in.Description != nil {
		group.Description = *in.Description
	}
	if in.DefaultMembershipPermissions != nil {
		group.DefaultMembershipPermissions = *in.DefaultMembershipPermissions
	}
	var visibility, membershipMod, postMod, eventMod string
	if in.Visibility != nil {
		visibility = *in.Visibility
	}
	if in.DefaultMembershipModeration != nil {
		membershipMod = *in.DefaultMembershipModeration
	}
	if in.DefaultPostModeration != nil {
		postMod = *in.DefaultPostModeration
	}
	if in.DefaultEventModeration != nil {
		eventMod = *in.DefaultEventModeration
	}
	if err := applyGroupEnums(group, visibility, membershipMod, postMod, eventMod); err != nil {
		return nil, err
	}

	if verr := validation.ValidateGroup(group); verr != nil {
		return nil, verr
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup returns one group, subject to its visibility.
func (s *GroupService) GetGroup(ctx context.Context, actor *Actor, id uint) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	related := s.isPassingMember(ctx, actor, group.ID)
	if err := canReadEntity(actor, nil, group.Visibility, models.ModerationUnmoderated, models.PermissionModerateUsers, related); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups lists groups the actor may browse.
func (s *GroupService) ListGroups(ctx context.Context, actor *Actor, limit, offset int) ([]models.Group, error) {
	visibilities := readVisibilities(actor)
	if actor.Can(models.PermissionModerateUsers) {
		visibilities = nil
	}
	return s.groupRepo.List(ctx, visibilities, limit, offset)
}

// requireGroupAdmin allows a passing member holding admin within the
// group, or a server-level user moderator.
func (s *GroupService) requireGroupAdmin(ctx context.Context, actor *Actor, groupID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Can(models.PermissionModerateUsers) {
		return nil
	}
	membership, err := s.membershipRepo.Get(ctx, actor.UserID, groupID)
	if err == nil && membership.Passing() && membership.Permissions.Has(models.PermissionAdmin) {
		return nil
	}
	return models.NewPermissionDeniedError("permission_denied")
}

func (s *GroupService) isPassingMember(ctx context.Context, actor *Actor, groupID uint) bool {
	if actor == nil {
		return false
	}
	membership, err := s.membershipRepo.Get(ctx, actor.UserID, groupID)
	return err == nil && membership.Passing()
}

// applyGroupEnums parses raw enum strings into the group, leaving blank
// values untouched.
func applyGroupEnums(group *models.Group, visibility, membershipMod, postMod, eventMod string) error {
	if visibility != "" {
		parsed, err := models.ParseVisibility(visibility)
		if err != nil {
			return models.NewValidationError("invalid_visibility")
		}
		group.Visibility = parsed
	}
	if membershipMod != "" {
		parsed, err := models.ParseModeration(membershipMod)
		if err != nil {
			return models.NewValidationError("invalid_default_membership_moderation")
		}
		group.DefaultMembershipModeration = parsed
	}
	if postMod != "" {
		parsed, err := models.ParseModeration(postMod)
		if err != nil {
			return models.NewValidationError("invalid_default_post_moderation")
		}
		group.DefaultPostModeration = parsed
	}
	if eventMod != "" {
		parsed, err := models.ParseModeration(eventMod)
		if err != nil {
			return models.NewValidationError("invalid_default_event_moderation")
		}
		group.DefaultEventModeration = parsed
	}
	return nil
}
