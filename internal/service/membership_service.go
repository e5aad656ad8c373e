package service

import (
	"context"

	"arbor/internal/models"
	"arbor/internal/observability"
	"arbor/internal/repository"
	"arbor/internal/validation"
)

// MembershipService governs the lifecycle of user-group memberships.
// Group-side and user-side moderation are independent: a membership
// counts only while both are passing.
type MembershipService struct {
	membershipRepo repository.MembershipRepository
	groupRepo      repository.GroupRepository
	userRepo       repository.UserRepository
}

// NewMembershipService returns a new MembershipService.
func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
) *MembershipService {
	return &MembershipService{membershipRepo: membershipRepo, groupRepo: groupRepo, userRepo: userRepo}
}

// CreateMembership joins a user to a group. Joining is always
// structurally allowed once the ids validate; permission-set content is
// never checked on create. The group side starts at the group's default
// membership policy when self-joining; an invite (created by a group
// admin for another user) starts group-approved with the user side
// pending.
func (s *MembershipService) CreateMembership(ctx context.Context, actor *Actor, userID, groupID uint) (*models.Membership, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	membership := &models.Membership{
		UserID:      userID,
		GroupID:     groupID,
		Permissions: group.DefaultMembershipPermissions,
	}
	switch {
	case actor.Is(userID):
		membership.GroupModeration = group.DefaultMembershipModeration
		membership.UserModeration = models.ModerationUnmoderated
	default:
		// Inviting someone else requires standing in the group.
		if err := s.requireMembershipModerator(ctx, actor, groupID); err != nil {
			return nil, err
		}
		membership.GroupModeration = models.ModerationApproved
		membership.UserModeration = models.ModerationPending
	}

	if verr := validation.ValidateMembership(membership, validation.OperationCreate); verr != nil {
		return nil, verr
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// UpdateMembershipInput is the payload for membership updates.
type UpdateMembershipInput struct {
	UserID      uint
	GroupID     uint
	Permissions models.PermissionSet
}

// UpdateMembership changes a membership's permission set. The update
// path cannot force approved/rejected moderation; those transitions go
// through DecideMembership.
func (s *MembershipService) UpdateMembership(ctx context.Context, actor *Actor, in UpdateMembershipInput) (*models.Membership, error) {
	if err := s.requireMembershipModerator(ctx, actor, in.GroupID); err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.Get(ctx, in.UserID, in.GroupID)
	if err != nil {
		return nil, err
	}
	membership.Permissions = in.Permissions

	if verr := validation.ValidateMembership(membership, validation.OperationUpdate); verr != nil {
		return nil, verr
	}
	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// DecideMembership records a terminal moderation decision on one side of
// a membership. The group side may be decided by a membership moderator
// of the group; the user side only by the member themselves (their own
// consent).
func (s *MembershipService) DecideMembership(ctx context.Context, actor *Actor, userID, groupID uint, side repository.ModerationSide, state models.Moderation) (*models.Membership, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !state.Decided() {
		return nil, models.NewValidationError("invalid_moderation")
	}

	switch side {
	case repository.GroupSide:
		if err := s.requireMembershipModerator(ctx, actor, groupID); err != nil {
			return nil, err
		}
	case repository.UserSide:
		if !actor.Is(userID) && !actor.Can(models.PermissionModerateUsers) {
			return nil, models.NewPermissionDeniedError("permission_denied")
		}
	default:
		return nil, models.NewValidationError("invalid_moderation_side")
	}

	membership, err := s.membershipRepo.UpdateModeration(ctx, userID, groupID, side, state)
	if err != nil {
		return nil, err
	}
	observability.RecordModerationDecision("membership", string(state))
	return membership, nil
}

// DeleteMembership leaves or removes a user from a group. Leaving is
// always structurally allowed for the member; removal requires
// moderation standing.
func (s *MembershipService) DeleteMembership(ctx context.Context, actor *Actor, userID, groupID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Is(userID) {
		if err := s.requireMembershipModerator(ctx, actor, groupID); err != nil {
			return err
		}
	}

	membership := &models.Membership{UserID: userID, GroupID: groupID}
	if verr := validation.ValidateMembership(membership, validation.OperationDelete); verr != nil {
		return verr
	}
	return s.membershipRepo.Delete(ctx, userID, groupID)
}

// ListMembers lists a group's memberships.
func (s *MembershipService) ListMembers(ctx context.Context, actor *Actor, groupID uint, limit, offset int) ([]models.Membership, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	related := false
	if actor != nil {
		if m, err := s.membershipRepo.Get(ctx, actor.UserID, groupID); err == nil {
			related = m.Passing()
		}
	}
	if err := canReadEntity(actor, nil, group.Visibility, models.ModerationUnmoderated, models.PermissionModerateUsers, related); err != nil {
		return nil, err
	}
	return s.membershipRepo.ListByGroup(ctx, groupID, limit, offset)
}

// requireMembershipModerator allows a passing member holding
// moderate_users or admin within the group, or a server-level user
// moderator.
func (s *MembershipService) requireMembershipModerator(ctx context.Context, actor *Actor, groupID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Can(models.PermissionModerateUsers) {
		return nil
	}
	membership, err := s.membershipRepo.Get(ctx, actor.UserID, groupID)
	if err == nil && membership.Passing() && membership.Permissions.Has(models.PermissionModerateUsers) {
		return nil
	}
	return models.NewPermissionDeniedError("permission_denied")
}
