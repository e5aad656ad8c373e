package service

import (
	"context"

	"arbor/internal/models"
	"arbor/internal/observability"
	"arbor/internal/repository"
	"arbor/internal/validation"
)

// GroupPostService manages the cross-posting of posts into groups.
type GroupPostService struct {
	groupPostRepo  repository.GroupPostRepository
	groupRepo      repository.GroupRepository
	postRepo       repository.PostRepository
	membershipRepo repository.MembershipRepository
}

// NewGroupPostService returns a new GroupPostService.
func NewGroupPostService(
	groupPostRepo repository.GroupPostRepository,
	groupRepo repository.GroupRepository,
	postRepo repository.PostRepository,
	membershipRepo repository.MembershipRepository,
) *GroupPostService {
	return &GroupPostService{
		groupPostRepo:  groupPostRepo,
		groupRepo:      groupRepo,
		postRepo:       postRepo,
		membershipRepo: membershipRepo,
	}
}

// CreateGroupPost shares a post into a group. The proposer must be a
// passing member holding create_posts within the group. Proposals from
// moderators land unmoderated; everyone else's start at the group's
// default post policy, so a curated group queues them as pending.
func (s *GroupPostService) CreateGroupPost(ctx context.Context, actor *Actor, groupID, postID uint) (*models.GroupPost, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	membership, err := s.membershipRepo.Get(ctx, actor.UserID, groupID)
	canPropose := err == nil && membership.Passing() && membership.Permissions.Has(models.PermissionCreatePosts)
	if !canPropose && !actor.Can(models.PermissionModeratePosts) {
		return nil, models.NewPermissionDeniedError("permission_denied")
	}

	moderation := group.DefaultPostModeration
	if s.isGroupPostModerator(actor, membership, err == nil) {
		moderation = models.ModerationUnmoderated
	}

	groupPost := &models.GroupPost{
		GroupID:         groupID,
		PostID:          postID,
		UserID:          actor.UserID,
		GroupModeration: moderation,
	}
	if verr := validation.ValidateGroupPost(groupPost); verr != nil {
		return nil, verr
	}

	if existing, err := s.groupPostRepo.Get(ctx, groupID, postID); err == nil && existing != nil {
		return nil, models.NewValidationError("group_post_already_exists")
	}

	if err := s.groupPostRepo.Create(ctx, groupPost); err != nil {
		return nil, err
	}
	return groupPost, nil
}

// DecideGroupPost transitions a group post's moderation state. Deciding
// requires moderate_posts, held either server-wide or within the group,
// and the decision must be terminal.
func (s *GroupPostService) DecideGroupPost(ctx context.Context, actor *Actor, groupID, postID uint, state models.Moderation) (*models.GroupPost, error) {
	if err := s.requirePostModerator(ctx, actor, groupID); err != nil {
		return nil, err
	}
	if !state.Decided() {
		return nil, models.NewValidationError("invalid_moderation")
	}
	groupPost, err := s.groupPostRepo.UpdateModeration(ctx, groupID, postID, state)
	if err != nil {
		return nil, err
	}
	observability.RecordModerationDecision("group_post", string(state))
	return groupPost, nil
}

// DeleteGroupPost withdraws a post from a group. The proposer may
// withdraw their own share; anyone else needs moderation standing.
func (s *GroupPostService) DeleteGroupPost(ctx context.Context, actor *Actor, groupID, postID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	groupPost, err := s.groupPostRepo.Get(ctx, groupID, postID)
	if err != nil {
		return err
	}
	if !actor.Is(groupPost.UserID) {
		if err := s.requirePostModerator(ctx, actor, groupID); err != nil {
			return err
		}
	}
	return s.groupPostRepo.Delete(ctx, groupID, postID)
}

// ListGroupPosts lists the passing posts shared into a group, subject to
// the group's own visibility.
func (s *GroupPostService) ListGroupPosts(ctx context.Context, actor *Actor, groupID uint, limit, offset int) ([]models.GroupPost, error) {
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
	if err := canReadEntity(actor, nil, group.Visibility, models.ModerationUnmoderated, models.PermissionModeratePosts, related); err != nil {
		return nil, err
	}
	return s.groupPostRepo.ListByGroup(ctx, groupID, limit, offset)
}

// requirePostModerator allows a passing member holding moderate_posts or
// admin within the group, or a server-level posts moderator.
func (s *GroupPostService) requirePostModerator(ctx context.Context, actor *Actor, groupID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Can(models.PermissionModeratePosts) {
		return nil
	}
	membership, err := s.membershipRepo.Get(ctx, actor.UserID, groupID)
	if err == nil && membership.Passing() && membership.Permissions.Has(models.PermissionModeratePosts) {
		return nil
	}
	return models.NewPermissionDeniedError("permission_denied")
}

func (s *GroupPostService) isGroupPostModerator(actor *Actor, membership *models.Membership, hasMembership bool) bool {
	if actor.Can(models.PermissionModeratePosts) {
		return true
	}
	return hasMembership && membership.Passing() && membership.Permissions.Has(models.PermissionModeratePosts)
}
