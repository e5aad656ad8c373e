package service

import (
	"context"
	"time"

	"arbor/internal/models"
	"arbor/internal/repository"
)

// Stub repositories for service tests. Each field defaults to a
// reasonable no-op so tests only wire the calls they care about.

type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, models.NewNotFoundError("user_not_found") },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, uint) (*models.Post, error)
	updateFn           func(context.Context, *models.Post) error
	updateModerationFn func(context.Context, uint, models.Moderation) (*models.Post, error)
	deleteFn           func(context.Context, uint) error
	listFn             func(context.Context, repository.PostListFilter) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) UpdateModeration(ctx context.Context, id uint, state models.Moderation) (*models.Post, error) {
	return s.updateModerationFn(ctx, id, state)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostListFilter) ([]*models.Post, error) {
	return s.listFn(ctx, filter)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		updateModerationFn: func(_ context.Context, id uint, state models.Moderation) (*models.Post, error) {
			return &models.Post{ID: id, Moderation: state}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listFn:   func(_ context.Context, _ repository.PostListFilter) ([]*models.Post, error) { return nil, nil },
	}
}

type groupRepoStub struct {
	createFn         func(context.Context, *models.Group) error
	getByIDFn        func(context.Context, uint) (*models.Group, error)
	getByShortnameFn func(context.Context, string) (*models.Group, error)
	updateFn         func(context.Context, *models.Group) error
	listFn           func(context.Context, []models.Visibility, int, int) ([]models.Group, error)
}

func (s *groupRepoStub) Create(ctx context.Context, group *models.Group) error {
	return s.createFn(ctx, group)
}
func (s *groupRepoStub) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	return s.getByIDFn(ctx, id)
}
func (s *groupRepoStub) GetByShortname(ctx context.Context, shortname string) (*models.Group, error) {
	return s.getByShortnameFn(ctx, shortname)
}
func (s *groupRepoStub) Update(ctx context.Context, group *models.Group) error {
	return s.updateFn(ctx, group)
}
func (s *groupRepoStub) List(ctx context.Context, visibilities []models.Visibility, limit, offset int) ([]models.Group, error) {
	return s.listFn(ctx, visibilities, limit, offset)
}

func noopGroupRepo() *groupRepoStub {
	return &groupRepoStub{
		createFn: func(_ context.Context, g *models.Group) error { g.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Group, error) {
			return &models.Group{
				ID:                          id,
				Name:                        "Group",
				Shortname:                   "group",
				Visibility:                  models.VisibilityServerPublic,
				DefaultMembershipModeration: models.ModerationUnmoderated,
				DefaultPostModeration:       models.ModerationUnmoderated,
				DefaultEventModeration:      models.ModerationUnmoderated,
				DefaultMembershipPermissions: models.PermissionSet{
					models.PermissionViewPosts,
					models.PermissionCreatePosts,
				},
			}, nil
		},
		getByShortnameFn: func(_ context.Context, _ string) (*models.Group, error) {
			return nil, models.NewNotFoundError("group_not_found")
		},
		updateFn: func(_ context.Context, _ *models.Group) error { return nil },
		listFn:   func(_ context.Context, _ []models.Visibility, _, _ int) ([]models.Group, error) { return nil, nil },
	}
}

type membershipRepoStub struct {
	createFn           func(context.Context, *models.Membership) error
	getFn              func(context.Context, uint, uint) (*models.Membership, error)
	updateFn           func(context.Context, *models.Membership) error
	updateModerationFn func(context.Context, uint, uint, repository.ModerationSide, models.Moderation) (*models.Membership, error)
	deleteFn           func(context.Context, uint, uint) error
	listByGroupFn      func(context.Context, uint, int, int) ([]models.Membership, error)
}

func (s *membershipRepoStub) Create(ctx context.Context, membership *models.Membership) error {
	return s.createFn(ctx, membership)
}
func (s *membershipRepoStub) Get(ctx context.Context, userID, groupID uint) (*models.Membership, error) {
	return s.getFn(ctx, userID, groupID)
}
func (s *membershipRepoStub) Update(ctx context.Context, membership *models.Membership) error {
	return s.updateFn(ctx, membership)
}
func (s *membershipRepoStub) UpdateModeration(ctx context.Context, userID, groupID uint, side repository.ModerationSide, state models.Moderation) (*models.Membership, error) {
	return s.updateModerationFn(ctx, userID, groupID, side, state)
}
func (s *membershipRepoStub) Delete(ctx context.Context, userID, groupID uint) error {
	return s.deleteFn(ctx, userID, groupID)
}
func (s *membershipRepoStub) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Membership, error) {
	return s.listByGroupFn(ctx, groupID, limit, offset)
}

func noopMembershipRepo() *membershipRepoStub {
	return &membershipRepoStub{
		createFn: func(_ context.Context, _ *models.Membership) error { return nil },
		getFn: func(_ context.Context, _, _ uint) (*models.Membership, error) {
			return nil, models.NewNotFoundError("membership_not_found")
		},
		updateFn: func(_ context.Context, _ *models.Membership) error { return nil },
		updateModerationFn: func(_ context.Context, userID, groupID uint, side repository.ModerationSide, state models.Moderation) (*models.Membership, error) {
			m := &models.Membership{UserID: userID, GroupID: groupID}
			if side == repository.GroupSide {
				m.GroupModeration = state
			} else {
				m.UserModeration = state
			}
			return m, nil
		},
		deleteFn:      func(_ context.Context, _, _ uint) error { return nil },
		listByGroupFn: func(_ context.Context, _ uint, _, _ int) ([]models.Membership, error) { return nil, nil },
	}
}

type followRepoStub struct {
	createFn           func(context.Context, *models.Follow) error
	getFn              func(context.Context, uint, uint) (*models.Follow, error)
	updateModerationFn func(context.Context, uint, uint, models.Moderation) (*models.Follow, error)
	deleteFn           func(context.Context, uint, uint) error
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) Get(ctx context.Context, userID, targetUserID uint) (*models.Follow, error) {
	return s.getFn(ctx, userID, targetUserID)
}
func (s *followRepoStub) UpdateModeration(ctx context.Context, userID, targetUserID uint, state models.Moderation) (*models.Follow, error) {
	return s.updateModerationFn(ctx, userID, targetUserID, state)
}
func (s *followRepoStub) Delete(ctx context.Context, userID, targetUserID uint) error {
	return s.deleteFn(ctx, userID, targetUserID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn: func(_ context.Context, _ *models.Follow) error { return nil },
		getFn: func(_ context.Context, _, _ uint) (*models.Follow, error) {
			return nil, models.NewNotFoundError("follow_not_found")
		},
		updateModerationFn: func(_ context.Context, userID, targetUserID uint, state models.Moderation) (*models.Follow, error) {
			return &models.Follow{UserID: userID, TargetUserID: targetUserID, TargetUserModeration: state}, nil
		},
		deleteFn: func(_ context.Context, _, _ uint) error { return nil },
	}
}

type groupPostRepoStub struct {
	createFn           func(context.Context, *models.GroupPost) error
	getFn              func(context.Context, uint, uint) (*models.GroupPost, error)
	updateModerationFn func(context.Context, uint, uint, models.Moderation) (*models.GroupPost, error)
	deleteFn           func(context.Context, uint, uint) error
	listByGroupFn      func(context.Context, uint, int, int) ([]models.GroupPost, error)
}

func (s *groupPostRepoStub) Create(ctx context.Context, groupPost *models.GroupPost) error {
	return s.createFn(ctx, groupPost)
}
func (s *groupPostRepoStub) Get(ctx context.Context, groupID, postID uint) (*models.GroupPost, error) {
	return s.getFn(ctx, groupID, postID)
}
func (s *groupPostRepoStub) UpdateModeration(ctx context.Context, groupID, postID uint, state models.Moderation) (*models.GroupPost, error) {
	return s.updateModerationFn(ctx, groupID, postID, state)
}
func (s *groupPostRepoStub) Delete(ctx context.Context, groupID, postID uint) error {
	return s.deleteFn(ctx, groupID, postID)
}
func (s *groupPostRepoStub) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.GroupPost, error) {
	return s.listByGroupFn(ctx, groupID, limit, offset)
}

func noopGroupPostRepo() *groupPostRepoStub {
	return &groupPostRepoStub{
		createFn: func(_ context.Context, _ *models.GroupPost) error { return nil },
		getFn: func(_ context.Context, _, _ uint) (*models.GroupPost, error) {
			return nil, models.NewNotFoundError("group_post_not_found")
		},
		updateModerationFn: func(_ context.Context, groupID, postID uint, state models.Moderation) (*models.GroupPost, error) {
			return &models.GroupPost{GroupID: groupID, PostID: postID, GroupModeration: state}, nil
		},
		deleteFn:      func(_ context.Context, _, _ uint) error { return nil },
		listByGroupFn: func(_ context.Context, _ uint, _, _ int) ([]models.GroupPost, error) { return nil, nil },
	}
}

type tokenRepoStub struct {
	createFn        func(context.Context, *models.RefreshToken) error
	getByTokenFn    func(context.Context, string) (*models.RefreshToken, error)
	deleteFn        func(context.Context, uint) error
	deleteExpiredFn func(context.Context, time.Time) error
}

func (s *tokenRepoStub) Create(ctx context.Context, token *models.RefreshToken) error {
	return s.createFn(ctx, token)
}
func (s *tokenRepoStub) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return s.getByTokenFn(ctx, token)
}
func (s *tokenRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *tokenRepoStub) DeleteExpired(ctx context.Context, now time.Time) error {
	return s.deleteExpiredFn(ctx, now)
}

func noopTokenRepo() *tokenRepoStub {
	return &tokenRepoStub{
		createFn: func(_ context.Context, t *models.RefreshToken) error { t.ID = 1; return nil },
		getByTokenFn: func(_ context.Context, _ string) (*models.RefreshToken, error) {
			return nil, models.NewUnauthenticatedError("invalid_refresh_token")
		},
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		deleteExpiredFn: func(_ context.Context, _ time.Time) error { return nil },
	}
}

type configRepoStub struct {
	getOrInitFn func(context.Context) (*models.ServerConfiguration, error)
	updateFn    func(context.Context, *models.ServerConfiguration) error
}

func (s *configRepoStub) GetOrInit(ctx context.Context) (*models.ServerConfiguration, error) {
	return s.getOrInitFn(ctx)
}
func (s *configRepoStub) Update(ctx context.Context, cfg *models.ServerConfiguration) error {
	return s.updateFn(ctx, cfg)
}

func noopConfigRepo() *configRepoStub {
	return &configRepoStub{
		getOrInitFn: func(_ context.Context) (*models.ServerConfiguration, error) {
			return models.DefaultServerConfiguration(), nil
		},
		updateFn: func(_ context.Context, _ *models.ServerConfiguration) error { return nil },
	}
}

type mediaRepoStub struct {
	createFn  func(context.Context, *models.Media) error
	getByIDFn func(context.Context, uint) (*models.Media, error)
	deleteFn  func(context.Context, uint) error
}

func (s *mediaRepoStub) Create(ctx context.Context, media *models.Media) error {
	return s.createFn(ctx, media)
}
func (s *mediaRepoStub) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	return s.getByIDFn(ctx, id)
}
func (s *mediaRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopMediaRepo() *mediaRepoStub {
	return &mediaRepoStub{
		createFn:  func(_ context.Context, m *models.Media) error { m.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Media, error) { return &models.Media{ID: id}, nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}
