package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbor/internal/models"
	"arbor/internal/repository"
)

func writer() *Actor {
	return &Actor{UserID: 1, Permissions: models.PermissionSet{models.PermissionViewPosts, models.PermissionCreatePosts}}
}

func moderator() *Actor {
	return &Actor{UserID: 99, Permissions: models.PermissionSet{models.PermissionModeratePosts, models.PermissionModerateUsers}}
}

func TestCreatePostAnonymousRejected(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopUserRepo())
	_, err := svc.CreatePost(context.Background(), nil, CreatePostInput{Title: "hi"})
	require.Error(t, err)
	assert.Equal(t, "authentication_required", appErrCode(t, err))
}

func TestCreatePostRequiresPermission(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopUserRepo())
	actor := &Actor{UserID: 1, Permissions: models.PermissionSet{models.PermissionViewPosts}}
	_, err := svc.CreatePost(context.Background(), actor, CreatePostInput{Title: "hi"})
	require.Error(t, err)
	assert.Equal(t, "permission_denied", appErrCode(t, err))
}

func TestCreatePostDefaults(t *testing.T) {
	posts := noopPostRepo()
	var created *models.Post
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 5
		created = p
		return nil
	}
	svc := NewPostService(posts, noopUserRepo())

	_, err := svc.CreatePost(context.Background(), writer(), CreatePostInput{Title: "first post"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.PostContextPost, created.Context)
	assert.Equal(t, models.VisibilityServerPublic, created.Visibility)
	assert.Equal(t, models.ModerationUnmoderated, created.Moderation)
	require.NotNil(t, created.UserID)
	assert.Equal(t, uint(1), *created.UserID)
}

func TestCreatePostReplyDerivesContext(t *testing.T) {
	posts := noopPostRepo()
	var created *models.Post
	posts.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}
	svc := NewPostService(posts, noopUserRepo())

	parentID := uint(42)
	_, err := svc.CreatePost(context.Background(), writer(), CreatePostInput{Title: "re", ParentPostID: &parentID})
	require.NoError(t, err)
	assert.Equal(t, models.PostContextReply, created.Context)
}

func TestCreatePostMissingParent(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("post_not_found")
	}
	svc := NewPostService(posts, noopUserRepo())

	parentID := uint(404)
	_, err := svc.CreatePost(context.Background(), writer(), CreatePostInput{Title: "re", ParentPostID: &parentID})
	require.Error(t, err)
	assert.Equal(t, "post_not_found", appErrCode(t, err))
}

func TestGetPostVisibility(t *testing.T) {
	authorID := uint(8)
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{
			ID:         id,
			UserID:     &authorID,
			Title:      "mine",
			Visibility: models.VisibilityPrivate,
			Moderation: models.ModerationUnmoderated,
		}, nil
	}
	svc := NewPostService(posts, noopUserRepo())

	// Strangers are denied, not told the post is absent.
	_, err := svc.GetPost(context.Background(), writer(), 1)
	require.Error(t, err)
	assert.Equal(t, "permission_denied", appErrCode(t, err))

	// The owner reads their own private post.
	owner := &Actor{UserID: authorID}
	_, err = svc.GetPost(context.Background(), owner, 1)
	assert.NoError(t, err)

	// Moderators read anything.
	_, err = svc.GetPost(context.Background(), moderator(), 1)
	assert.NoError(t, err)
}

func TestGetPostNonPassingHidden(t *testing.T) {
	authorID := uint(8)
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{
			ID:         id,
			UserID:     &authorID,
			Visibility: models.VisibilityGlobalPublic,
			Moderation: models.ModerationPending,
		}, nil
	}
	svc := NewPostService(posts, noopUserRepo())

	// Even a globally public post is hidden while pending.
	_, err := svc.GetPost(context.Background(), nil, 1)
	require.Error(t, err)
	assert.Equal(t, "permission_denied", appErrCode(t, err))

	// The author still sees it.
	_, err = svc.GetPost(context.Background(), &Actor{UserID: authorID}, 1)
	assert.NoError(t, err)
}

func TestGetPostsVisibilityFilter(t *testing.T) {
	posts := noopPostRepo()
	var gotFilter repository.PostListFilter
	posts.listFn = func(_ context.Context, f repository.PostListFilter) ([]*models.Post, error) {
		gotFilter = f
		return nil, nil
	}
	svc := NewPostService(posts, noopUserRepo())

	_, err := svc.GetPosts(context.Background(), nil, GetPostsInput{Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []models.Visibility{models.VisibilityGlobalPublic}, gotFilter.Visibilities)

	_, err = svc.GetPosts(context.Background(), writer(), GetPostsInput{})
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]models.Visibility{models.VisibilityGlobalPublic, models.VisibilityServerPublic},
		gotFilter.Visibilities)

	_, err = svc.GetPosts(context.Background(), moderator(), GetPostsInput{})
	require.NoError(t, err)
	assert.Nil(t, gotFilter.Visibilities, "moderators see every visibility")
}

func TestDecidePost(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopUserRepo())

	_, err := svc.DecidePost(context.Background(), writer(), 1, models.ModerationApproved)
	require.Error(t, err)
	assert.Equal(t, "permission_denied", appErrCode(t, err))

	_, err = svc.DecidePost(context.Background(), moderator(), 1, models.ModerationPending)
	require.Error(t, err)
	assert.Equal(t, "invalid_moderation", appErrCode(t, err))

	post, err := svc.DecidePost(context.Background(), moderator(), 1, models.ModerationRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationRejected, post.Moderation)
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	authorID := uint(4)
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{
			ID:         id,
			UserID:     &authorID,
			Title:      "before",
			Context:    models.PostContextPost,
			Visibility: models.VisibilityServerPublic,
		}, nil
	}
	svc := NewPostService(posts, noopUserRepo())

	title := "after"
	_, err := svc.UpdatePost(context.Background(), writer(), UpdatePostInput{PostID: 1, Title: &title})
	require.Error(t, err)
	assert.Equal(t, "permission_denied", appErrCode(t, err))

	updated, err := svc.UpdatePost(context.Background(), &Actor{UserID: authorID}, UpdatePostInput{PostID: 1, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
}
