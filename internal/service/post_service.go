package service

import (
	"context"

	"arbor/internal/cache"
	"arbor/internal/models"
	"arbor/internal/observability"
	"arbor/internal/repository"
	"arbor/internal/validation"
)

// PostService provides post authoring, listing, and moderation.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// CreatePostInput is the payload for authoring a post or reply.
type CreatePostInput struct {
	Title        string
	Link         *string
	Content      *string
	ParentPostID *uint
	Context      string
	Visibility   string
}

// CreatePost authors a new post. Anonymous actors may never write.
func (s *PostService) CreatePost(ctx context.Context, actor *Actor, in CreatePostInput) (*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.Can(models.PermissionCreatePosts) {
		return nil, models.NewPermissionDeniedError("permission_denied")
	}

	postContext := models.PostContextPost
	if in.Context != "" {
		parsed, ok := models.ParsePostContext(in.Context)
		if !ok {
			return nil, models.NewValidationError("invalid_post_context")
		}
		postContext = parsed
	}
	if in.ParentPostID != nil && postContext == models.PostContextPost {
		postContext = models.PostContextReply
	}

	visibility := models.VisibilityServerPublic
	if in.Visibility != "" {
		parsed, err := models.ParseVisibility(in.Visibility)
		if err != nil {
			return nil, models.NewValidationError("invalid_visibility")
		}
		visibility = parsed
	}

	userID := actor.UserID
	post := &models.Post{
		UserID:       &userID,
		ParentPostID: in.ParentPostID,
		Title:        in.Title,
		Link:         in.Link,
		Content:      in.Content,
		Context:      postContext,
		Visibility:   visibility,
		Moderation:   models.ModerationUnmoderated,
	}
	if verr := validation.ValidatePost(post); verr != nil {
		return nil, verr
	}

	if post.ParentPostID != nil {
		if _, err := s.postRepo.GetByID(ctx, *post.ParentPostID); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.PostsListKey())
	return post, nil
}

// GetPost returns one post, subject to visibility and moderation state.
func (s *PostService) GetPost(ctx context.Context, actor *Actor, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canReadEntity(actor, post.UserID, post.Visibility, post.Moderation, models.PermissionModeratePosts, false); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPostsInput narrows a post listing.
type GetPostsInput struct {
	AuthorID     *uint
	ParentPostID *uint
	Limit        int
	Offset       int
}

// GetPosts lists posts the actor may see. Restricted posts are filtered
// from results, never surfaced as errors.
func (s *PostService) GetPosts(ctx context.Context, actor *Actor, in GetPostsInput) ([]*models.Post, error) {
	filter := repository.PostListFilter{
		Visibilities: readVisibilities(actor),
		AuthorID:     in.AuthorID,
		ParentPostID: in.ParentPostID,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
	if actor.Can(models.PermissionModeratePosts) {
		filter.Visibilities = nil
	}

	// The anonymous front page is the hottest read path; serve it
	// cache-aside.
	if actor == nil && in.AuthorID == nil && in.ParentPostID == nil && in.Offset == 0 {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.PostsListKey(), &posts, cache.ListTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, filter)
			return fetchErr
		})
		return posts, err
	}

	return s.postRepo.List(ctx, filter)
}

// UpdatePostInput is the payload for editing a post.
type UpdatePostInput struct {
	PostID  uint
	Title   *string
	Link    *string
	Content *string
}

// UpdatePost edits content. Only the author or a posts moderator may
// write.
func (s *PostService) UpdatePost(ctx context.Context, actor *Actor, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := canWriteEntity(actor, post.UserID, models.PermissionModeratePosts); err != nil {
		return nil, err
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Link != nil {
		post.Link = in.Link
	}
	if in.Content != nil {
		post.Content = in.Content
	}
	if verr := validation.ValidatePost(post); verr != nil {
		return nil, verr
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.PostsListKey())
	return post, nil
}

// DeletePost removes a post. Only the author or a posts moderator may
// delete.
func (s *PostService) DeletePost(ctx context.Context, actor *Actor, id uint) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := canWriteEntity(actor, post.UserID, models.PermissionModeratePosts); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostsListKey())
	return nil
}

// DecidePost transitions a post's moderation state. Only an actor with
// moderate_posts may decide, and the decision must be terminal.
func (s *PostService) DecidePost(ctx context.Context, actor *Actor, id uint, state models.Moderation) (*models.Post, error) {
	if err := canModerate(actor, models.PermissionModeratePosts); err != nil {
		return nil, err
	}
	if !state.Decided() {
		return nil, models.NewValidationError("invalid_moderation")
	}
	post, err := s.postRepo.UpdateModeration(ctx, id, state)
	if err != nil {
		return nil, err
	}
	observability.RecordModerationDecision("post", string(state))
	cache.Invalidate(ctx, cache.PostsListKey())
	return post, nil
}
