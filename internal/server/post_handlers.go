package server

import (
	"github.com/gofiber/fiber/v2"

	"arbor/internal/middleware"
	"arbor/internal/models"
	"arbor/internal/service"
)

// CreatePostRequest is the payload for authoring a post or reply.
type CreatePostRequest struct {
	Title        string  `json:"title"`
	Link         *string `json:"link,omitempty"`
	Content      *string `json:"content,omitempty"`
	ParentPostID *uint   `json:"parent_post_id,omitempty"`
	Context      string  `json:"context,omitempty"`
	Visibility   string  `json:"visibility,omitempty"`
}

// CreatePost authors a new post.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), middleware.ActorFromContext(c), service.CreatePostInput{
		Title:        req.Title,
		Link:         req.Link,
		Content:      req.Content,
		ParentPostID: req.ParentPostID,
		Context:      req.Context,
		Visibility:   req.Visibility,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns one post.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, serr := s.postService.GetPost(c.UserContext(), middleware.ActorFromContext(c), id)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(post)
}

// GetPosts lists posts. author and parent query parameters narrow the
// listing to one author's posts or one post's replies.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	in := service.GetPostsInput{Limit: p.Limit, Offset: p.Offset}

	if author := c.QueryInt("author", 0); author > 0 {
		id := uint(author)
		in.AuthorID = &id
	}
	if parent := c.QueryInt("parent", 0); parent > 0 {
		id := uint(parent)
		in.ParentPostID = &id
	}

	posts, err := s.postService.GetPosts(c.UserContext(), middleware.ActorFromContext(c), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// UpdatePostRequest is the payload for editing a post. Absent fields
// are left unchanged.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Link    *string `json:"link,omitempty"`
	Content *string `json:"content,omitempty"`
}

// UpdatePost edits a post's content.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req UpdatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, serr := s.postService.UpdatePost(c.UserContext(), middleware.ActorFromContext(c), service.UpdatePostInput{
		PostID:  id,
		Title:   req.Title,
		Link:    req.Link,
		Content: req.Content,
	})
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(post)
}

// DeletePost removes a post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.postService.DeletePost(c.UserContext(), middleware.ActorFromContext(c), id); serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DecideRequest carries a terminal moderation decision.
type DecideRequest struct {
	Moderation string `json:"moderation"`
}

// DecidePost transitions a post's moderation state.
func (s *Server) DecidePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req DecideRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	state, perr := models.ParseModeration(req.Moderation)
	if perr != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid_moderation"))
	}

	post, serr := s.postService.DecidePost(c.UserContext(), middleware.ActorFromContext(c), id, state)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(post)
}
