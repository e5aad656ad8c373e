package server

import (
	"github.com/gofiber/fiber/v2"

	"arbor/internal/middleware"
	"arbor/internal/models"
)

// CreateGroupPost shares a post into a group.
func (s *Server) CreateGroupPost(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	groupPost, serr := s.groupPostService.CreateGroupPost(c.UserContext(), middleware.ActorFromContext(c), groupID, postID)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.Status(fiber.StatusCreated).JSON(groupPost)
}

// DecideGroupPost transitions a group post's moderation state.
func (s *Server) DecideGroupPost(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
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

	groupPost, serr := s.groupPostService.DecideGroupPost(c.UserContext(), middleware.ActorFromContext(c), groupID, postID, state)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(groupPost)
}

// DeleteGroupPost withdraws a post from a group.
func (s *Server) DeleteGroupPost(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	if serr := s.groupPostService.DeleteGroupPost(c.UserContext(), middleware.ActorFromContext(c), groupID, postID); serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListGroupPosts lists the posts shared into a group.
func (s *Server) ListGroupPosts(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)
	groupPosts, serr := s.groupPostService.ListGroupPosts(c.UserContext(), middleware.ActorFromContext(c), groupID, p.Limit, p.Offset)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(fiber.Map{"group_posts": groupPosts})
}
