package server

import (
	"github.com/gofiber/fiber/v2"

	"arbor/internal/middleware"
	"arbor/internal/models"
)

// CreateFollow starts following the user in the route. The follow may
// land pending if the target gates their followers.
func (s *Server) CreateFollow(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	follow, serr := s.followService.CreateFollow(c.UserContext(), middleware.ActorFromContext(c), targetID)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// DeleteFollow unfollows the user in the route.
func (s *Server) DeleteFollow(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		return models.RespondWithError(c, models.NewUnauthenticatedError("authentication_required"))
	}
	if serr := s.followService.DeleteFollow(c.UserContext(), actor, actor.UserID, targetID); serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollow returns the requester's follow on the user in the route.
func (s *Server) GetFollow(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		return models.RespondWithError(c, models.NewUnauthenticatedError("authentication_required"))
	}
	follow, serr := s.followService.GetFollow(c.UserContext(), actor, actor.UserID, targetID)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(follow)
}

// DecideFollow resolves a pending follow request from followerId on the
// user in the route.
func (s *Server) DecideFollow(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	followerID, err := parseID(c, "followerId")
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

	follow, serr := s.followService.DecideFollow(c.UserContext(), middleware.ActorFromContext(c), followerID, targetID, state)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(follow)
}
