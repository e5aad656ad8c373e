package server

import (
	"github.com/gofiber/fiber/v2"

	"arbor/internal/middleware"
	"arbor/internal/models"
	"arbor/internal/repository"
	"arbor/internal/service"
)

// CreateMembershipRequest is the payload for joining a group or
// inviting another user. user_id defaults to the requester.
type CreateMembershipRequest struct {
	UserID uint `json:"user_id,omitempty"`
}

// CreateMembership joins the requester (or an invited user) to a group.
func (s *Server) CreateMembership(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req CreateMembershipRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	actor := middleware.ActorFromContext(c)
	userID := req.UserID
	if userID == 0 && actor != nil {
		userID = actor.UserID
	}

	membership, serr := s.membershipService.CreateMembership(c.UserContext(), actor, userID, groupID)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.Status(fiber.StatusCreated).JSON(membership)
}

// UpdateMembershipRequest is the payload for changing a member's
// permission set within the group.
type UpdateMembershipRequest struct {
	Permissions models.PermissionSet `json:"permissions"`
}

// UpdateMembership changes a membership's permissions.
func (s *Server) UpdateMembership(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	var req UpdateMembershipRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	membership, serr := s.membershipService.UpdateMembership(c.UserContext(), middleware.ActorFromContext(c), service.UpdateMembershipInput{
		UserID:      userID,
		GroupID:     groupID,
		Permissions: req.Permissions,
	})
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(membership)
}

// DecideMembershipRequest carries a terminal decision for one side of a
// membership. side is "group_moderation" or "user_moderation".
type DecideMembershipRequest struct {
	Side       string `json:"side"`
	Moderation string `json:"moderation"`
}

// DecideMembership records a moderation decision on a membership.
func (s *Server) DecideMembership(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	var req DecideMembershipRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	side := repository.ModerationSide(req.Side)
	state, perr := models.ParseModeration(req.Moderation)
	if perr != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid_moderation"))
	}

	membership, serr := s.membershipService.DecideMembership(c.UserContext(), middleware.ActorFromContext(c), userID, groupID, side, state)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(membership)
}

// DeleteMembership leaves or removes a user from a group.
func (s *Server) DeleteMembership(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	if serr := s.membershipService.DeleteMembership(c.UserContext(), middleware.ActorFromContext(c), userID, groupID); serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMembers lists a group's memberships.
func (s *Server) ListMembers(c *fiber.Ctx) error {
	groupID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)
	members, serr := s.membershipService.ListMembers(c.UserContext(), middleware.ActorFromContext(c), groupID, p.Limit, p.Offset)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(fiber.Map{"members": members})
}
