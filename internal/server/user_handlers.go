package server

import (
	"github.com/gofiber/fiber/v2"

	"arbor/internal/middleware"
	"arbor/internal/models"
	"arbor/internal/service"
)

// GetUser returns one user profile, subject to visibility.
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, serr := s.userService.GetUser(c.UserContext(), middleware.ActorFromContext(c), id)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(user)
}

// ListUsers lists user profiles the requester may browse.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	users, err := s.userService.ListUsers(c.UserContext(), middleware.ActorFromContext(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// UpdateUserRequest is the payload for profile updates. Absent fields
// are left unchanged.
type UpdateUserRequest struct {
	Bio                     *string                `json:"bio,omitempty"`
	AvatarMediaID           *uint                  `json:"avatar_media_id,omitempty"`
	Visibility              *string                `json:"visibility,omitempty"`
	DefaultFollowModeration *string                `json:"default_follow_moderation,omitempty"`
	Permissions             *models.PermissionSet  `json:"permissions,omitempty"`
}

// UpdateUser mutates a user profile.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	in := service.UpdateUserInput{
		UserID:      id,
		Bio:         req.Bio,
		AvatarMediaID: req.AvatarMediaID,
		Permissions: req.Permissions,
	}
	if req.Visibility != nil {
		parsed, perr := models.ParseVisibility(*req.Visibility)
		if perr != nil {
			return models.RespondWithError(c, models.NewValidationError("invalid_visibility"))
		}
		in.Visibility = &parsed
	}
	if req.DefaultFollowModeration != nil {
		parsed, perr := models.ParseModeration(*req.DefaultFollowModeration)
		if perr != nil {
			return models.RespondWithError(c, models.NewValidationError("invalid_default_follow_moderation"))
		}
		in.DefaultFollowModeration = &parsed
	}

	user, serr := s.userService.UpdateUser(c.UserContext(), middleware.ActorFromContext(c), in)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(user)
}
