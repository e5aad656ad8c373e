package server

import (
	"github.com/gofiber/fiber/v2"

	"arbor/internal/middleware"
	"arbor/internal/models"
	"arbor/internal/service"
)

// CreateGroupRequest is the payload for creating a group.
type CreateGroupRequest struct {
	Name                         string               `json:"name"`
	Shortname                    string               `json:"shortname,omitempty"`
	Description                  string               `json:"description,omitempty"`
	Visibility                   string               `json:"visibility,omitempty"`
	DefaultMembershipModeration  string               `json:"default_membership_moderation,omitempty"`
	DefaultPostModeration        string               `json:"default_post_moderation,omitempty"`
	DefaultEventModeration       string               `json:"default_event_moderation,omitempty"`
	DefaultMembershipPermissions models.PermissionSet `json:"default_membership_permissions,omitempty"`
}

// CreateGroup creates a group with the requester as its first member.
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	group, err := s.groupService.CreateGroup(c.UserContext(), middleware.ActorFromContext(c), service.CreateGroupInput{
		Name:                         req.Name,
		Shortname:                    req.Shortname,
		Description:                  req.Description,
		Visibility:                   req.Visibility,
		DefaultMembershipModeration:  req.DefaultMembershipModeration,
		DefaultPostModeration:        req.DefaultPostModeration,
		DefaultEventModeration:       req.DefaultEventModeration,
		DefaultMembershipPermissions: req.DefaultMembershipPermissions,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetGroup returns one group, subject to its visibility.
func (s *Server) GetGroup(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	group, serr := s.groupService.GetGroup(c.UserContext(), middleware.ActorFromContext(c), id)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(group)
}

// ListGroups lists groups the requester may browse.
func (s *Server) ListGroups(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	groups, err := s.groupService.ListGroups(c.UserContext(), middleware.ActorFromContext(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

// UpdateGroupRequest is the payload for group updates. Absent fields
// are left unchanged.
type UpdateGroupRequest struct {
	Name                         *string               `json:"name,omitempty"`
	Description                  *string               `json:"description,omitempty"`
	Visibility                   *string               `json:"visibility,omitempty"`
	DefaultMembershipModeration  *string               `json:"default_membership_moderation,omitempty"`
	DefaultPostModeration        *string               `json:"default_post_moderation,omitempty"`
	DefaultEventModeration       *string               `json:"default_event_moderation,omitempty"`
	DefaultMembershipPermissions *models.PermissionSet `json:"default_membership_permissions,omitempty"`
}

// UpdateGroup mutates a group.
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req UpdateGroupRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	group, serr := s.groupService.UpdateGroup(c.UserContext(), middleware.ActorFromContext(c), service.UpdateGroupInput{
		GroupID:                      id,
		Name:                         req.Name,
		Description:                  req.Description,
		Visibility:                   req.Visibility,
		DefaultMembershipModeration:  req.DefaultMembershipModeration,
		DefaultPostModeration:        req.DefaultPostModeration,
		DefaultEventModeration:       req.DefaultEventModeration,
		DefaultMembershipPermissions: req.DefaultMembershipPermissions,
	})
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.JSON(group)
}
