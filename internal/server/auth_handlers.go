package server

import (
	"github.com/gofiber/fiber/v2"

	"arbor/internal/middleware"
	"arbor/internal/models"
	"arbor/internal/service"
)

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// Signup creates a new account and returns the user with a token pair.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.CreateAccount(c.UserContext(), service.CreateAccountInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// LoginRequest is the payload for username/password login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates by username and password.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}

// RefreshRequest is the payload for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a refresh token for a new access token.
func (s *Server) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	tokens, err := s.authService.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(tokens)
}

// Me returns the authenticated user's own record.
func (s *Server) Me(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	user, err := s.authService.GetCurrentUser(c.UserContext(), actor)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}
