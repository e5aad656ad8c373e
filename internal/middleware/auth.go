// Package middleware provides authentication, rate limiting, and request
// logging middleware for the HTTP layer.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"arbor/internal/models"
	"arbor/internal/service"
)

// actorKey is the Fiber locals key carrying the resolved actor.
const actorKey = "actor"

// AuthRequired enforces a valid bearer token. The resolved actor is
// stored in locals for the handlers.
func AuthRequired(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return models.RespondWithError(c, models.NewUnauthenticatedError("authentication_required"))
		}
		actor, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return models.RespondWithError(c, err)
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// AuthOptional resolves a bearer token when present but lets anonymous
// requests through. Read endpoints use this so visibility filtering can
// distinguish logged-in from anonymous browsing.
func AuthOptional(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}
		actor, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			// A presented-but-bad token is rejected, not downgraded.
			return models.RespondWithError(c, err)
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// ActorFromContext returns the actor resolved by the auth middleware, or
// nil for anonymous requests.
func ActorFromContext(c *fiber.Ctx) *service.Actor {
	if actor, ok := c.Locals(actorKey).(*service.Actor); ok {
		return actor
	}
	return nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
