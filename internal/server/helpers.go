package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"arbor/internal/models"
)

// errResponseWritten signals the HTTP response was already committed by
// a helper. Handlers must return nil after seeing it.
var errResponseWritten = errors.New("response already written")

const maxPaginationLimit = 100

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination extracts limit and offset query parameters with the
// given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter as a positive uint. On failure it
// writes a 400 response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError("invalid_"+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON request body. On failure it writes a 400
// response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, models.NewValidationError("invalid_request_body"))
		return errResponseWritten
	}
	return nil
}
