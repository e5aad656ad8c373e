package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies an AppError into the error taxonomy.
type ErrorKind string

const (
	// KindNotFound means a referenced entity is absent.
	KindNotFound ErrorKind = "not_found"
	// KindInvalidArgument means the payload failed validation.
	KindInvalidArgument ErrorKind = "invalid_argument"
	// KindPermissionDenied means the authorization gate rejected the actor.
	KindPermissionDenied ErrorKind = "permission_denied"
	// KindUnauthenticated means the operation requires a valid actor.
	KindUnauthenticated ErrorKind = "unauthenticated"
	// KindInternal means a storage or consistency write failed.
	KindInternal ErrorKind = "internal"
)

// ErrorResponse is the standardized API error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError is a classified application error carrying a stable,
// machine-matchable code (e.g. "user_not_found", "blank_shortname").
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports an absent entity, e.g. "user_not_found".
func NewNotFoundError(code string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code}
}

// NewValidationError reports a payload that failed validation.
func NewValidationError(code string) *AppError {
	return &AppError{Kind: KindInvalidArgument, Code: code}
}

// NewPermissionDeniedError reports an authorization gate rejection.
func NewPermissionDeniedError(code string) *AppError {
	return &AppError{Kind: KindPermissionDenied, Code: code}
}

// NewUnauthenticatedError reports a missing or invalid actor.
func NewUnauthenticatedError(code string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Code: code}
}

// NewInternalError wraps a storage or consistency failure.
func NewInternalError(code string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: code, Message: "internal error", Err: err}
}

// HTTPStatus maps the error kind to an HTTP status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindInvalidArgument:
		return fiber.StatusBadRequest
	case KindPermissionDenied:
		return fiber.StatusForbidden
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes a standardized error response. Internal error
// causes are never leaked to the client.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if msg == "" {
			msg = appErr.Code
		}
		return c.Status(appErr.HTTPStatus()).JSON(ErrorResponse{
			Error: msg,
			Code:  appErr.Code,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: "internal error",
		Code:  "internal",
	})
}
