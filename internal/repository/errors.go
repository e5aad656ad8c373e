package repository

import (
	"errors"

	"arbor/internal/models"
)

// asAppError passes AppErrors through unchanged and wraps anything else
// (driver failures, transaction aborts) as an internal error with the
// given code.
func asAppError(err error, code string) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(code, err)
}
