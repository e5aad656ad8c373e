package validation

import (
	"fmt"
	"regexp"

	"arbor/internal/models"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{2,47}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9][0-9 .-]{6,19}$`)
)

// ValidateUsername checks username format and length bounds.
func ValidateUsername(username string) *models.AppError {
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("invalid_username")
	}
	return nil
}

// ValidateEmail checks structural email validity.
func ValidateEmail(email string) *models.AppError {
	if !emailRegex.MatchString(email) {
		return models.NewValidationError("invalid_email")
	}
	return nil
}

// ValidatePhone checks structural phone validity.
func ValidatePhone(phone string) *models.AppError {
	if !phoneRegex.MatchString(phone) {
		return models.NewValidationError("invalid_phone")
	}
	return nil
}

// ValidateLength enforces named min/max rune bounds for a field. The
// error code embeds the field name, e.g. "invalid_name".
func ValidateLength(value, field string, min, max int) *models.AppError {
	n := len([]rune(value))
	if n < min || n > max {
		return models.NewValidationError(fmt.Sprintf("invalid_%s", field))
	}
	return nil
}

// ValidateMaxLength enforces a maximum rune length for a field.
func ValidateMaxLength(value, field string, max int) *models.AppError {
	return ValidateLength(value, field, 0, max)
}

// ValidateID requires a positive database identifier. The error code
// embeds the field name, e.g. "invalid_user_id".
func ValidateID(id uint, field string) *models.AppError {
	if id == 0 {
		return models.NewValidationError(fmt.Sprintf("invalid_%s", field))
	}
	return nil
}

// ValidateOptionalID requires an absent reference or a positive one.
func ValidateOptionalID(id *uint, field string) *models.AppError {
	if id == nil {
		return nil
	}
	return ValidateID(*id, field)
}
