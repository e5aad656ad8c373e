package validation

import (
	"fmt"

	"arbor/internal/models"
)

// ValidateUser checks a user payload. Validation short-circuits on the
// first failing field.
func ValidateUser(user *models.User) *models.AppError {
	if err := ValidateUsername(user.Username); err != nil {
		return err
	}
	if user.Email != nil {
		if err := ValidateEmail(*user.Email); err != nil {
			return err
		}
	}
	if user.Phone != nil {
		if err := ValidatePhone(*user.Phone); err != nil {
			return err
		}
	}
	if err := ValidateOptionalID(user.AvatarMediaID, "avatar_media_id"); err != nil {
		return err
	}
	if user.Visibility == models.VisibilityUnknown {
		return models.NewValidationError("invalid_visibility")
	}
	if !user.DefaultFollowModeration.Open() {
		return models.NewValidationError("invalid_default_follow_moderation")
	}
	// A user's own permission list must be fully resolved: unknown is
	// forbidden wherever it appears.
	for _, perm := range user.Permissions {
		if !perm.Recognized() {
			return models.NewValidationError(fmt.Sprintf("invalid_permission_%s", perm.Name()))
		}
	}
	return nil
}

// ValidateFollow checks a follow payload. Self-follows are rejected
// unconditionally. On update the target's moderation must be a resolved
// decision (approved or rejected), never an open state: follow approval
// is terminal, unlike membership moderation.
func ValidateFollow(follow *models.Follow, op OperationType) *models.AppError {
	if err := ValidateID(follow.UserID, "user_id"); err != nil {
		return err
	}
	if err := ValidateID(follow.TargetUserID, "target_user_id"); err != nil {
		return err
	}
	if follow.UserID == follow.TargetUserID {
		return models.NewValidationError("user_cannot_follow_themselves")
	}
	if op == OperationUpdate && !follow.TargetUserModeration.Decided() {
		return models.NewValidationError("invalid_target_user_moderation")
	}
	return nil
}
