package validation

import (
	"fmt"
	"regexp"

	"arbor/internal/models"
)

// nonWordRegex matches every character that may not appear in a derived
// shortname.
var nonWordRegex = regexp.MustCompile(`[^\w]`)

// DeriveShortname computes the URL-safe shortname persisted for a group:
// the declared shortname stripped of non-word characters, falling back
// to the sanitized display name when that yields nothing. Idempotent.
func DeriveShortname(group *models.Group) string {
	shortname := nonWordRegex.ReplaceAllString(group.Shortname, "")
	if shortname == "" {
		shortname = nonWordRegex.ReplaceAllString(group.Name, "")
	}
	return shortname
}

// ValidateGroup checks a group payload. The derived shortname must be
// non-empty; the caller persists the derived value, not the declared one.
func ValidateGroup(group *models.Group) *models.AppError {
	if err := ValidateLength(group.Name, "name", 1, 128); err != nil {
		return err
	}
	if err := ValidateMaxLength(group.Description, "description", 10000); err != nil {
		return err
	}
	if err := ValidateOptionalID(group.AvatarMediaID, "avatar_media_id"); err != nil {
		return err
	}
	if group.Visibility == models.VisibilityUnknown {
		return models.NewValidationError("invalid_visibility")
	}
	if perm := group.DefaultMembershipPermissions.FirstUnrecognized(); perm != "" {
		return models.NewValidationError(fmt.Sprintf("invalid_permission_%s", perm.Name()))
	}
	if !group.DefaultMembershipModeration.Open() {
		return models.NewValidationError("invalid_default_membership_moderation")
	}
	if !group.DefaultPostModeration.Open() {
		return models.NewValidationError("invalid_default_post_moderation")
	}
	if !group.DefaultEventModeration.Open() {
		return models.NewValidationError("invalid_default_event_moderation")
	}
	if DeriveShortname(group) == "" {
		return models.NewValidationError("blank_shortname")
	}
	return nil
}

// ValidateMembership checks a membership payload. Create and delete are
// always structurally allowed once the ids validate; joining or leaving
// never fails on permission-set content. Updates additionally require a
// valid permission subset and both moderation sides to remain open.
func ValidateMembership(membership *models.Membership, op OperationType) *models.AppError {
	if err := ValidateID(membership.UserID, "user_id"); err != nil {
		return err
	}
	if err := ValidateID(membership.GroupID, "group_id"); err != nil {
		return err
	}
	if op == OperationCreate || op == OperationDelete {
		return nil
	}
	if perm := membership.Permissions.FirstUnrecognized(); perm != "" {
		return models.NewValidationError(fmt.Sprintf("invalid_permission_%s", perm.Name()))
	}
	if !membership.GroupModeration.Open() {
		return models.NewValidationError("invalid_group_moderation")
	}
	if !membership.UserModeration.Open() {
		return models.NewValidationError("invalid_user_moderation")
	}
	return nil
}

// ValidateGroupPost checks a group-post payload; ids only, the
// moderation state is derived from the group's default post policy.
func ValidateGroupPost(groupPost *models.GroupPost) *models.AppError {
	if err := ValidateID(groupPost.GroupID, "group_id"); err != nil {
		return err
	}
	if err := ValidateID(groupPost.PostID, "post_id"); err != nil {
		return err
	}
	if err := ValidateID(groupPost.UserID, "user_id"); err != nil {
		return err
	}
	return nil
}
