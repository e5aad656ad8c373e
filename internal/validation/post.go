package validation

import "arbor/internal/models"

// ValidatePost checks a post payload.
func ValidatePost(post *models.Post) *models.AppError {
	if err := ValidateLength(post.Title, "title", 1, 255); err != nil {
		return err
	}
	if post.Content != nil {
		if err := ValidateMaxLength(*post.Content, "content", 50000); err != nil {
			return err
		}
	}
	if post.Link != nil {
		if err := ValidateMaxLength(*post.Link, "link", 2048); err != nil {
			return err
		}
	}
	if err := ValidateOptionalID(post.UserID, "user_id"); err != nil {
		return err
	}
	if err := ValidateOptionalID(post.ParentPostID, "parent_post_id"); err != nil {
		return err
	}
	if post.Visibility == models.VisibilityUnknown {
		return models.NewValidationError("invalid_visibility")
	}
	if _, ok := models.ParsePostContext(string(post.Context)); !ok {
		return models.NewValidationError("invalid_post_context")
	}
	// Replies must reference a parent; top-level posts must not.
	if post.Context == models.PostContextReply && post.ParentPostID == nil {
		return models.NewValidationError("invalid_parent_post_id")
	}
	return nil
}
