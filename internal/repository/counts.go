package repository

import (
	"context"

	"arbor/internal/models"

	"gorm.io/gorm"
)

// The helpers below recompute denormalized counters from the live count
// of passing relationships. They run on the transaction handle of the
// mutation that changed the relationship, so the triggering write and
// the recount commit or roll back together.

// recountGroupPostCounts refreshes the owning group's post_count and the
// referenced post's group_count.
func recountGroupPostCounts(ctx context.Context, tx *gorm.DB, groupID, postID uint) error {
	var postCount int64
	if err := tx.WithContext(ctx).Model(&models.GroupPost{}).
		Where("group_id = ? AND group_moderation IN ?", groupID, models.PassingModerations).
		Count(&postCount).Error; err != nil {
		return models.NewInternalError("error_counting_group_posts", err)
	}
	if err := tx.WithContext(ctx).Model(&models.Group{}).
		Where("id = ?", groupID).
		Update("post_count", postCount).Error; err != nil {
		return models.NewInternalError("error_updating_group_post_count", err)
	}

	var groupCount int64
	if err := tx.WithContext(ctx).Model(&models.GroupPost{}).
		Where("post_id = ? AND group_moderation IN ?", postID, models.PassingModerations).
		Count(&groupCount).Error; err != nil {
		return models.NewInternalError("error_counting_post_groups", err)
	}
	if err := tx.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Update("group_count", groupCount).Error; err != nil {
		return models.NewInternalError("error_updating_post_group_count", err)
	}

	return nil
}

// recountMembershipCounts refreshes the group's member_count and the
// user's group_count. A membership passes only when both the group-side
// and the user-side moderation are passing.
func recountMembershipCounts(ctx context.Context, tx *gorm.DB, userID, groupID uint) error {
	var memberCount int64
	if err := tx.WithContext(ctx).Model(&models.Membership{}).
		Where("group_id = ? AND group_moderation IN ? AND user_moderation IN ?",
			groupID, models.PassingModerations, models.PassingModerations).
		Count(&memberCount).Error; err != nil {
		return models.NewInternalError("error_counting_group_members", err)
	}
	if err := tx.WithContext(ctx).Model(&models.Group{}).
		Where("id = ?", groupID).
		Update("member_count", memberCount).Error; err != nil {
		return models.NewInternalError("error_updating_group_member_count", err)
	}

	var groupCount int64
	if err := tx.WithContext(ctx).Model(&models.Membership{}).
		Where("user_id = ? AND group_moderation IN ? AND user_moderation IN ?",
			userID, models.PassingModerations, models.PassingModerations).
		Count(&groupCount).Error; err != nil {
		return models.NewInternalError("error_counting_user_groups", err)
	}
	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("group_count", groupCount).Error; err != nil {
		return models.NewInternalError("error_updating_user_group_count", err)
	}

	return nil
}

// recountFollowCounts refreshes the target's follower_count and the
// follower's following_count.
func recountFollowCounts(ctx context.Context, tx *gorm.DB, userID, targetUserID uint) error {
	var followerCount int64
	if err := tx.WithContext(ctx).Model(&models.Follow{}).
		Where("target_user_id = ? AND target_user_moderation IN ?", targetUserID, models.PassingModerations).
		Count(&followerCount).Error; err != nil {
		return models.NewInternalError("error_counting_followers", err)
	}
	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", targetUserID).
		Update("follower_count", followerCount).Error; err != nil {
		return models.NewInternalError("error_updating_follower_count", err)
	}

	var followingCount int64
	if err := tx.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND target_user_moderation IN ?", userID, models.PassingModerations).
		Count(&followingCount).Error; err != nil {
		return models.NewInternalError("error_counting_following", err)
	}
	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("following_count", followingCount).Error; err != nil {
		return models.NewInternalError("error_updating_following_count", err)
	}

	return nil
}

// recountUserPostCount refreshes the author's post_count from their
// passing, top-level posts.
func recountUserPostCount(ctx context.Context, tx *gorm.DB, userID uint) error {
	var postCount int64
	if err := tx.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ? AND context = ? AND moderation IN ?",
			userID, models.PostContextPost, models.PassingModerations).
		Count(&postCount).Error; err != nil {
		return models.NewInternalError("error_counting_user_posts", err)
	}
	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("post_count", postCount).Error; err != nil {
		return models.NewInternalError("error_updating_user_post_count", err)
	}
	return nil
}

// recountPostReplyCounts refreshes the parent post's reply_count and
// response_count after a reply changes.
func recountPostReplyCounts(ctx context.Context, tx *gorm.DB, parentPostID uint) error {
	var replyCount int64
	if err := tx.WithContext(ctx).Model(&models.Post{}).
		Where("parent_post_id = ? AND moderation IN ?", parentPostID, models.PassingModerations).
		Count(&replyCount).Error; err != nil {
		return models.NewInternalError("error_counting_replies", err)
	}
	if err := tx.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", parentPostID).
		Updates(map[string]interface{}{
			"reply_count":    replyCount,
			"response_count": replyCount,
		}).Error; err != nil {
		return models.NewInternalError("error_updating_reply_count", err)
	}
	return nil
}
