// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account.
//
// The five counter columns are denormalized: each one always equals the
// number of relationships of that kind currently in a passing moderation
// state. They are recomputed transactionally whenever such a relationship
// changes.
type User struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Username     string        `gorm:"size:48;not null;uniqueIndex" json:"username"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Email        *string       `gorm:"size:255" json:"email,omitempty"`
	Phone        *string       `gorm:"size:32" json:"phone,omitempty"`
	Permissions  PermissionSet `gorm:"type:text;not null" json:"permissions"`
	AvatarMediaID *uint        `json:"avatar_media_id,omitempty"`
	Bio          string        `gorm:"type:text" json:"bio"`
	Visibility   Visibility    `gorm:"type:varchar(20);not null;default:'server_public'" json:"visibility"`
	// DefaultFollowModeration seeds the moderation state of new follows
	// targeting this user. Restricted to unmoderated or pending.
	DefaultFollowModeration Moderation `gorm:"type:varchar(20);not null;default:'unmoderated'" json:"default_follow_moderation"`

	FollowerCount  int32 `gorm:"not null;default:0" json:"follower_count"`
	FollowingCount int32 `gorm:"not null;default:0" json:"following_count"`
	GroupCount     int32 `gorm:"not null;default:0" json:"group_count"`
	PostCount      int32 `gorm:"not null;default:0" json:"post_count"`
	ResponseCount  int32 `gorm:"not null;default:0" json:"response_count"`
	EventCount     int32 `gorm:"not null;default:0" json:"event_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
