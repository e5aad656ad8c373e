package models

import (
	"time"

	"gorm.io/gorm"
)

// Group represents a community that contains members and curated posts.
//
// PostCount and MemberCount are denormalized: they always equal the
// number of group_posts / memberships rows in a passing moderation state
// referencing this group. The default moderation policies may only be
// unmoderated or pending; a group never declares approved/rejected as a
// default.
type Group struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	Shortname   string     `gorm:"size:128;not null;uniqueIndex" json:"shortname"`
	Description string     `gorm:"type:text" json:"description"`
	AvatarMediaID *uint    `json:"avatar_media_id,omitempty"`
	Visibility  Visibility `gorm:"type:varchar(20);not null;default:'server_public'" json:"visibility"`

	DefaultMembershipModeration Moderation    `gorm:"type:varchar(20);not null;default:'unmoderated'" json:"default_membership_moderation"`
	DefaultPostModeration       Moderation    `gorm:"type:varchar(20);not null;default:'unmoderated'" json:"default_post_moderation"`
	DefaultEventModeration      Moderation    `gorm:"type:varchar(20);not null;default:'unmoderated'" json:"default_event_moderation"`
	DefaultMembershipPermissions PermissionSet `gorm:"type:text;not null" json:"default_membership_permissions"`

	PostCount   int32 `gorm:"not null;default:0" json:"post_count"`
	MemberCount int32 `gorm:"not null;default:0" json:"member_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}
