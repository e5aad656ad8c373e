package models

import "time"

// GroupPost associates a post with a group, proposed by a member and
// carrying its own moderation state. Every mutation of a GroupPost must
// recount the owning group's post_count and the referenced post's
// group_count within the same transaction.
type GroupPost struct {
	GroupID uint   `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	Group   *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	PostID  uint   `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	Post    *Post  `gorm:"foreignKey:PostID" json:"post,omitempty"`
	// UserID is the member who proposed the post to the group.
	UserID uint `gorm:"not null;index" json:"user_id"`

	GroupModeration Moderation `gorm:"type:varchar(20);not null;default:'unmoderated'" json:"group_moderation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (GroupPost) TableName() string {
	return "group_posts"
}
