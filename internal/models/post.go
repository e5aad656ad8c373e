package models

import (
	"time"

	"gorm.io/gorm"
)

// PostContext distinguishes what kind of content a post row carries.
type PostContext string

const (
	// PostContextPost is a standalone top-level post.
	PostContextPost PostContext = "post"
	// PostContextReply is a reply to a parent post.
	PostContextReply PostContext = "reply"
	// PostContextEvent is the post backing an event.
	PostContextEvent PostContext = "event"
	// PostContextEventInstance is the post backing one occurrence of an event.
	PostContextEventInstance PostContext = "event_instance"
)

// ParsePostContext converts raw input into a PostContext, failing on
// unrecognized values.
func ParsePostContext(raw string) (PostContext, bool) {
	switch PostContext(raw) {
	case PostContextPost, PostContextReply, PostContextEvent, PostContextEventInstance:
		return PostContext(raw), true
	default:
		return "", false
	}
}

// Post represents a post, reply, or event body.
//
// GroupCount is denormalized: it always equals the number of group_posts
// rows in a passing moderation state referencing this post.
type Post struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       *uint       `gorm:"index" json:"user_id,omitempty"`
	User         *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ParentPostID *uint       `gorm:"index" json:"parent_post_id,omitempty"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Link         *string     `gorm:"size:2048" json:"link,omitempty"`
	Content      *string     `gorm:"type:text" json:"content,omitempty"`
	Context      PostContext `gorm:"type:varchar(20);not null;default:'post'" json:"context"`
	Visibility   Visibility  `gorm:"type:varchar(20);not null;default:'server_public'" json:"visibility"`
	Moderation   Moderation  `gorm:"type:varchar(20);not null;default:'unmoderated'" json:"moderation"`

	ResponseCount int32 `gorm:"not null;default:0" json:"response_count"`
	ReplyCount    int32 `gorm:"not null;default:0" json:"reply_count"`
	GroupCount    int32 `gorm:"not null;default:0" json:"group_count"`

	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}
