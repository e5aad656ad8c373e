package models

import "time"

// Media is a reference to a blob stored in the object store. The core
// only persists and validates references; bytes live in the bucket under
// ObjectKey.
type Media struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ObjectKey   string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	ContentType string    `gorm:"size:128;not null" json:"content_type"`
	Size        int64     `gorm:"not null" json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Media) TableName() string {
	return "media"
}
