package models

import "time"

// Follow records that UserID follows TargetUserID. TargetUserModeration
// is owned by the target: a follow counts toward follower/following
// counts only while it is passing. A user can never follow themselves.
type Follow struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	UserID       uint  `gorm:"not null;uniqueIndex:idx_follow_pair" json:"user_id"`
	User         *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TargetUserID uint  `gorm:"not null;uniqueIndex:idx_follow_pair" json:"target_user_id"`
	TargetUser   *User `gorm:"foreignKey:TargetUserID" json:"target_user,omitempty"`

	TargetUserModeration Moderation `gorm:"type:varchar(20);not null;default:'unmoderated'" json:"target_user_moderation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
