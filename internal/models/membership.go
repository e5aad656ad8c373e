package models

import "time"

// Membership associates a user with a group. It carries two independent
// moderation states: GroupModeration is the group's side (did moderators
// let the user in) and UserModeration is the user's side (did the user
// accept an invite). A membership counts toward member_count/group_count
// only when both sides are passing.
type Membership struct {
	UserID  uint   `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GroupID uint   `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	Group   *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`

	Permissions     PermissionSet `gorm:"type:text;not null" json:"permissions"`
	GroupModeration Moderation    `gorm:"type:varchar(20);not null;default:'unmoderated'" json:"group_moderation"`
	UserModeration  Moderation    `gorm:"type:varchar(20);not null;default:'unmoderated'" json:"user_moderation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Membership) TableName() string {
	return "memberships"
}

// Passing reports whether the membership counts toward aggregates; both
// sides must be in a passing state.
func (m *Membership) Passing() bool {
	return m.GroupModeration.Passing() && m.UserModeration.Passing()
}
