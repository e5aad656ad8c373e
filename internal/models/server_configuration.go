package models

import "time"

// ServerConfiguration holds instance-wide defaults. Exactly one active
// row exists; it is created lazily on first read.
type ServerConfiguration struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ServerName  string `gorm:"size:128;not null;default:'Arbor'" json:"server_name"`
	Description string `gorm:"type:text" json:"description"`

	DefaultUserVisibility  Visibility    `gorm:"type:varchar(20);not null;default:'server_public'" json:"default_user_visibility"`
	DefaultUserPermissions PermissionSet `gorm:"type:text;not null" json:"default_user_permissions"`

	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ServerConfiguration) TableName() string {
	return "server_configurations"
}

// DefaultServerConfiguration is the row inserted when no active
// configuration exists yet.
func DefaultServerConfiguration() *ServerConfiguration {
	return &ServerConfiguration{
		ServerName:            "Arbor",
		DefaultUserVisibility: VisibilityServerPublic,
		DefaultUserPermissions: PermissionSet{
			PermissionViewPosts,
			PermissionCreatePosts,
			PermissionViewEvents,
			PermissionCreateEvents,
		},
		Active: true,
	}
}
