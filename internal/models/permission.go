package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Permission is a capability tag granted to a user or a group membership.
type Permission string

const (
	// PermissionUnknown is a sentinel for unrecognized values.
	PermissionUnknown Permission = "unknown"
	// PermissionViewPosts allows reading posts.
	PermissionViewPosts Permission = "view_posts"
	// PermissionCreatePosts allows authoring posts.
	PermissionCreatePosts Permission = "create_posts"
	// PermissionModeratePosts allows deciding post moderation.
	PermissionModeratePosts Permission = "moderate_posts"
	// PermissionViewEvents allows reading events.
	PermissionViewEvents Permission = "view_events"
	// PermissionCreateEvents allows authoring events.
	PermissionCreateEvents Permission = "create_events"
	// PermissionModerateEvents allows deciding event moderation.
	PermissionModerateEvents Permission = "moderate_events"
	// PermissionModerateUsers allows deciding user-related moderation.
	PermissionModerateUsers Permission = "moderate_users"
	// PermissionAdmin grants every capability.
	PermissionAdmin Permission = "admin"
)

var recognizedPermissions = map[Permission]struct{}{
	PermissionViewPosts:      {},
	PermissionCreatePosts:    {},
	PermissionModeratePosts:  {},
	PermissionViewEvents:     {},
	PermissionCreateEvents:   {},
	PermissionModerateEvents: {},
	PermissionModerateUsers:  {},
	PermissionAdmin:          {},
}

// Recognized reports whether p is a known, non-sentinel permission.
func (p Permission) Recognized() bool {
	_, ok := recognizedPermissions[p]
	return ok
}

// Name returns the uppercase wire name of the permission, used when a
// validator reports a disallowed value.
func (p Permission) Name() string {
	return strings.ToUpper(string(p))
}

// PermissionSet is an unordered set of permissions, stored as a JSON
// array column.
type PermissionSet []Permission

// Has reports whether the set grants perm, directly or via admin.
func (s PermissionSet) Has(perm Permission) bool {
	for _, p := range s {
		if p == perm || p == PermissionAdmin {
			return true
		}
	}
	return false
}

// FirstUnrecognized returns the first member that is not part of the
// closed enumeration, or "" when the set is valid.
func (s PermissionSet) FirstUnrecognized() Permission {
	for _, p := range s {
		if !p.Recognized() {
			return p
		}
	}
	return ""
}

// Valid reports whether every member is a recognized, non-sentinel value.
func (s PermissionSet) Valid() bool {
	return s.FirstUnrecognized() == ""
}

// Value implements driver.Valuer so gorm persists the set as JSON.
func (s PermissionSet) Value() (driver.Value, error) {
	if s == nil {
		s = PermissionSet{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for reading the JSON column.
func (s *PermissionSet) Scan(value interface{}) error {
	if value == nil {
		*s = PermissionSet{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PermissionSet", value)
	}
	return json.Unmarshal(data, s)
}
