package models

import "fmt"

// Visibility controls who may read an entity.
type Visibility string

const (
	// VisibilityUnknown is a sentinel and never validates for a real entity.
	VisibilityUnknown Visibility = "unknown"
	// VisibilityPrivate is visible to the owner and moderators only.
	VisibilityPrivate Visibility = "private"
	// VisibilityLimited is visible to approved followers and members.
	VisibilityLimited Visibility = "limited"
	// VisibilityServerPublic is visible to any authenticated user.
	VisibilityServerPublic Visibility = "server_public"
	// VisibilityGlobalPublic is visible to anyone, including anonymous readers.
	VisibilityGlobalPublic Visibility = "global_public"
)

// ParseVisibility converts raw input into a Visibility, failing on
// unrecognized values.
func ParseVisibility(raw string) (Visibility, error) {
	switch Visibility(raw) {
	case VisibilityUnknown, VisibilityPrivate, VisibilityLimited,
		VisibilityServerPublic, VisibilityGlobalPublic:
		return Visibility(raw), nil
	default:
		return VisibilityUnknown, fmt.Errorf("unrecognized visibility %q", raw)
	}
}

// PublicRead reports whether anonymous readers may see the entity.
func (v Visibility) PublicRead() bool {
	return v == VisibilityGlobalPublic
}

// AuthenticatedRead reports whether any signed-in user may see the entity.
func (v Visibility) AuthenticatedRead() bool {
	return v == VisibilityServerPublic || v == VisibilityGlobalPublic
}
