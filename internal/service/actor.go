// Package service implements the application's business logic on top of
// the repository layer: authorization, validation, moderation
// transitions, and the consistency rules that keep denormalized
// counters in sync.
package service

import "arbor/internal/models"

// Actor is the authenticated identity performing an operation. A nil
// *Actor means the request is anonymous.
type Actor struct {
	UserID      uint
	Permissions models.PermissionSet
}

// Is reports whether the actor is the user with the given id.
func (a *Actor) Is(userID uint) bool {
	return a != nil && a.UserID == userID
}

// Can reports whether the actor holds perm (directly or via admin).
func (a *Actor) Can(perm models.Permission) bool {
	return a != nil && a.Permissions.Has(perm)
}

// ActorFromUser builds the request actor from a loaded user record.
func ActorFromUser(user *models.User) *Actor {
	return &Actor{UserID: user.ID, Permissions: user.Permissions}
}
