package service

import "arbor/internal/models"

// The authorization gate. Every decision distinguishes "the entity does
// not exist" (reported by the repositories as not_found) from "it exists
// but you may not touch it" (permission_denied); the two are never
// conflated here.

// requireActor rejects anonymous requests for operations that need an
// identity.
func requireActor(actor *Actor) *models.AppError {
	if actor == nil {
		return models.NewUnauthenticatedError("authentication_required")
	}
	return nil
}

// canReadEntity decides whether actor may read an entity with the given
// owner, visibility, and moderation state. related reports whether the
// actor holds an approved relationship to the owner (follow or
// membership), which unlocks limited visibility.
func canReadEntity(actor *Actor, ownerID *uint, visibility models.Visibility, moderation models.Moderation, moderatePerm models.Permission, related bool) *models.AppError {
	if ownerID != nil && actor.Is(*ownerID) {
		return nil
	}
	if actor.Can(moderatePerm) {
		return nil
	}
	// Non-owners and non-moderators only ever see passing content.
	if !moderation.Passing() {
		return models.NewPermissionDeniedError("permission_denied")
	}
	switch {
	case visibility.PublicRead():
		return nil
	case visibility.AuthenticatedRead() && actor != nil:
		return nil
	case visibility == models.VisibilityLimited && related:
		return nil
	default:
		return models.NewPermissionDeniedError("permission_denied")
	}
}

// canWriteEntity decides whether actor may mutate an entity owned by
// ownerID. Anonymous actors may never write.
func canWriteEntity(actor *Actor, ownerID *uint, moderatePerm models.Permission) *models.AppError {
	if err := requireActor(actor); err != nil {
		return err
	}
	if ownerID != nil && actor.Is(*ownerID) {
		return nil
	}
	if actor.Can(moderatePerm) {
		return nil
	}
	return models.NewPermissionDeniedError("permission_denied")
}

// canModerate decides whether actor may transition moderation state on
// entities they do not own.
func canModerate(actor *Actor, moderatePerm models.Permission) *models.AppError {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Can(moderatePerm) {
		return nil
	}
	return models.NewPermissionDeniedError("permission_denied")
}

// readVisibilities returns the visibility levels the actor may list.
// Listing filters instead of erroring, so a stranger browsing the feed
// simply never sees restricted entities.
func readVisibilities(actor *Actor) []models.Visibility {
	if actor == nil {
		return []models.Visibility{models.VisibilityGlobalPublic}
	}
	return []models.Visibility{models.VisibilityGlobalPublic, models.VisibilityServerPublic}
}
