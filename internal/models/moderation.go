package models

import "fmt"

// Moderation is the lifecycle state of a moderatable relationship.
type Moderation string

const (
	// ModerationUnknown is a sentinel and never valid at rest.
	ModerationUnknown Moderation = "unknown"
	// ModerationUnmoderated means auto-approved; counts immediately.
	ModerationUnmoderated Moderation = "unmoderated"
	// ModerationPending means awaiting a decision; does not count.
	ModerationPending Moderation = "pending"
	// ModerationApproved means a moderator or the affected party approved; counts.
	ModerationApproved Moderation = "approved"
	// ModerationRejected means declined; does not count.
	ModerationRejected Moderation = "rejected"
)

// PassingModerations are the states that count toward denormalized
// aggregates. Used directly in recount queries.
var PassingModerations = []Moderation{ModerationUnmoderated, ModerationApproved}

// ParseModeration converts raw input into a Moderation. Unrecognized
// values fail instead of being reinterpreted.
func ParseModeration(raw string) (Moderation, error) {
	switch Moderation(raw) {
	case ModerationUnknown, ModerationUnmoderated, ModerationPending,
		ModerationApproved, ModerationRejected:
		return Moderation(raw), nil
	default:
		return ModerationUnknown, fmt.Errorf("unrecognized moderation %q", raw)
	}
}

// Passing reports whether the state counts toward aggregates.
func (m Moderation) Passing() bool {
	return m == ModerationUnmoderated || m == ModerationApproved
}

// Open reports whether the state may still be used as a default or an
// undecided update value (unmoderated or pending).
func (m Moderation) Open() bool {
	return m == ModerationUnmoderated || m == ModerationPending
}

// Decided reports whether the state is a terminal moderation decision.
func (m Moderation) Decided() bool {
	return m == ModerationApproved || m == ModerationRejected
}
