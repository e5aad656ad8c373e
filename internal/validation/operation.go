// Package validation provides pure, side-effect-free checks applied to
// entity payloads before they reach persistence or moderation logic.
// Each failure carries a distinct, stable error code so callers can
// render field-specific messages.
package validation

// OperationType is the kind of mutation a payload is validated for.
// Some rules only apply to certain operations: membership create/delete
// skip permission-subset checks, and follow updates require a resolved
// moderation decision.
type OperationType int

const (
	// OperationCreate validates a payload for insertion.
	OperationCreate OperationType = iota
	// OperationRead validates a lookup request.
	OperationRead
	// OperationUpdate validates a payload for mutation.
	OperationUpdate
	// OperationDelete validates a removal request.
	OperationDelete
)
