package model

import "fmt"

// Sentinel errors follow the teacher's convention: package-level
// `fmt.Errorf` values checked with `errors.Is`, one per validation
// failure mode named in the specification's error taxonomy (§7).

// ErrNotFound :
// Indicates that a lookup by typed id did not match any entity in the
// store.
var ErrNotFound = fmt.Errorf("No entity found for the requested identifier")

// ErrNotOwner :
// Indicates that a command references an entity not owned by the
// submitting house.
var ErrNotOwner = fmt.Errorf("Submitting house does not own the referenced entity")

// ErrInsufficientTreasury :
// Indicates that a house's treasury cannot cover the cost of a
// requested operation.
var ErrInsufficientTreasury = fmt.Errorf("Insufficient treasury to cover the requested cost")

// ErrInsufficientBudget :
// Indicates that a house's espionage budget (EBP/CIP) cannot cover the
// cost of a requested covert action.
var ErrInsufficientBudget = fmt.Errorf("Insufficient espionage budget to cover the requested action")

// ErrNoPath :
// Indicates that pathfinding could not find any traversable route for
// a fleet given its composition and the lane-class restrictions.
var ErrNoPath = fmt.Errorf("No traversable path found for the fleet")

// ErrWrongShipKind :
// Indicates that a command requires a ship kind the fleet does not
// carry (e.g. colonizing without a loaded ETAC).
var ErrWrongShipKind = fmt.Errorf("Fleet does not carry the required ship kind for this command")

// ErrCapacityViolation :
// Indicates that commissioning a new unit would exceed a standing
// capacity limit (fighter squadrons, capital squadrons, dock capacity).
var ErrCapacityViolation = fmt.Errorf("Requested commission would exceed the capacity limit")

// ErrInvalidROE :
// Indicates that a fleet command specifies an ROE value outside 0..10.
var ErrInvalidROE = fmt.Errorf("Invalid rules-of-engagement value")

// ErrSubmittedAfterDeadline :
// Indicates that a command packet arrived after the turn's command
// deadline elapsed.
var ErrSubmittedAfterDeadline = fmt.Errorf("Command packet submitted after the turn deadline")

// ErrInsufficientPool :
// Indicates that a research purchase cannot be covered by the
// accumulated ERP/SRP/TRP pool.
var ErrInsufficientPool = fmt.Errorf("Insufficient research pool to purchase the requested tech")

// ErrSLGated :
// Indicates that a research purchase requires an SL tier the house has
// not yet reached.
var ErrSLGated = fmt.Errorf("Requested tech is gated behind a higher space level")

// ErrIndexDesynchronized :
// Programmer error: a secondary index no longer agrees with the primary
// entity table. Fatal; aborts the turn.
var ErrIndexDesynchronized = fmt.Errorf("Entity store index desynchronized from primary table")

// ErrRNGReentry :
// Programmer error: a resolver attempted to draw randomness for an
// event tag that was already consumed this turn. Fatal.
var ErrRNGReentry = fmt.Errorf("Deterministic RNG stream re-entered for an already-consumed event tag")

// ValidationError :
// Structured error surfaced to the submitter of a rejected command, per
// spec.md §7. Carries a stable machine-readable `Code`, a human message
// and the ids of the entities the command referenced, so a client can
// highlight the offending references without re-parsing the message.
type ValidationError struct {
	Code       string
	Message    string
	EntityRefs []uint32
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %v", e.Code, e.Message, e.EntityRefs)
}

// NewValidationError builds a ValidationError wrapping one of the
// sentinel errors above, tagging it with the entities involved.
func NewValidationError(code string, cause error, refs ...uint32) *ValidationError {
	return &ValidationError{
		Code:       code,
		Message:    cause.Error(),
		EntityRefs: refs,
	}
}

// InvariantBreach :
// Marks a fatal, turn-aborting condition: index desynchronization, a
// missing required entity, or RNG re-entry. The engine recovers the
// panic at the top level (internal/engine), logs it and re-surfaces
// this typed error to the caller instead of crashing the process. No
// pre-phase state snapshot is persisted.
type InvariantBreach struct {
	Phase  string
	Entity uint32
	Cause  error
}

// Error implements the error interface.
func (e *InvariantBreach) Error() string {
	return fmt.Sprintf("invariant breach in phase %q (entity %d): %v", e.Phase, e.Entity, e.Cause)
}

// Unwrap allows errors.Is/As to see through to the wrapped cause.
func (e *InvariantBreach) Unwrap() error {
	return e.Cause
}
