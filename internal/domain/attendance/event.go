package attendance

import (
	"context"
	"time"
)

// TransitionKind identifies a state-machine transition.
type TransitionKind string

const (
	TransitionCheckedIn    TransitionKind = "checked_in"
	TransitionCheckedOut   TransitionKind = "checked_out"
	TransitionMarkedAbsent TransitionKind = "marked_absent"
	TransitionCorrected    TransitionKind = "corrected"
)

// Transition is the unit of change emitted after a committed state change.
// ID is unique per transition and doubles as the dispatcher's idempotency key:
// replaying the same transition must not create duplicate side effects.
// Transitions for one employee are totally ordered by the state machine.
type Transition struct {
	ID         string
	Kind       TransitionKind
	EmployeeID string
	Date       time.Time
	Record     Record
	Verdict    Verdict
	OccurredAt time.Time
}

// TransitionSink consumes committed transitions. Sinks run after the storage
// write succeeds; their failures are logged by the caller and never roll back
// or fail the originating transition.
type TransitionSink interface {
	OnTransition(ctx context.Context, t Transition)
}

// TransitionLog is the storage-backed idempotency guard for side effects.
// Claim records a transition ID and reports whether this caller was first;
// replays of an already-claimed ID return false and must produce no effects.
type TransitionLog interface {
	Claim(ctx context.Context, transitionID string) (bool, error)
}
