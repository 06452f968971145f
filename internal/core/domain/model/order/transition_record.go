package order

import (
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrTransitionRecordIsNotConstructed indicates a zero-value TransitionRecord
// that bypassed the constructor functions.
var ErrTransitionRecordIsNotConstructed = errs.NewValueIsRequiredError(
	"TransitionRecord must be created via NewTransitionRecord")

// TransitionRecord is one entry of the order's append-only transition log:
// which edge was taken, by whom, and when. The log together with the initial
// Placed status is the authoritative history of the order; the current status
// is always the `to` of the last record (or Placed when the log is empty).
type TransitionRecord struct {
	from    Status
	to      Status
	role    actor.Role
	actorID kernel.UUID
	at      time.Time

	guard guard.ConstructorGuard
}

// NewTransitionRecord creates a validated log entry. It is also used when
// restoring the log from persistence.
func NewTransitionRecord(from, to Status, role actor.Role, actorID kernel.UUID, at time.Time) (TransitionRecord, error) {
	if err := from.Validate(); err != nil {
		return TransitionRecord{}, err
	}
	if err := to.Validate(); err != nil {
		return TransitionRecord{}, err
	}
	if err := role.Validate(); err != nil {
		return TransitionRecord{}, err
	}
	if err := actorID.Validate(); err != nil {
		return TransitionRecord{}, err
	}
	if at.IsZero() {
		return TransitionRecord{}, errs.NewValueIsRequiredError("at")
	}

	return TransitionRecord{
		from:    from,
		to:      to,
		role:    role,
		actorID: actorID,
		at:      at,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// From returns the status the transition left.
func (r TransitionRecord) From() Status {
	return r.from
}

// To returns the status the transition entered.
func (r TransitionRecord) To() Status {
	return r.to
}

// Role returns the role of the actor that requested the transition.
func (r TransitionRecord) Role() actor.Role {
	return r.role
}

// ActorID returns the id of the actor that requested the transition.
func (r TransitionRecord) ActorID() kernel.UUID {
	return r.actorID
}

// At returns the time the transition was applied.
func (r TransitionRecord) At() time.Time {
	return r.at
}

// Validate ensures the record was built through NewTransitionRecord.
func (r TransitionRecord) Validate() error {
	return r.guard.Validate(ErrTransitionRecordIsNotConstructed)
}
