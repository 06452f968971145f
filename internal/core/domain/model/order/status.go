package order

import (
	"fmt"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. The full lifecycle:
//
//	Placed ──┬──> Accepted ──> Assigned ──> PickedUp ──> Delivered
//	         │        │            │
//	         ├──> Rejected         │
//	         └──────────┴──────────┴──> Cancelled
//
// Rejected, Cancelled and Delivered are terminal. Every legal transition
// carries the closed set of roles permitted to request it; anything not in
// the table is illegal regardless of actor.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Placed is the initial status: the customer has submitted the order
	// and the restaurant has not yet responded.
	Placed

	// Accepted means the restaurant confirmed the order. Payment is created
	// at this point and the order waits for delivery assignment.
	Accepted

	// Rejected means the restaurant declined the order. Terminal.
	Rejected

	// Assigned means a delivery agent has been bound to the order.
	Assigned

	// PickedUp means the assigned agent collected the order.
	PickedUp

	// Delivered means the assigned agent completed the delivery. Terminal.
	Delivered

	// Cancelled means the customer or an administrator withdrew the order
	// before delivery. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Placed:    "Placed",
		Accepted:  "Accepted",
		Rejected:  "Rejected",
		Assigned:  "Assigned",
		PickedUp:  "PickedUp",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Placed:    "Placed",
		Accepted:  "Accepted",
		Rejected:  "Rejected",
		Assigned:  "Assigned",
		PickedUp:  "PickedUp",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

// transitionKey identifies one edge of the lifecycle graph.
type transitionKey struct {
	from Status
	to   Status
}

// getTransitionTable is the authoritative transition table: every legal
// (from, to) edge mapped to the roles allowed to request it. Ownership
// checks (the restaurant owner of that restaurant, the customer who placed
// the order, the assigned agent) are enforced by the Order aggregate on top
// of the role check.
func getTransitionTable() map[transitionKey][]actor.Role {
	return map[transitionKey][]actor.Role{
		{Placed, Accepted}:    {actor.RestaurantOwner},
		{Placed, Rejected}:    {actor.RestaurantOwner},
		{Placed, Cancelled}:   {actor.Customer},
		{Accepted, Assigned}:  {actor.System},
		{Assigned, PickedUp}:  {actor.DeliveryAgent},
		{PickedUp, Delivered}: {actor.DeliveryAgent},
		{Accepted, Cancelled}: {actor.Administrator},
		{Assigned, Cancelled}: {actor.Administrator},
	}
}

// StatusFromString parses a status name as carried in API payloads.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and values outside the defined set.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable status name.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == Rejected || s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether the (s, target) edge exists in the
// transition table. Re-requesting the current status is never legal.
func (s Status) CanTransitionTo(target Status) bool {
	_, ok := getTransitionTable()[transitionKey{from: s, to: target}]
	return ok
}

// AllowedRoles returns the roles permitted to request the (from, to)
// transition, or nil when the edge is illegal.
func AllowedRoles(from, to Status) []actor.Role {
	return getTransitionTable()[transitionKey{from: from, to: to}]
}

// NextStatuses returns the statuses reachable from s, in no particular
// order. Empty for terminal statuses.
func (s Status) NextStatuses() []Status {
	var next []Status
	for key := range getTransitionTable() {
		if key.from == s {
			next = append(next, key.to)
		}
	}
	return next
}
