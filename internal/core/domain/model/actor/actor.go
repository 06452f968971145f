// Package actor defines the identity value object carried by every request
// into the order ledger. An Actor pairs a role with the id of the entity it
// represents: the customer, the restaurant, the delivery agent, an
// administrator, or the system itself.
package actor

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrActorIsNotConstructed indicates a zero-value Actor that bypassed the
// constructor functions.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError(
	"Actor must be created via NewActor or SystemActor")

// Role is the closed set of identities that may request order transitions.
// Keeping the set closed makes the transition permission table exhaustively
// checkable.
type Role int

const (
	// UnknownRole represents an invalid or undefined role.
	UnknownRole Role = iota

	// Customer places orders and may cancel them before acceptance.
	Customer

	// RestaurantOwner accepts or rejects orders placed at their restaurant.
	RestaurantOwner

	// DeliveryAgent picks up and delivers orders assigned to them.
	DeliveryAgent

	// Administrator may cancel in-flight orders.
	Administrator

	// System is the internal identity used by delivery assignment; it is
	// never resolved from an external caller.
	System
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole:     "Unknown",
		Customer:        "Customer",
		RestaurantOwner: "RestaurantOwner",
		DeliveryAgent:   "DeliveryAgent",
		Administrator:   "Administrator",
		System:          "System",
	}
}

// RoleFromString parses a role name as carried in authentication claims.
// System is deliberately not parseable from external input.
func RoleFromString(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if name == s && role != UnknownRole && role != System {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// String returns the human-readable role name.
func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "Unknown"
}

// Validate rejects UnknownRole and values outside the closed set.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok || r == UnknownRole {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// Actor is an authenticated identity: a role plus the id of the entity it
// acts for. For a RestaurantOwner the id is the restaurant id; for a
// DeliveryAgent the agent id; for a Customer the customer id.
type Actor struct {
	role Role
	id   kernel.UUID

	guard guard.ConstructorGuard
}

// NewActor creates an Actor with a validated role and entity id.
func NewActor(role Role, id kernel.UUID) (Actor, error) {
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}

	return Actor{
		role:  role,
		id:    id,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// SystemActor returns the internal identity used for system-triggered
// transitions such as delivery assignment.
func SystemActor() Actor {
	return Actor{
		role:  System,
		id:    kernel.NewUUID(),
		guard: guard.NewConstructorGuard(),
	}
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// ID returns the id of the entity the actor represents.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// IsSystem reports whether the actor is the internal system identity.
func (a Actor) IsSystem() bool {
	return a.role == System
}

// Validate ensures the actor was built through a constructor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}
