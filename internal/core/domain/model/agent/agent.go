package agent

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when registering an agent without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")

	// ErrAgentIsNotConstructed is returned when using an improperly
	// initialized DeliveryAgent.
	ErrAgentIsNotConstructed = errors.New(
		"DeliveryAgent must be created via NewDeliveryAgent or RestoreDeliveryAgent")

	// ErrAgentIsNotAvailable is returned when Reserve is called on an agent
	// that is Busy or Offline.
	ErrAgentIsNotAvailable = errors.New("agent is not available")
)

// DeliveryAgent is the aggregate root for a delivery worker's duty state.
//
// Invariants:
//   - a Busy agent carries exactly one active order id; any other
//     availability carries none
//   - Busy is entered only through Reserve and left only through Release,
//     both driven by the order lifecycle
//   - an agent may not go offline while carrying an active order
type DeliveryAgent struct {
	id            kernel.UUID
	name          string
	availability  Availability
	activeOrderID *kernel.UUID
	registeredAt  time.Time

	guard guard.ConstructorGuard
}

// NewDeliveryAgent registers a new agent. Agents start Available with no
// active order; registeredAt orders them for the first-available assignment
// policy, which prefers the earliest registration.
func NewDeliveryAgent(id kernel.UUID, name string, now time.Time) (*DeliveryAgent, error) {
	agent := &DeliveryAgent{
		availability: Available,
		registeredAt: now,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setName(name),
	); err != nil {
		return nil, err
	}

	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}

	return agent, nil
}

// RestoreDeliveryAgent reconstructs an agent aggregate from persistence.
func RestoreDeliveryAgent(
	id kernel.UUID,
	name string,
	availability Availability,
	activeOrderID *kernel.UUID,
	registeredAt time.Time,
) (*DeliveryAgent, error) {
	agent := &DeliveryAgent{
		registeredAt: registeredAt,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setName(name),
		agent.setAvailability(availability),
	); err != nil {
		return nil, err
	}

	if activeOrderID != nil {
		if err := activeOrderID.Validate(); err != nil {
			return nil, err
		}
		agent.activeOrderID = activeOrderID
	}

	if err := agent.validateOrderBinding(); err != nil {
		return nil, err
	}

	return agent, nil
}

// Validate ensures the agent was built through a constructor.
func (a *DeliveryAgent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// IsEqual compares two agents by id.
func (a *DeliveryAgent) IsEqual(other *DeliveryAgent) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the agent's unique identifier.
func (a *DeliveryAgent) ID() kernel.UUID {
	return a.id
}

// Name returns the agent's display name.
func (a *DeliveryAgent) Name() string {
	return a.name
}

// Availability returns the current duty state.
func (a *DeliveryAgent) Availability() Availability {
	return a.availability
}

// ActiveOrderID returns the order the agent is bound to, or nil when idle.
func (a *DeliveryAgent) ActiveOrderID() *kernel.UUID {
	return a.activeOrderID
}

// RegisteredAt returns the registration time used to order assignment
// candidates.
func (a *DeliveryAgent) RegisteredAt() time.Time {
	return a.registeredAt
}

// IsAvailable reports whether the agent can take an order right now.
func (a *DeliveryAgent) IsAvailable() bool {
	return a.availability == Available
}

// Reserve binds the agent to an order, moving it Available to Busy. The
// binding is exclusive: a Busy or Offline agent cannot be reserved.
func (a *DeliveryAgent) Reserve(orderID kernel.UUID) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	if a.availability != Available {
		return fmt.Errorf("%w: %s is %s", ErrAgentIsNotAvailable, a.id, a.availability)
	}

	a.availability = Busy
	a.activeOrderID = &orderID
	return nil
}

// Release unbinds the agent from an order, moving it Busy to Available.
//
// Releasing an agent that is not busy is a no-op so release handlers can be
// replayed safely. Releasing while busy with a different order is an
// invariant violation: the exclusivity rule says that state is unreachable.
func (a *DeliveryAgent) Release(orderID kernel.UUID) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	if a.availability != Busy {
		return nil
	}

	if a.activeOrderID == nil || !a.activeOrderID.IsEqual(orderID) {
		return errs.NewInvariantViolationErrorWithCause("agent",
			fmt.Errorf("agent %s is busy with a different order", a.id))
	}

	a.availability = Available
	a.activeOrderID = nil
	return nil
}

// GoOffline takes the agent off duty. A busy agent must finish or lose its
// active order first.
func (a *DeliveryAgent) GoOffline() error {
	if err := a.Validate(); err != nil {
		return err
	}

	if a.availability == Busy {
		return errs.NewValueIsInvalidErrorWithCause("availability",
			errors.New("agent with an active order cannot go offline"))
	}

	a.availability = Offline
	return nil
}

// GoOnline puts the agent back on duty as Available. Calling it while Busy
// is rejected: duty state is system-managed during an active delivery.
func (a *DeliveryAgent) GoOnline() error {
	if err := a.Validate(); err != nil {
		return err
	}

	if a.availability == Busy {
		return errs.NewValueIsInvalidErrorWithCause("availability",
			errors.New("agent with an active order cannot change availability"))
	}

	a.availability = Available
	return nil
}

func (a *DeliveryAgent) validateOrderBinding() error {
	hasOrder := a.activeOrderID != nil

	if a.availability == Busy && !hasOrder {
		return errs.NewValueIsInvalidErrorWithCause("availability",
			errors.New("busy agent must have an active order"))
	}
	if a.availability != Busy && hasOrder {
		return errs.NewValueIsInvalidErrorWithCause("availability",
			fmt.Errorf("%s agent may not have an active order", a.availability))
	}

	return nil
}

func (a *DeliveryAgent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *DeliveryAgent) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	a.name = name
	return nil
}

func (a *DeliveryAgent) setAvailability(availability Availability) error {
	if err := availability.Validate(); err != nil {
		return err
	}
	a.availability = availability
	return nil
}
