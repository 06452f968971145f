package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrItemsAreRequired is returned when attempting to place an order
	// without any items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")

	// ErrInvalidTransition is returned when the requested (from, to) pair is
	// not in the transition table, including re-requesting the current
	// status. It is actor-independent: an illegal edge stays illegal no
	// matter who asks.
	ErrInvalidTransition = errors.New("invalid order transition")

	// ErrAgentAlreadyAssigned is returned when assignment is attempted on an
	// order that already carries an agent. The binding is immutable.
	ErrAgentAlreadyAssigned = errors.New("order already has an assigned agent")
)

// Order is the aggregate root of the order ledger. It owns the lifecycle
// status, the frozen total, the append-only transition log, and the one-time
// delivery agent binding.
//
// Invariants:
//   - items is non-empty; every quantity is at least 1
//   - total is the sum of quantity times unit price snapshots, computed once at placement
//   - status changes only through TransitionTo / AssignAgent, per the table
//     in status.go; each change appends exactly one log record
//   - agentID is set exactly once, at Assigned, and never rewritten
//   - version is the optimistic concurrency token persisted alongside the
//     aggregate; two writers loading the same version cannot both commit
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	items        []Item
	total        kernel.Money
	status       Status
	agentID      *kernel.UUID
	createdAt    time.Time
	transitions  []TransitionRecord
	version      int

	events []DomainEvent

	guard guard.ConstructorGuard
}

// NewOrder places a new order. It validates all inputs, freezes the total as
// the sum of the item subtotals, and starts the lifecycle in Placed with an
// empty transition log. Emits OrderPlaced.
func NewOrder(id, customerID, restaurantID kernel.UUID, items []Item, now time.Time) (*Order, error) {
	o := &Order{
		status:    Placed,
		createdAt: now,
		version:   1,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}

	total, err := sumItems(items)
	if err != nil {
		return nil, err
	}
	o.total = total

	o.events = append(o.events, OrderPlaced{orderID: o.id, total: o.total})
	return o, nil
}

// RestoreOrder reconstructs an order aggregate from persistence, including
// its transition log and optimistic version. Unlike NewOrder it accepts any
// valid status and does not emit events.
func RestoreOrder(
	id, customerID, restaurantID kernel.UUID,
	items []Item,
	total kernel.Money,
	status Status,
	agentID *kernel.UUID,
	createdAt time.Time,
	transitions []TransitionRecord,
	version int,
) (*Order, error) {
	o := &Order{
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setItems(items),
		o.setStatus(status),
		o.setTotal(total),
		o.setVersion(version),
	); err != nil {
		return nil, err
	}

	if agentID != nil {
		if err := agentID.Validate(); err != nil {
			return nil, err
		}
		o.agentID = agentID
	}

	if err := o.validateAgentBinding(); err != nil {
		return nil, err
	}

	for _, record := range transitions {
		if err := record.Validate(); err != nil {
			return nil, err
		}
	}
	o.transitions = transitions

	return o, nil
}

// Validate ensures the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by id.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the id of the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the id of the restaurant the order was placed at.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Items returns the order lines.
func (o *Order) Items() []Item {
	return o.items
}

// Total returns the total frozen at placement time.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// AgentID returns the bound delivery agent id, or nil before assignment.
func (o *Order) AgentID() *kernel.UUID {
	return o.agentID
}

// CreatedAt returns the placement time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Transitions returns the append-only transition log.
func (o *Order) Transitions() []TransitionRecord {
	return o.transitions
}

// Version returns the optimistic concurrency token loaded from persistence.
// Repositories compare-and-swap on it when writing the aggregate back.
func (o *Order) Version() int {
	return o.version
}

// Events returns the domain events pending dispatch.
func (o *Order) Events() []DomainEvent {
	return o.events
}

// ClearEvents drops pending events after they have been dispatched.
func (o *Order) ClearEvents() {
	o.events = nil
}

// TransitionTo applies a lifecycle transition requested by an actor.
//
// Checks, in order:
//  1. the (current, target) edge exists in the transition table; illegality
//     is actor-independent, so an illegal edge (including re-requesting the
//     already-applied status) is ErrInvalidTransition for everyone;
//  2. the actor's role is in the edge's allowed set, and the actor passes
//     the ownership check for that role, otherwise errs.ErrForbidden.
//
// On success the transition is logged, the status updated, and the matching
// event emitted. Accepted to Assigned must go through AssignAgent, since it
// also binds the agent.
func (o *Order) TransitionTo(target Status, by actor.Actor, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}
	if err := by.Validate(); err != nil {
		return err
	}
	if now.IsZero() {
		return errs.NewValueIsRequiredError("now")
	}

	if !o.status.CanTransitionTo(target) {
		return newInvalidTransitionError(o.status, target)
	}

	if err := o.authorize(target, by); err != nil {
		return err
	}

	if target == Assigned {
		return errs.NewValueIsInvalidErrorWithCause("target",
			fmt.Errorf("transition to %s must bind an agent via AssignAgent", Assigned))
	}

	if err := o.apply(target, by, now); err != nil {
		return err
	}

	o.emit(target)
	return nil
}

// AssignAgent applies the system-triggered Accepted to Assigned transition,
// binding the delivery agent exactly once. Emits OrderAssigned.
func (o *Order) AssignAgent(agentID kernel.UUID, by actor.Actor, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := agentID.Validate(); err != nil {
		return err
	}
	if err := by.Validate(); err != nil {
		return err
	}
	if now.IsZero() {
		return errs.NewValueIsRequiredError("now")
	}

	if !o.status.CanTransitionTo(Assigned) {
		return newInvalidTransitionError(o.status, Assigned)
	}
	if !by.IsSystem() {
		return errs.NewAuthorizationErrorWithCause("actor",
			fmt.Errorf("%s may not assign delivery agents", by.Role()))
	}
	if o.agentID != nil {
		return ErrAgentAlreadyAssigned
	}

	if err := o.apply(Assigned, by, now); err != nil {
		return err
	}

	o.agentID = &agentID
	o.events = append(o.events, OrderAssigned{orderID: o.id, agentID: agentID})
	return nil
}

// authorize enforces the role set of the transition table plus the
// per-role ownership rules.
func (o *Order) authorize(target Status, by actor.Actor) error {
	allowed := AllowedRoles(o.status, target)

	roleAllowed := false
	for _, role := range allowed {
		if by.Role() == role {
			roleAllowed = true
			break
		}
	}
	if !roleAllowed {
		return errs.NewAuthorizationErrorWithCause("actor",
			fmt.Errorf("%s may not transition %s to %s", by.Role(), o.status, target))
	}

	switch by.Role() {
	case actor.Customer:
		if !by.ID().IsEqual(o.customerID) {
			return errs.NewAuthorizationErrorWithCause("actor",
				errors.New("customer does not own this order"))
		}
	case actor.RestaurantOwner:
		if !by.ID().IsEqual(o.restaurantID) {
			return errs.NewAuthorizationErrorWithCause("actor",
				errors.New("restaurant does not own this order"))
		}
	case actor.DeliveryAgent:
		if o.agentID == nil || !by.ID().IsEqual(*o.agentID) {
			return errs.NewAuthorizationErrorWithCause("actor",
				errors.New("agent is not assigned to this order"))
		}
	case actor.Administrator, actor.System, actor.UnknownRole:
		// No ownership scope beyond the role check.
	}

	return nil
}

// apply appends the log record and moves the status. The record is written
// before the status so a failed record leaves the order untouched.
func (o *Order) apply(target Status, by actor.Actor, now time.Time) error {
	record, err := NewTransitionRecord(o.status, target, by.Role(), by.ID(), now)
	if err != nil {
		return err
	}

	o.transitions = append(o.transitions, record)
	o.status = target
	return nil
}

// emit records the domain event matching the entered status.
func (o *Order) emit(target Status) {
	switch target {
	case Accepted:
		o.events = append(o.events, OrderAccepted{orderID: o.id, total: o.total})
	case Rejected:
		o.events = append(o.events, OrderRejected{orderID: o.id})
	case PickedUp:
		o.events = append(o.events, OrderPickedUp{orderID: o.id, agentID: *o.agentID})
	case Delivered:
		o.events = append(o.events, OrderDelivered{orderID: o.id, agentID: *o.agentID})
	case Cancelled:
		o.events = append(o.events, OrderCancelled{orderID: o.id, agentID: o.agentID})
	case Unknown, Placed, Assigned:
		// Placed is emitted by NewOrder, Assigned by AssignAgent.
	}
}

func (o *Order) validateAgentBinding() error {
	hasAgent := o.agentID != nil

	if !hasAgent && (o.status == Assigned || o.status == PickedUp || o.status == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s requires an assigned agent", o.status))
	}

	if hasAgent && (o.status == Placed || o.status == Accepted || o.status == Rejected) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s may not have an assigned agent", o.status))
	}

	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	o.total = total
	return nil
}

func (o *Order) setVersion(version int) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version",
			fmt.Errorf("%d is not greater than 0", version))
	}
	o.version = version
	return nil
}

func sumItems(items []Item) (kernel.Money, error) {
	total := kernel.ZeroMoney()
	for _, item := range items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return kernel.Money{}, err
		}
		total, err = total.Add(subtotal)
		if err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}

func newInvalidTransitionError(from, to Status) error {
	return fmt.Errorf("%w: %s is not reachable from %s", ErrInvalidTransition, to, from)
}
