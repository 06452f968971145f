package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrLinesAreRequired = errors.New("at least one order line is required")
)

// OrderLine is one requested menu item with its quantity. Prices are not
// part of the request: they are resolved from the catalog and snapshotted
// at placement time.
type OrderLine struct {
	MenuItemID kernel.UUID
	Quantity   int
}

// PlaceOrderCommand represents a customer's request to place an order at a
// restaurant.
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	lines        []OrderLine

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place a new order. Validates all
// ids and requires at least one line with a positive quantity.
func NewPlaceOrderCommand(
	orderID, customerID, restaurantID kernel.UUID,
	lines []OrderLine,
) (PlaceOrderCommand, error) {
	command := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setCustomerID(customerID),
		command.setRestaurantID(restaurantID),
		command.setLines(lines),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the id of the placing customer.
func (c PlaceOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// RestaurantID returns the id of the restaurant the order targets.
func (c PlaceOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Lines returns the requested menu items.
func (c PlaceOrderCommand) Lines() []OrderLine {
	return c.lines
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	c.restaurantID = restaurantID
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrLinesAreRequired
	}

	for _, line := range lines {
		if err := line.MenuItemID.Validate(); err != nil {
			return err
		}
		if line.Quantity < 1 {
			return errs.NewValueIsInvalidError("quantity")
		}
	}

	c.lines = lines
	return nil
}
