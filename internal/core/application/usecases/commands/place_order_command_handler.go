package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrMenuItemFromAnotherRestaurant is returned when an order line
	// references a menu item that does not belong to the target restaurant.
	ErrMenuItemFromAnotherRestaurant = errors.New(
		"menu item does not belong to the target restaurant")

	// ErrMenuItemUnavailable is returned when an order line references a
	// menu item the restaurant has taken off sale.
	ErrMenuItemUnavailable = errors.New("menu item is not available")
)

// PlaceOrderCommandHandler handles the business logic for order placement.
// Resolves every line against the menu catalog, snapshots the current
// prices, and persists the new order in Placed status.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.MenuCatalog
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(uowFactory OrderUoWFactory, catalog ports.MenuCatalog) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

// Handle processes the placement command. Each line is resolved to a catalog
// entry; a missing item is the caller's error (not found), an item owned by
// a different restaurant or taken off sale is invalid input. The total is
// computed and frozen by the aggregate.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, command PlaceOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	items, err := h.resolveLines(ctx, command)
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		command.OrderID(), command.CustomerID(), command.RestaurantID(), items, time.Now())
	if err != nil {
		return err
	}
	newOrder.ClearEvents()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h PlaceOrderCommandHandler) resolveLines(ctx context.Context, command PlaceOrderCommand) ([]order.Item, error) {
	items := make([]order.Item, 0, len(command.Lines()))

	for _, line := range command.Lines() {
		menuItem, err := h.catalog.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}

		if !menuItem.RestaurantID.IsEqual(command.RestaurantID()) {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"menuItemId", ErrMenuItemFromAnotherRestaurant)
		}
		if !menuItem.Available {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"menuItemId", ErrMenuItemUnavailable)
		}

		item, err := order.NewItem(menuItem.ID, line.Quantity, menuItem.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
