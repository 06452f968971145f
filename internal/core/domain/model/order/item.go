package order

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrItemIsNotConstructed indicates a zero-value Item that bypassed NewItem.
var ErrItemIsNotConstructed = errs.NewValueIsRequiredError(
	"Item must be created via NewItem")

// Item is one order line: a menu item reference, a quantity, and the unit
// price snapshotted at placement time. Snapshot prices are copied from the
// menu catalog when the order is placed and never recomputed from the live
// menu afterwards.
type Item struct {
	menuItemID kernel.UUID
	quantity   int
	unitPrice  kernel.Money

	guard guard.ConstructorGuard
}

// NewItem creates an order line with a validated menu item id, a quantity of
// at least one, and a snapshotted unit price.
func NewItem(menuItemID kernel.UUID, quantity int, unitPrice kernel.Money) (Item, error) {
	if err := menuItemID.Validate(); err != nil {
		return Item{}, err
	}
	if quantity < 1 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := unitPrice.Validate(); err != nil {
		return Item{}, err
	}

	return Item{
		menuItemID: menuItemID,
		quantity:   quantity,
		unitPrice:  unitPrice,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// MenuItemID returns the referenced menu item id.
func (i Item) MenuItemID() kernel.UUID {
	return i.menuItemID
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price snapshot taken at placement time.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal returns quantity times unit price.
func (i Item) Subtotal() (kernel.Money, error) {
	if err := i.Validate(); err != nil {
		return kernel.Money{}, err
	}
	return i.unitPrice.MulQuantity(i.quantity)
}

// Validate ensures the item was built through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}
