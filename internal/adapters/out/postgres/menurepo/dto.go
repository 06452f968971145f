// Package menurepo is the read-side adapter for the menu catalog: order
// placement prices items against these rows. Add exists for seeding and
// tests; the marketplace that maintains menus is outside this service.
package menurepo

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItemDTO represents the database structure for menu item rows.
type MenuItemDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Available    bool            `gorm:"not null;default:true"`
}

// TableName specifies the database table name for menu item rows.
func (MenuItemDTO) TableName() string {
	return "menu_items"
}

// toReadModel converts a database row to the catalog read model.
func toReadModel(dto MenuItemDTO) (ports.MenuItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.MenuItem{}, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return ports.MenuItem{}, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return ports.MenuItem{}, err
	}

	return ports.MenuItem{
		ID:           id,
		RestaurantID: restaurantID,
		Name:         dto.Name,
		Price:        price,
		Available:    dto.Available,
	}, nil
}
