package menurepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormMenuCatalog implements ports.MenuCatalog against the menu item table.
// It is a plain read adapter with no aggregate tracking.
type GormMenuCatalog struct {
	db *gorm.DB
}

// NewGormMenuCatalog creates a new GORM menu catalog.
func NewGormMenuCatalog(db *gorm.DB) *GormMenuCatalog {
	return &GormMenuCatalog{db: db}
}

// GetMenuItem retrieves one catalog item by ID.
func (c *GormMenuCatalog) GetMenuItem(ctx context.Context, id kernel.UUID) (ports.MenuItem, error) {
	if err := id.Validate(); err != nil {
		return ports.MenuItem{}, err
	}

	var dto MenuItemDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.MenuItem{}, errs.NewObjectNotFoundError("menuItemId", id.String())
		}
		return ports.MenuItem{}, err
	}

	return toReadModel(dto)
}

// Add inserts a catalog item. Used for seeding and tests.
func (c *GormMenuCatalog) Add(ctx context.Context, item ports.MenuItem) error {
	if err := item.ID.Validate(); err != nil {
		return err
	}
	if err := item.RestaurantID.Validate(); err != nil {
		return err
	}
	if err := item.Price.Validate(); err != nil {
		return err
	}

	dto := MenuItemDTO{
		ID:           item.ID.Bytes(),
		RestaurantID: item.RestaurantID.Bytes(),
		Name:         item.Name,
		Price:        item.Price.Decimal(),
		Available:    item.Available,
	}
	return c.db.WithContext(ctx).Create(&dto).Error
}
