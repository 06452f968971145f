// Package orderrepo persists the order aggregate: the order row, its item
// snapshot and its transition log, mapped between domain entities and
// relational rows.
package orderrepo

import (
	"sort"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Items and transitions live in child tables and cascade with the order row.
type OrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AgentID      *uuid.UUID      `gorm:"type:uuid;index"`
	Status       int             `gorm:"not null;index"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Version      int             `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null;index"`

	Items       []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Transitions []TransitionDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one priced line of the order's frozen item snapshot. Lines
// are keyed by their position; they never change after placement.
type OrderItemDTO struct {
	OrderID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Idx        int             `gorm:"primaryKey"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName specifies the database table name for order item entities.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// TransitionDTO is one entry of the order's transition log, keyed by its
// sequence number within the order.
type TransitionDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey"`
	FromStatus int       `gorm:"not null"`
	ToStatus   int       `gorm:"not null"`
	Role       int       `gorm:"not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	At         time.Time `gorm:"not null"`
}

// TableName specifies the database table name for transition log entries.
func (TransitionDTO) TableName() string {
	return "order_transitions"
}

// fromDomain converts an order domain aggregate to its database
// representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var agentID *uuid.UUID
	if id := aggregate.AgentID(); id != nil {
		raw := id.Bytes()
		agentID = &raw
	}

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for i, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:    aggregate.ID().Bytes(),
			Idx:        i + 1,
			MenuItemID: item.MenuItemID().Bytes(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Decimal(),
		})
	}

	transitions := make([]TransitionDTO, 0, len(aggregate.Transitions()))
	for i, record := range aggregate.Transitions() {
		transitions = append(transitions, TransitionDTO{
			OrderID:    aggregate.ID().Bytes(),
			Seq:        i + 1,
			FromStatus: int(record.From()),
			ToStatus:   int(record.To()),
			Role:       int(record.Role()),
			ActorID:    record.ActorID().Bytes(),
			At:         record.At(),
		})
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		CustomerID:   aggregate.CustomerID().Bytes(),
		RestaurantID: aggregate.RestaurantID().Bytes(),
		AgentID:      agentID,
		Status:       int(aggregate.Status()),
		Total:        aggregate.Total().Decimal(),
		Version:      aggregate.Version(),
		CreatedAt:    aggregate.CreatedAt(),
		Items:        items,
		Transitions:  transitions,
	}
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder. Child rows are re-ordered by their keys since preloading
// gives no ordering guarantee.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		aID, agentErr := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if agentErr != nil {
			return nil, agentErr
		}
		agentID = &aID
	}

	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	items, err := itemsToDomain(dto.Items)
	if err != nil {
		return nil, err
	}

	transitions, err := transitionsToDomain(dto.Transitions)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, customerID, restaurantID, items, total,
		order.Status(dto.Status), agentID, dto.CreatedAt, transitions, dto.Version)
}

func itemsToDomain(dtos []OrderItemDTO) ([]order.Item, error) {
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Idx < dtos[j].Idx })

	items := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
		if err != nil {
			return nil, err
		}
		unitPrice, err := kernel.NewMoney(dto.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(menuItemID, dto.Quantity, unitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func transitionsToDomain(dtos []TransitionDTO) ([]order.TransitionRecord, error) {
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Seq < dtos[j].Seq })

	transitions := make([]order.TransitionRecord, 0, len(dtos))
	for _, dto := range dtos {
		actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
		if err != nil {
			return nil, err
		}
		record, err := order.NewTransitionRecord(
			order.Status(dto.FromStatus), order.Status(dto.ToStatus),
			actor.Role(dto.Role), actorID, dto.At)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, record)
	}

	return transitions, nil
}
