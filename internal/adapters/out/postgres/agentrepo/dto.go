// Package agentrepo persists the delivery agent aggregate, mapping between
// domain entities and relational rows.
package agentrepo

import (
	"time"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentDTO represents the database structure for persisting delivery agent
// aggregates. ActiveOrderID is set exactly while the agent is Busy.
type AgentDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name          string     `gorm:"not null"`
	Availability  int        `gorm:"not null;index"`
	ActiveOrderID *uuid.UUID `gorm:"type:uuid"`
	RegisteredAt  time.Time  `gorm:"not null;index"`
}

// TableName specifies the database table name for agent entities.
func (AgentDTO) TableName() string {
	return "agents"
}

// fromDomain converts an agent domain aggregate to its database
// representation.
func fromDomain(aggregate *agent.DeliveryAgent) AgentDTO {
	var activeOrderID *uuid.UUID
	if id := aggregate.ActiveOrderID(); id != nil {
		raw := id.Bytes()
		activeOrderID = &raw
	}

	return AgentDTO{
		ID:            aggregate.ID().Bytes(),
		Name:          aggregate.Name(),
		Availability:  int(aggregate.Availability()),
		ActiveOrderID: activeOrderID,
		RegisteredAt:  aggregate.RegisteredAt(),
	}
}

// toDomain converts a database DTO to an agent domain aggregate using
// RestoreDeliveryAgent.
func toDomain(dto AgentDTO) (*agent.DeliveryAgent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var activeOrderID *kernel.UUID
	if dto.ActiveOrderID != nil {
		orderID, orderErr := kernel.UUIDFromBytes((*dto.ActiveOrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		activeOrderID = &orderID
	}

	return agent.RestoreDeliveryAgent(id, dto.Name,
		agent.Availability(dto.Availability), activeOrderID, dto.RegisteredAt)
}
