package queries

import (
	"context"

	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableAgentsQueryHandler reads the pool of agents that the next
// assignment run would consider, ordered the same way assignment orders
// them: earliest registration first.
type GetAvailableAgentsQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableAgentsQueryHandler creates a handler for available agent
// queries. Requires a GORM database connection for query execution.
func NewGetAvailableAgentsQueryHandler(db *gorm.DB) GetAvailableAgentsQueryHandler {
	return GetAvailableAgentsQueryHandler{db: db}
}

// Handle executes the query.
func (h GetAvailableAgentsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableAgentsQuery,
) ([]GetAvailableAgentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	agents := make([]GetAvailableAgentsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			registered_at
		FROM agents
		WHERE availability = ?
		ORDER BY registered_at, id
	`, agent.Available).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAvailableAgentsQueryResponse
		var id uuid.UUID

		if err = rows.Scan(&id, &resp.Name, &resp.RegisteredAt); err != nil {
			return nil, err
		}

		agentID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = agentID

		agents = append(agents, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return agents, nil
}
