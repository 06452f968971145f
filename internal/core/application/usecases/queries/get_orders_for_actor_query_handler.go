package queries

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrdersForActorQueryHandler reads the order ledger scoped to the
// requesting actor's role.
type GetOrdersForActorQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersForActorQueryHandler creates a handler for actor-scoped order
// listings. Requires a GORM database connection for query execution.
func NewGetOrdersForActorQueryHandler(db *gorm.DB) GetOrdersForActorQueryHandler {
	return GetOrdersForActorQueryHandler{db: db}
}

// Handle executes the query. Administrators see every order; the other
// roles see only the rows their id appears on.
func (h GetOrdersForActorQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersForActorQuery,
) ([]GetOrdersForActorQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	baseSQL := `
		SELECT
			id,
			customer_id,
			restaurant_id,
			agent_id,
			status,
			total,
			version,
			created_at
		FROM orders
	`

	by := query.By()
	switch by.Role() {
	case actor.Customer, actor.RestaurantOwner, actor.DeliveryAgent, actor.Administrator:
	default:
		return nil, errs.NewAuthorizationErrorWithCause("role",
			fmt.Errorf("%s may not list orders", by.Role()))
	}

	var rows *sql.Rows
	var err error
	db := h.db.WithContext(ctx)

	switch by.Role() {
	case actor.Customer:
		rows, err = db.Raw(baseSQL+`WHERE customer_id = ? ORDER BY created_at, id`,
			by.ID().Bytes()).Rows()
	case actor.RestaurantOwner:
		rows, err = db.Raw(baseSQL+`WHERE restaurant_id = ? ORDER BY created_at, id`,
			by.ID().Bytes()).Rows()
	case actor.DeliveryAgent:
		rows, err = db.Raw(baseSQL+`WHERE agent_id = ? ORDER BY created_at, id`,
			by.ID().Bytes()).Rows()
	case actor.Administrator:
		rows, err = db.Raw(baseSQL + `ORDER BY created_at, id`).Rows()
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOrdersForActorQueryResponse, 0)

	for rows.Next() {
		var id, customerID, restaurantID uuid.UUID
		var agentID uuid.NullUUID
		var status, version int
		var total decimal.Decimal
		var createdAt time.Time

		err = rows.Scan(&id, &customerID, &restaurantID, &agentID,
			&status, &total, &version, &createdAt)
		if err != nil {
			return nil, err
		}

		resp, mapErr := mapOrderRow(id, customerID, restaurantID, agentID,
			status, total, version, createdAt)
		if mapErr != nil {
			return nil, mapErr
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func mapOrderRow(
	id, customerID, restaurantID uuid.UUID,
	agentID uuid.NullUUID,
	status int,
	total decimal.Decimal,
	version int,
	createdAt time.Time,
) (GetOrdersForActorQueryResponse, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrdersForActorQueryResponse{}, err
	}
	custID, err := kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return GetOrdersForActorQueryResponse{}, err
	}
	restID, err := kernel.UUIDFromBytes(restaurantID[:])
	if err != nil {
		return GetOrdersForActorQueryResponse{}, err
	}

	resp := GetOrdersForActorQueryResponse{
		ID:           orderID,
		CustomerID:   custID,
		RestaurantID: restID,
		Status:       order.Status(status),
		Version:      version,
		CreatedAt:    createdAt,
	}

	if agentID.Valid {
		mapped, idErr := kernel.UUIDFromBytes(agentID.UUID[:])
		if idErr != nil {
			return GetOrdersForActorQueryResponse{}, idErr
		}
		resp.AgentID = &mapped
	}

	totalMoney, err := kernel.NewMoney(total)
	if err != nil {
		return GetOrdersForActorQueryResponse{}, err
	}
	resp.Total = totalMoney

	return resp, nil
}
