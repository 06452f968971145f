package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads the transition log of one order after
// checking that the requesting actor is entitled to see it.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for order history
// queries. Requires a GORM database connection for query execution.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle executes the query. A missing order yields ObjectNotFound; an
// actor outside the order's ownership triangle yields an authorization
// error, regardless of whether the log is empty.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := h.authorize(ctx, query); err != nil {
		return nil, err
	}

	transitions := make([]GetOrderHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			seq,
			from_status,
			to_status,
			role,
			actor_id,
			at
		FROM order_transitions
		WHERE order_id = ?
		ORDER BY seq
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrderHistoryQueryResponse
		var fromStatus, toStatus, role int
		var actorID uuid.UUID

		err = rows.Scan(&resp.Seq, &fromStatus, &toStatus, &role, &actorID, &resp.At)
		if err != nil {
			return nil, err
		}

		mappedActorID, idErr := kernel.UUIDFromBytes(actorID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ActorID = mappedActorID
		resp.From = order.Status(fromStatus)
		resp.To = order.Status(toStatus)
		resp.Role = actor.Role(role)

		transitions = append(transitions, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return transitions, nil
}

// authorize loads the order's ownership columns and checks the requesting
// actor against them.
func (h GetOrderHistoryQueryHandler) authorize(ctx context.Context, query GetOrderHistoryQuery) error {
	var customerID, restaurantID uuid.UUID
	var agentID uuid.NullUUID

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			customer_id,
			restaurant_id,
			agent_id
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(&customerID, &restaurantID, &agentID)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NewObjectNotFoundError("orderId", query.OrderID())
	}
	if err != nil {
		return err
	}

	by := query.By()
	entitled := false
	switch by.Role() {
	case actor.Customer:
		entitled = by.ID().Bytes() == customerID
	case actor.RestaurantOwner:
		entitled = by.ID().Bytes() == restaurantID
	case actor.DeliveryAgent:
		entitled = agentID.Valid && by.ID().Bytes() == agentID.UUID
	case actor.Administrator:
		entitled = true
	case actor.UnknownRole, actor.System:
		entitled = false
	}

	if !entitled {
		return errs.NewAuthorizationErrorWithCause("role", fmt.Errorf(
			"%s %s may not view order %s",
			by.Role(), by.ID(), query.OrderID()))
	}

	return nil
}
