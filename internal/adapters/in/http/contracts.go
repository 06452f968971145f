package http

import "time"

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PlaceOrderItem is one requested line of a new order.
type PlaceOrderItem struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

// PlaceOrderRequest is the body of POST /api/v1/orders. The customer id
// comes from the token, never from the body.
type PlaceOrderRequest struct {
	RestaurantID string           `json:"restaurantId"`
	Items        []PlaceOrderItem `json:"items"`
}

// PlaceOrderResponse carries the id of the newly placed order.
type PlaceOrderResponse struct {
	ID string `json:"id"`
}

// TransitionOrderRequest is the body of POST /api/v1/orders/:id/transition.
type TransitionOrderRequest struct {
	Target string `json:"target"`
}

// RegisterAgentRequest is the body of POST /api/v1/agents.
type RegisterAgentRequest struct {
	Name string `json:"name"`
}

// ChangeAvailabilityRequest is the body of
// PUT /api/v1/agents/:id/availability.
type ChangeAvailabilityRequest struct {
	Availability string `json:"availability"`
}

// OrderResponse is one order in listing responses.
type OrderResponse struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	RestaurantID string    `json:"restaurantId"`
	AgentID      *string   `json:"agentId,omitempty"`
	Status       string    `json:"status"`
	Total        string    `json:"total"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TransitionResponse is one transition log entry in history responses.
type TransitionResponse struct {
	Seq     int       `json:"seq"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Role    string    `json:"role"`
	ActorID string    `json:"actorId"`
	At      time.Time `json:"at"`
}

// AgentResponse is one agent in availability listing responses.
type AgentResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registeredAt"`
}
