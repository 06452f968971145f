// Package http is the inbound HTTP adapter: echo routes, JWT actor
// resolution and the mapping from application errors to status codes.
package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	placeOrderHandler         commands.PlaceOrderCommandHandler
	transitionOrderHandler    commands.TransitionOrderCommandHandler
	registerAgentHandler      commands.RegisterAgentCommandHandler
	changeAvailabilityHandler commands.ChangeAgentAvailabilityCommandHandler

	getOrdersHandler          queries.GetOrdersForActorQueryHandler
	getOrderHistoryHandler    queries.GetOrderHistoryQueryHandler
	getAvailableAgentsHandler queries.GetAvailableAgentsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	registerAgentHandler commands.RegisterAgentCommandHandler,
	changeAvailabilityHandler commands.ChangeAgentAvailabilityCommandHandler,
	getOrdersHandler queries.GetOrdersForActorQueryHandler,
	getOrderHistoryHandler queries.GetOrderHistoryQueryHandler,
	getAvailableAgentsHandler queries.GetAvailableAgentsQueryHandler,
) *Server {
	return &Server{
		placeOrderHandler:         placeOrderHandler,
		transitionOrderHandler:    transitionOrderHandler,
		registerAgentHandler:      registerAgentHandler,
		changeAvailabilityHandler: changeAvailabilityHandler,
		getOrdersHandler:          getOrdersHandler,
		getOrderHistoryHandler:    getOrderHistoryHandler,
		getAvailableAgentsHandler: getAvailableAgentsHandler,
	}
}

// RegisterRoutes mounts the API under /api/v1 behind the actor middleware.
// The health endpoint stays outside the authenticated group.
func (s *Server) RegisterRoutes(e *echo.Echo, jwtSecret []byte) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", ActorMiddleware(jwtSecret))
	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders", s.GetOrders)
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.GET("/orders/:id/history", s.GetOrderHistory)
	api.POST("/agents", s.RegisterAgent)
	api.PUT("/agents/:id/availability", s.ChangeAgentAvailability)
	api.GET("/agents/available", s.GetAvailableAgents)
}

// PlaceOrder handles POST /api/v1/orders. Only customers place orders, and
// always on their own behalf: the customer id is the token subject.
func (s *Server) PlaceOrder(c echo.Context) error {
	by, ok := actorFromContext(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}
	if by.Role() != actor.Customer {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "Only customers may place orders",
		})
	}

	var request PlaceOrderRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	restaurantID, err := kernel.UUIDFromString(request.RestaurantID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid restaurant id: " + err.Error(),
		})
	}

	lines := make([]commands.OrderLine, 0, len(request.Items))
	for _, item := range request.Items {
		menuItemID, idErr := kernel.UUIDFromString(item.MenuItemID)
		if idErr != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "Invalid menu item id: " + idErr.Error(),
			})
		}
		lines = append(lines, commands.OrderLine{
			MenuItemID: menuItemID,
			Quantity:   item.Quantity,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(orderID, by.ID(), restaurantID, lines)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	if err = s.placeOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(errorJSON(err))
	}

	return c.JSON(http.StatusCreated, PlaceOrderResponse{ID: orderID.String()})
}

// GetOrders handles GET /api/v1/orders, scoped to the requesting actor.
func (s *Server) GetOrders(c echo.Context) error {
	by, ok := actorFromContext(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}

	query, err := queries.NewGetOrdersForActorQuery(by)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	orders, err := s.getOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	response := make([]OrderResponse, len(orders))
	for i, o := range orders {
		response[i] = toOrderResponse(o)
	}

	return c.JSON(http.StatusOK, response)
}

// TransitionOrder handles POST /api/v1/orders/:id/transition.
func (s *Server) TransitionOrder(c echo.Context) error {
	by, ok := actorFromContext(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}

	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	var request TransitionOrderRequest
	if err = c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	target, err := order.StatusFromString(request.Target)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, by)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	if err = s.transitionOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(errorJSON(err))
	}

	return c.NoContent(http.StatusNoContent)
}

// GetOrderHistory handles GET /api/v1/orders/:id/history.
func (s *Server) GetOrderHistory(c echo.Context) error {
	by, ok := actorFromContext(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}

	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID, by)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	transitions, err := s.getOrderHistoryHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	response := make([]TransitionResponse, len(transitions))
	for i, record := range transitions {
		response[i] = TransitionResponse{
			Seq:     record.Seq,
			From:    record.From.String(),
			To:      record.To.String(),
			Role:    record.Role.String(),
			ActorID: record.ActorID.String(),
			At:      record.At,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// RegisterAgent handles POST /api/v1/agents. Agents register themselves:
// the agent id is the token subject.
func (s *Server) RegisterAgent(c echo.Context) error {
	by, ok := actorFromContext(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}
	if by.Role() != actor.DeliveryAgent {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "Only delivery agents may register",
		})
	}

	var request RegisterAgentRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewRegisterAgentCommand(by.ID(), request.Name)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	if err = s.registerAgentHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(errorJSON(err))
	}

	return c.NoContent(http.StatusCreated)
}

// ChangeAgentAvailability handles PUT /api/v1/agents/:id/availability.
// Agents shift themselves; administrators shift anyone. The command handler
// owns that rule.
func (s *Server) ChangeAgentAvailability(c echo.Context) error {
	by, ok := actorFromContext(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}

	agentID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid agent id: " + err.Error(),
		})
	}

	var request ChangeAvailabilityRequest
	if err = c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	availability, err := agent.AvailabilityFromString(request.Availability)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	cmd, err := commands.NewChangeAgentAvailabilityCommand(agentID, availability, by)
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	if err = s.changeAvailabilityHandler.Handle(c.Request().Context(), cmd); err != nil {
		return c.JSON(errorJSON(err))
	}

	return c.NoContent(http.StatusNoContent)
}

// GetAvailableAgents handles GET /api/v1/agents/available.
func (s *Server) GetAvailableAgents(c echo.Context) error {
	agents, err := s.getAvailableAgentsHandler.Handle(
		c.Request().Context(), queries.NewGetAvailableAgentsQuery())
	if err != nil {
		return c.JSON(errorJSON(err))
	}

	response := make([]AgentResponse, len(agents))
	for i, a := range agents {
		response[i] = AgentResponse{
			ID:           a.ID.String(),
			Name:         a.Name,
			RegisteredAt: a.RegisteredAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// toOrderResponse maps one read model row onto the wire contract.
func toOrderResponse(o queries.GetOrdersForActorQueryResponse) OrderResponse {
	var agentID *string
	if o.AgentID != nil {
		s := o.AgentID.String()
		agentID = &s
	}

	return OrderResponse{
		ID:           o.ID.String(),
		CustomerID:   o.CustomerID.String(),
		RestaurantID: o.RestaurantID.String(),
		AgentID:      agentID,
		Status:       o.Status.String(),
		Total:        o.Total.String(),
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
	}
}
