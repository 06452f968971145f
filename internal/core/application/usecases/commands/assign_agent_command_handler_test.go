package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAcceptedOrder(t *testing.T) *order.Order {
	t.Helper()
	f := newPlacedOrder(t)
	owner := newActor(t, actor.RestaurantOwner, f.restaurantID)
	require.NoError(t, f.order.TransitionTo(order.Accepted, owner, time.Now()))
	f.order.ClearEvents()
	return f.order
}

func TestAssignAgentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignAgentCommand()

	testOrder := newAcceptedOrder(t)
	testAgent, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Alice", time.Now())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)
	dispatcher := new(MockEventDispatcher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		orderRepo.On("GetFirstInAcceptedStatus", ctx).Return(testOrder, nil).Once(),
		agentRepo.On("GetAllAvailable", ctx).Return([]*agent.DeliveryAgent{testAgent}, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.DeliveryAgent")).Return(nil).Once(),
		dispatcher.On("Dispatch", ctx, uow, mock.AnythingOfType("[]order.DomainEvent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignAgentCommandHandler(factory, dispatcher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Assigned, testOrder.Status())
	require.NotNil(t, testOrder.AgentID())
	assert.True(t, testOrder.AgentID().IsEqual(testAgent.ID()))
	assert.Equal(t, agent.Busy, testAgent.Availability())

	orderRepo.AssertExpectations(t)
	agentRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestAssignAgentCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.AssignAgentCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := commands.NewAssignAgentCommandHandler(factory, new(MockEventDispatcher))
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrAssignAgentCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestAssignAgentCommandHandler_Handle_NoOrderFound(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignAgentCommand()

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		orderRepo.On("GetFirstInAcceptedStatus", ctx).Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignAgentCommandHandler(factory, new(MockEventDispatcher))
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrNoOrderFound)
}

func TestAssignAgentCommandHandler_Handle_NoAgentAvailable(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignAgentCommand()

	testOrder := newAcceptedOrder(t)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		orderRepo.On("GetFirstInAcceptedStatus", ctx).Return(testOrder, nil).Once(),
		agentRepo.On("GetAllAvailable", ctx).Return([]*agent.DeliveryAgent{}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignAgentCommandHandler(factory, new(MockEventDispatcher))
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrNoAgentAvailable)
	assert.Equal(t, order.Accepted, testOrder.Status())
}

func TestAssignAgentCommandHandler_Handle_EarliestRegisteredWins(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignAgentCommand()

	testOrder := newAcceptedOrder(t)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	later, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Bob", base.Add(time.Hour))
	require.NoError(t, err)
	earlier, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Alice", base)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)
	dispatcher := new(MockEventDispatcher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		orderRepo.On("GetFirstInAcceptedStatus", ctx).Return(testOrder, nil).Once(),
		agentRepo.On("GetAllAvailable", ctx).Return([]*agent.DeliveryAgent{later, earlier}, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.DeliveryAgent")).Return(nil).Once(),
		dispatcher.On("Dispatch", ctx, uow, mock.AnythingOfType("[]order.DomainEvent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignAgentCommandHandler(factory, dispatcher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	updated := agentRepo.Calls[1].Arguments[1].(*agent.DeliveryAgent)
	assert.True(t, updated.IsEqual(earlier))
	assert.Equal(t, agent.Available, later.Availability())
}
