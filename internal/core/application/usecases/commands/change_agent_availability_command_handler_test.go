package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChangeAgentAvailabilityCommandHandler_Handle_AgentGoesOffline(t *testing.T) {
	ctx := t.Context()
	testAgent, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Alice", time.Now())
	require.NoError(t, err)

	self := newActor(t, actor.DeliveryAgent, testAgent.ID())
	cmd, err := commands.NewChangeAgentAvailabilityCommand(testAgent.ID(), agent.Offline, self)
	require.NoError(t, err)

	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Get", ctx, testAgent.ID()).Return(testAgent, nil).Once(),
		agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.DeliveryAgent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeAgentAvailabilityCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, agent.Offline, testAgent.Availability())
	agentRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestChangeAgentAvailabilityCommandHandler_Handle_AdminChangesAnyAgent(t *testing.T) {
	ctx := t.Context()
	testAgent, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Alice", time.Now())
	require.NoError(t, err)
	require.NoError(t, testAgent.GoOffline())

	admin := newActor(t, actor.Administrator, kernel.NewUUID())
	cmd, err := commands.NewChangeAgentAvailabilityCommand(testAgent.ID(), agent.Available, admin)
	require.NoError(t, err)

	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Get", ctx, testAgent.ID()).Return(testAgent, nil).Once(),
		agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.DeliveryAgent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeAgentAvailabilityCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, agent.Available, testAgent.Availability())
}

func TestChangeAgentAvailabilityCommandHandler_Handle_ForeignAgentForbidden(t *testing.T) {
	ctx := t.Context()
	agentID := kernel.NewUUID()
	other := newActor(t, actor.DeliveryAgent, kernel.NewUUID())

	cmd, err := commands.NewChangeAgentAvailabilityCommand(agentID, agent.Offline, other)
	require.NoError(t, err)

	factory := new(MockAgentUoWFactory)
	handler := commands.NewChangeAgentAvailabilityCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrForbidden)
	factory.AssertNotCalled(t, "Create")
}

func TestChangeAgentAvailabilityCommandHandler_Handle_CustomerForbidden(t *testing.T) {
	ctx := t.Context()
	customer := newActor(t, actor.Customer, kernel.NewUUID())

	cmd, err := commands.NewChangeAgentAvailabilityCommand(kernel.NewUUID(), agent.Offline, customer)
	require.NoError(t, err)

	handler := commands.NewChangeAgentAvailabilityCommandHandler(new(MockAgentUoWFactory))
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestChangeAgentAvailabilityCommandHandler_Handle_BusyAgent(t *testing.T) {
	ctx := t.Context()
	testAgent, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Alice", time.Now())
	require.NoError(t, err)
	require.NoError(t, testAgent.Reserve(kernel.NewUUID()))

	self := newActor(t, actor.DeliveryAgent, testAgent.ID())
	cmd, err := commands.NewChangeAgentAvailabilityCommand(testAgent.ID(), agent.Offline, self)
	require.NoError(t, err)

	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Get", ctx, testAgent.ID()).Return(testAgent, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeAgentAvailabilityCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, agent.Busy, testAgent.Availability())
	agentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestChangeAgentAvailabilityCommandHandler_Handle_BusyNotRequestable(t *testing.T) {
	ctx := t.Context()
	testAgent, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Alice", time.Now())
	require.NoError(t, err)

	self := newActor(t, actor.DeliveryAgent, testAgent.ID())
	cmd, err := commands.NewChangeAgentAvailabilityCommand(testAgent.ID(), agent.Busy, self)
	require.NoError(t, err)

	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Get", ctx, testAgent.ID()).Return(testAgent, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeAgentAvailabilityCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, agent.Available, testAgent.Availability())
}
