package cmd

import (
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/menurepo"
	"marketplace/internal/core/application/eventhandlers"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

// CreateEventDispatcher wires the in-transaction event handlers: payment
// settlement with the configured fee rate, and agent release.
func (c *CompositionRoot) CreateEventDispatcher() commands.EventDispatcher {
	return eventhandlers.NewDispatcher(
		eventhandlers.NewPaymentSettlementHandler(c.config.FeeRate),
		eventhandlers.NewAgentReleaseHandler(),
	)
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, menurepo.NewGormMenuCatalog(c.gormDB))
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.CreateEventDispatcher())
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignAgentCommandHandler(f, c.CreateEventDispatcher())
}

func (c *CompositionRoot) CreateRegisterAgentCommandHandler() commands.RegisterAgentCommandHandler {
	var f commands.AgentUoWFactory = FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterAgentCommandHandler(f)
}

func (c *CompositionRoot) CreateChangeAgentAvailabilityCommandHandler() commands.ChangeAgentAvailabilityCommandHandler {
	var f commands.AgentUoWFactory = FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeAgentAvailabilityCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrdersForActorQueryHandler() queries.GetOrdersForActorQueryHandler {
	return queries.NewGetOrdersForActorQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableAgentsQueryHandler() queries.GetAvailableAgentsQueryHandler {
	return queries.NewGetAvailableAgentsQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
