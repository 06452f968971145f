package agentrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/agentrepo"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// AgentRepositoryIntegrationTestSuite verifies agent persistence against a
// real PostgreSQL instance.
type AgentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *agentrepo.GormAgentRepository
	tracker    *MockAggregateTracker
}

func (suite *AgentRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&agentrepo.AgentDTO{}))
}

func (suite *AgentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE agents").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Maybe()
	suite.repository = agentrepo.NewGormAgentRepository(suite.db, suite.tracker)
}

func (suite *AgentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *AgentRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	registered, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Alice", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, registered))

	retrieved, err := suite.repository.Get(ctx, registered.ID())
	suite.Require().NoError(err)

	suite.True(retrieved.ID().IsEqual(registered.ID()))
	suite.Equal("Alice", retrieved.Name())
	suite.Equal(agent.Available, retrieved.Availability())
	suite.Nil(retrieved.ActiveOrderID())
}

func (suite *AgentRepositoryIntegrationTestSuite) TestGet_NonExistentAgent_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *AgentRepositoryIntegrationTestSuite) TestUpdate_ReserveAndRelease_RoundTrip() {
	ctx := context.Background()

	registered, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Bob", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, registered))

	orderID := kernel.NewUUID()
	suite.Require().NoError(registered.Reserve(orderID))
	suite.Require().NoError(suite.repository.Update(ctx, registered))

	busy, err := suite.repository.Get(ctx, registered.ID())
	suite.Require().NoError(err)
	suite.Equal(agent.Busy, busy.Availability())
	suite.Require().NotNil(busy.ActiveOrderID())
	suite.True(busy.ActiveOrderID().IsEqual(orderID))

	// Release must clear the nullable order column, not just flip the state.
	suite.Require().NoError(busy.Release(orderID))
	suite.Require().NoError(suite.repository.Update(ctx, busy))

	released, err := suite.repository.Get(ctx, registered.ID())
	suite.Require().NoError(err)
	suite.Equal(agent.Available, released.Availability())
	suite.Nil(released.ActiveOrderID())
}

func (suite *AgentRepositoryIntegrationTestSuite) TestUpdate_NonExistentAgent_ReturnsNotFoundError() {
	ctx := context.Background()

	ghost, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Ghost", time.Now())
	suite.Require().NoError(err)

	err = suite.repository.Update(ctx, ghost)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *AgentRepositoryIntegrationTestSuite) TestGetAllAvailable_OrdersByRegistration() {
	ctx := context.Background()

	later, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Later", time.Now())
	suite.Require().NoError(err)
	earlier, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Earlier", time.Now().Add(-time.Hour))
	suite.Require().NoError(err)
	offline, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Offline", time.Now().Add(-2*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(offline.GoOffline())

	suite.Require().NoError(suite.repository.Add(ctx, later))
	suite.Require().NoError(suite.repository.Add(ctx, earlier))
	suite.Require().NoError(suite.repository.Add(ctx, offline))

	available, err := suite.repository.GetAllAvailable(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(available, 2)
	suite.True(available[0].ID().IsEqual(earlier.ID()),
		"earliest registered agent should come first")
	suite.True(available[1].ID().IsEqual(later.ID()))
}

func (suite *AgentRepositoryIntegrationTestSuite) TestGetAllAvailable_NoAvailableAgents_ReturnsEmptySlice() {
	ctx := context.Background()

	offline, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Offline", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(offline.GoOffline())
	suite.Require().NoError(suite.repository.Add(ctx, offline))

	available, err := suite.repository.GetAllAvailable(ctx)

	suite.Require().NoError(err)
	suite.Empty(available)
}

func TestAgentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AgentRepositoryIntegrationTestSuite))
}
