package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
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

// OrderRepositoryIntegrationTestSuite verifies order persistence against a
// real PostgreSQL instance, including the version compare-and-swap and the
// transition log round trip.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &orderrepo.TransitionDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders CASCADE").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	placed := suite.placeOrder()
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	retrieved, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)

	suite.True(retrieved.ID().IsEqual(placed.ID()))
	suite.True(retrieved.CustomerID().IsEqual(placed.CustomerID()))
	suite.True(retrieved.RestaurantID().IsEqual(placed.RestaurantID()))
	suite.Equal(order.Placed, retrieved.Status())
	suite.Equal("13.00", retrieved.Total().String())
	suite.Len(retrieved.Items(), 2)
	suite.Empty(retrieved.Transitions())
	suite.Equal(1, retrieved.Version())
	suite.Nil(retrieved.AgentID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsTransitionAndAdvancesVersion() {
	ctx := context.Background()

	placed := suite.placeOrder()
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	owner, err := actor.NewActor(actor.RestaurantOwner, placed.RestaurantID())
	suite.Require().NoError(err)
	suite.Require().NoError(placed.TransitionTo(order.Accepted, owner, time.Now()))

	suite.Require().NoError(suite.repository.Update(ctx, placed))

	retrieved, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)

	suite.Equal(order.Accepted, retrieved.Status())
	suite.Equal(2, retrieved.Version())
	suite.Require().Len(retrieved.Transitions(), 1)
	suite.Equal(order.Placed, retrieved.Transitions()[0].From())
	suite.Equal(order.Accepted, retrieved.Transitions()[0].To())
	suite.Equal(actor.RestaurantOwner, retrieved.Transitions()[0].Role())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsVersionError() {
	ctx := context.Background()

	placed := suite.placeOrder()
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	owner, err := actor.NewActor(actor.RestaurantOwner, placed.RestaurantID())
	suite.Require().NoError(err)
	suite.Require().NoError(placed.TransitionTo(order.Accepted, owner, time.Now()))

	// First writer wins and moves the row to version 2.
	suite.Require().NoError(suite.repository.Update(ctx, placed))

	// The same in-memory aggregate still carries version 1: a second update
	// is a stale write and must lose the compare-and-swap.
	err = suite.repository.Update(ctx, placed)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsVersionError() {
	ctx := context.Background()

	err := suite.repository.Update(ctx, suite.placeOrder())

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetFirstInAcceptedStatus_ReturnsOldestUnassigned() {
	ctx := context.Background()

	first := suite.placeAndAccept(ctx, time.Now().Add(-2*time.Hour))
	second := suite.placeAndAccept(ctx, time.Now().Add(-time.Hour))
	stillPlaced := suite.placeOrder()
	suite.Require().NoError(suite.repository.Add(ctx, stillPlaced))

	retrieved, err := suite.repository.GetFirstInAcceptedStatus(ctx)
	suite.Require().NoError(err)

	suite.True(retrieved.ID().IsEqual(first.ID()),
		"oldest accepted order should be served first")
	suite.False(retrieved.ID().IsEqual(second.ID()))
	suite.Equal(order.Accepted, retrieved.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetFirstInAcceptedStatus_SkipsAssignedOrders() {
	ctx := context.Background()

	accepted := suite.placeAndAccept(ctx, time.Now().Add(-2*time.Hour))

	// Reload to pick up the committed version before the next write.
	assigned, err := suite.repository.Get(ctx, accepted.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(assigned.AssignAgent(kernel.NewUUID(), actor.SystemActor(), time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, assigned))

	waiting := suite.placeAndAccept(ctx, time.Now().Add(-time.Hour))

	retrieved, err := suite.repository.GetFirstInAcceptedStatus(ctx)
	suite.Require().NoError(err)

	suite.True(retrieved.ID().IsEqual(waiting.ID()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetFirstInAcceptedStatus_NoAcceptedOrders_ReturnsNotFoundError() {
	ctx := context.Background()

	placed := suite.placeOrder()
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	retrieved, err := suite.repository.GetFirstInAcceptedStatus(ctx)

	suite.Nil(retrieved)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// placeOrder builds a fresh order of 2 x 5.00 + 1 x 3.00.
func (suite *OrderRepositoryIntegrationTestSuite) placeOrder() *order.Order {
	price5, err := kernel.MoneyFromString("5.00")
	suite.Require().NoError(err)
	price3, err := kernel.MoneyFromString("3.00")
	suite.Require().NoError(err)

	itemA, err := order.NewItem(kernel.NewUUID(), 2, price5)
	suite.Require().NoError(err)
	itemB, err := order.NewItem(kernel.NewUUID(), 1, price3)
	suite.Require().NoError(err)

	placed, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.Item{itemA, itemB}, time.Now())
	suite.Require().NoError(err)
	placed.ClearEvents()

	return placed
}

// placeAndAccept persists an accepted order created at the given time.
func (suite *OrderRepositoryIntegrationTestSuite) placeAndAccept(
	ctx context.Context, createdAt time.Time,
) *order.Order {
	price, err := kernel.MoneyFromString("5.00")
	suite.Require().NoError(err)
	item, err := order.NewItem(kernel.NewUUID(), 1, price)
	suite.Require().NoError(err)

	placed, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.Item{item}, createdAt)
	suite.Require().NoError(err)
	placed.ClearEvents()
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	owner, err := actor.NewActor(actor.RestaurantOwner, placed.RestaurantID())
	suite.Require().NoError(err)
	suite.Require().NoError(placed.TransitionTo(order.Accepted, owner, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, placed))

	return placed
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
