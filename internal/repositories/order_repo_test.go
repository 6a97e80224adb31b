package repositories

import (
	"context"
	"testing"
	"time"

	"billingpanel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrderRepository
	orderID uuid.UUID
	orgID   uuid.UUID
	context context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.orderID = uuid.New()
	suite.orgID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) TestCreate_Success() {
	sessionID := "cs_test_1"
	order := &models.Order{
		ID:                suite.orderID,
		OrganizationID:    &suite.orgID,
		CheckoutSessionID: &sessionID,
		SessionStatus:     models.SessionStatusPending,
	}

	suite.mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.ID, order.OrganizationID, order.PlanID, order.SubscriptionID,
			order.BillingInterval, order.CheckoutSessionID, order.SessionStatus).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, order)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id`).
		WithArgs(suite.orderID).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, suite.orderID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *OrderRepoTestSuite) TestListPendingSessions() {
	cutoff := time.Now().Add(-time.Hour)
	sessionID := "cs_stale"
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "organization_id", "plan_id", "subscription_id",
		"billing_interval", "checkout_session_id", "session_status", "created_at", "updated_at"}).
		AddRow(suite.orderID, &suite.orgID, (*uuid.UUID)(nil), (*uuid.UUID)(nil),
			(*string)(nil), &sessionID, models.SessionStatusPending, now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM orders`).
		WithArgs(models.SessionStatusPending, cutoff, 50).
		WillReturnRows(rows)

	orders, err := suite.repo.ListPendingSessions(suite.context, cutoff, 50)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 1)
	assert.Equal(suite.T(), "cs_stale", *orders[0].CheckoutSessionID)
}

func (suite *OrderRepoTestSuite) TestUpdateSessionStatus_Success() {
	suite.mock.ExpectExec(`UPDATE orders SET session_status`).
		WithArgs(models.SessionStatusSynced, suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateSessionStatus(suite.context, suite.orderID, models.SessionStatusSynced)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestUpdateSessionStatus_NotFound() {
	suite.mock.ExpectExec(`UPDATE orders SET session_status`).
		WithArgs(models.SessionStatusSynced, suite.orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateSessionStatus(suite.context, suite.orderID, models.SessionStatusSynced)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}
