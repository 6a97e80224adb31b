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

type SubscriptionRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    SubscriptionRepository
	orgID   uuid.UUID
	subID   uuid.UUID
	planID  uuid.UUID
	context context.Context
}

func (suite *SubscriptionRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewSubscriptionRepo(mock)
	suite.orgID = uuid.New()
	suite.subID = uuid.New()
	suite.planID = uuid.New()
	suite.context = context.Background()
}

func (suite *SubscriptionRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestSubscriptionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionRepoTestSuite))
}

func (suite *SubscriptionRepoTestSuite) TestCreate_Success() {
	subscription := &models.Subscription{
		ID:             suite.subID,
		OrganizationID: suite.orgID,
		PlanID:         suite.planID,
		Name:           "default",
		Type:           "regular",
		StartsAt:       time.Now(),
		StripeStatus:   models.SubscriptionStatusIncomplete,
	}

	suite.mock.ExpectExec(`INSERT INTO subscriptions`).
		WithArgs(subscription.ID, subscription.OrganizationID, subscription.PlanID,
			subscription.Name, subscription.Type, subscription.StartsAt, subscription.StripeStatus,
			subscription.StripeID, subscription.BillingInterval).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, subscription)
	assert.NoError(suite.T(), err)
}

func (suite *SubscriptionRepoTestSuite) TestGetByID_Found() {
	now := time.Now()
	interval := models.BillingIntervalYearly

	rows := pgxmock.NewRows([]string{
		"id", "organization_id", "plan_id", "name", "type", "starts_at",
		"stripe_status", "stripe_id", "billing_interval", "created_at", "updated_at",
	}).AddRow(suite.subID, suite.orgID, suite.planID, "default", "regular", now,
		models.SubscriptionStatusActive, (*string)(nil), &interval, now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM subscriptions WHERE id = \$1`).
		WithArgs(suite.subID).
		WillReturnRows(rows)

	subscription, err := suite.repo.GetByID(suite.context, suite.subID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.orgID, subscription.OrganizationID)
	assert.Equal(suite.T(), suite.planID, subscription.PlanID)
	assert.True(suite.T(), subscription.IsActive())
	assert.Equal(suite.T(), models.BillingIntervalYearly, *subscription.BillingInterval)
}

func (suite *SubscriptionRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM subscriptions WHERE id = \$1`).
		WithArgs(suite.subID).
		WillReturnError(pgx.ErrNoRows)

	subscription, err := suite.repo.GetByID(suite.context, suite.subID)
	assert.Nil(suite.T(), subscription)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *SubscriptionRepoTestSuite) TestUpdateStatus_NotFound() {
	suite.mock.ExpectExec(`UPDATE subscriptions SET stripe_status = \$1`).
		WithArgs(models.SubscriptionStatusActive, suite.subID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateStatus(suite.context, suite.subID, models.SubscriptionStatusActive)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}
