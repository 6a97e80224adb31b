package services

import (
	"context"
	"encoding/json"
	"testing"

	"billingpanel/internal/jobs"
	"billingpanel/internal/models"
	"billingpanel/internal/repositories"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockOrderRepo *MockOrderRepository
	mockSubRepo   *MockSubscriptionRepository
	mockEnqueuer  *MockEnqueuer
	service       OrderService
	ctx           context.Context
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = &MockOrderRepository{}
	suite.mockSubRepo = &MockSubscriptionRepository{}
	suite.mockEnqueuer = &MockEnqueuer{}
	suite.service = NewOrderService(suite.mockOrderRepo, suite.mockSubRepo, suite.mockEnqueuer)
	suite.ctx = context.Background()

	suite.mockOrderRepo.Test(suite.T())
	suite.mockSubRepo.Test(suite.T())
	suite.mockEnqueuer.Test(suite.T())
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockSubRepo.AssertExpectations(suite.T())
	suite.mockEnqueuer.AssertExpectations(suite.T())
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) TestCreate_BackfillsFromSubscription() {
	subID := uuid.New()
	orgID := uuid.New()
	planID := uuid.New()
	interval := models.BillingIntervalYearly
	subscription := &models.Subscription{
		ID: subID, OrganizationID: orgID, PlanID: planID, BillingInterval: &interval,
	}

	suite.mockSubRepo.On("GetByID", suite.ctx, subID).Return(subscription, nil)
	suite.mockOrderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := suite.service.Create(suite.ctx, &CreateOrderRequest{SubscriptionID: &subID})

	suite.NoError(err)
	suite.Equal(orgID, *order.OrganizationID)
	suite.Equal(planID, *order.PlanID)
	suite.Equal(models.BillingIntervalYearly, *order.BillingInterval)
}

func (suite *OrderServiceTestSuite) TestCreate_BackfillDefaultsMonthlyInterval() {
	subID := uuid.New()
	subscription := &models.Subscription{
		ID: subID, OrganizationID: uuid.New(), PlanID: uuid.New(),
	}

	suite.mockSubRepo.On("GetByID", suite.ctx, subID).Return(subscription, nil)
	suite.mockOrderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := suite.service.Create(suite.ctx, &CreateOrderRequest{SubscriptionID: &subID})

	suite.NoError(err)
	suite.Equal(models.BillingIntervalMonthly, *order.BillingInterval)
}

func (suite *OrderServiceTestSuite) TestCreate_MissingSubscriptionIsAcceptedPartialFill() {
	subID := uuid.New()

	suite.mockSubRepo.On("GetByID", suite.ctx, subID).Return(nil, repositories.ErrNotFound)
	suite.mockOrderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := suite.service.Create(suite.ctx, &CreateOrderRequest{SubscriptionID: &subID})

	suite.NoError(err)
	suite.Nil(order.OrganizationID)
	suite.Nil(order.PlanID)
	suite.Equal(subID, *order.SubscriptionID)
}

func (suite *OrderServiceTestSuite) TestCreate_OneOfTwoPresentSkipsBackfill() {
	subID := uuid.New()
	orgID := uuid.New()

	suite.mockOrderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := suite.service.Create(suite.ctx, &CreateOrderRequest{
		SubscriptionID: &subID,
		OrganizationID: &orgID,
	})

	suite.NoError(err)
	suite.Equal(orgID, *order.OrganizationID)
	suite.Nil(order.PlanID)
	suite.Nil(order.BillingInterval)
	suite.mockSubRepo.AssertNotCalled(suite.T(), "GetByID")
}

func (suite *OrderServiceTestSuite) TestCreate_BothPresentNoLookup() {
	subID := uuid.New()
	orgID := uuid.New()
	planID := uuid.New()

	suite.mockOrderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := suite.service.Create(suite.ctx, &CreateOrderRequest{
		SubscriptionID: &subID,
		OrganizationID: &orgID,
		PlanID:         &planID,
	})

	suite.NoError(err)
	suite.Equal(orgID, *order.OrganizationID)
	suite.Equal(planID, *order.PlanID)
	suite.mockSubRepo.AssertNotCalled(suite.T(), "GetByID")
}

func (suite *OrderServiceTestSuite) TestCreate_SubscriptionLookupFailure() {
	subID := uuid.New()

	suite.mockSubRepo.On("GetByID", suite.ctx, subID).Return(nil, context.DeadlineExceeded)

	_, err := suite.service.Create(suite.ctx, &CreateOrderRequest{SubscriptionID: &subID})

	suite.Error(err)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *OrderServiceTestSuite) TestCreate_CheckoutSessionEnqueuesSync() {
	sessionID := "cs_test_123"

	suite.mockOrderRepo.On("Create", suite.ctx, mock.MatchedBy(func(order *models.Order) bool {
		return order.SessionStatus == models.SessionStatusPending
	})).Return(nil)
	suite.mockEnqueuer.On("EnqueueContext", suite.ctx, mock.MatchedBy(func(task *asynq.Task) bool {
		if task.Type() != jobs.TypeSessionSync {
			return false
		}
		var payload jobs.SessionSyncPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return false
		}
		return payload.CheckoutSessionID == sessionID
	})).Return(&asynq.TaskInfo{}, nil).Once()

	order, err := suite.service.Create(suite.ctx, &CreateOrderRequest{CheckoutSessionID: &sessionID})

	suite.NoError(err)
	suite.Equal(models.SessionStatusPending, order.SessionStatus)
}

func (suite *OrderServiceTestSuite) TestCreate_EnqueueFailureDoesNotFailCreation() {
	sessionID := "cs_test_456"

	suite.mockOrderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)
	suite.mockEnqueuer.On("EnqueueContext", suite.ctx, mock.Anything).
		Return(nil, asynq.ErrServerClosed)

	order, err := suite.service.Create(suite.ctx, &CreateOrderRequest{CheckoutSessionID: &sessionID})

	suite.NoError(err)
	suite.Equal(models.SessionStatusPending, order.SessionStatus)
}

func (suite *OrderServiceTestSuite) TestCreate_NoSessionStaysUnsynced() {
	suite.mockOrderRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := suite.service.Create(suite.ctx, &CreateOrderRequest{})

	suite.NoError(err)
	suite.Equal(models.SessionStatusNone, order.SessionStatus)
	suite.mockEnqueuer.AssertNotCalled(suite.T(), "EnqueueContext")
}

func (suite *OrderServiceTestSuite) TestGetByID_NotFound() {
	orderID := uuid.New()
	suite.mockOrderRepo.On("GetByID", suite.ctx, orderID).Return(nil, repositories.ErrNotFound)

	_, err := suite.service.GetByID(suite.ctx, orderID)

	suite.ErrorIs(err, repositories.ErrNotFound)
}
