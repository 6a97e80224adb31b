package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"billingpanel/internal/common"
	"billingpanel/internal/jobs"
	"billingpanel/internal/models"
	"billingpanel/internal/repositories"

	"github.com/google/uuid"
)

type OrderService interface {
	Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error)
	GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Order, error)
}

type orderService struct {
	orderRepo        repositories.OrderRepository
	subscriptionRepo repositories.SubscriptionRepository
	enqueuer         jobs.Enqueuer
}

func NewOrderService(orderRepo repositories.OrderRepository, subscriptionRepo repositories.SubscriptionRepository, enqueuer jobs.Enqueuer) OrderService {
	return &orderService{
		orderRepo:        orderRepo,
		subscriptionRepo: subscriptionRepo,
		enqueuer:         enqueuer,
	}
}

type CreateOrderRequest struct {
	OrganizationID    *uuid.UUID `json:"organization_id"`
	PlanID            *uuid.UUID `json:"plan_id"`
	SubscriptionID    *uuid.UUID `json:"subscription_id"`
	BillingInterval   *string    `json:"billing_interval"`
	CheckoutSessionID *string    `json:"checkout_session_id"`
}

// Create reconciles and persists a new order. When a subscription is
// referenced and BOTH organization and plan are absent, the missing fields
// are back-filled from that subscription; its billing interval defaults to
// monthly when unset. A referenced subscription that does not exist is an
// accepted partial fill: the order persists with the references left null.
// Supplying exactly one of organization/plan skips reconciliation entirely.
func (s *orderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	order := &models.Order{
		ID:                uuid.New(),
		OrganizationID:    req.OrganizationID,
		PlanID:            req.PlanID,
		SubscriptionID:    req.SubscriptionID,
		BillingInterval:   req.BillingInterval,
		CheckoutSessionID: req.CheckoutSessionID,
		SessionStatus:     models.SessionStatusNone,
	}

	if req.SubscriptionID != nil {
		switch {
		case order.OrganizationID == nil && order.PlanID == nil:
			subscription, err := s.subscriptionRepo.GetByID(ctx, *req.SubscriptionID)
			switch {
			case err == nil:
				order.OrganizationID = &subscription.OrganizationID
				order.PlanID = &subscription.PlanID
				interval := models.BillingIntervalMonthly
				if subscription.BillingInterval != nil && *subscription.BillingInterval != "" {
					interval = *subscription.BillingInterval
				}
				order.BillingInterval = &interval
			case errors.Is(err, repositories.ErrNotFound):
				log.Printf("WARN: order %s references missing subscription %s; persisting without back-fill", order.ID, *req.SubscriptionID)
			default:
				return nil, fmt.Errorf("failed to look up subscription %s: %w", *req.SubscriptionID, err)
			}
		case order.OrganizationID == nil || order.PlanID == nil:
			// Only one of the two supplied: treated as a deliberate partial
			// override, no reconciliation.
			log.Printf("WARN: order %s references subscription %s but only one of organization/plan is set; skipping back-fill", order.ID, *req.SubscriptionID)
		}
	}

	if order.CheckoutSessionID != nil && *order.CheckoutSessionID != "" {
		order.SessionStatus = models.SessionStatusPending
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if common.IsUniqueViolation(err) {
			return nil, common.NewValidationError("order", "order already exists")
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Second explicit step after persistence: hand the checkout session to
	// the sync queue. Enqueue failure never fails the creation; the sweep
	// job picks stragglers up later.
	if order.SessionStatus == models.SessionStatusPending {
		s.enqueueSessionSync(ctx, order)
	}

	return order, nil
}

func (s *orderService) enqueueSessionSync(ctx context.Context, order *models.Order) {
	task, err := jobs.NewSessionSyncTask(jobs.SessionSyncPayload{
		OrderID:           order.ID,
		CheckoutSessionID: *order.CheckoutSessionID,
	})
	if err != nil {
		log.Printf("WARN: failed to build session sync task for order %s: %v", order.ID, err)
		return
	}
	if _, err := s.enqueuer.EnqueueContext(ctx, task); err != nil {
		log.Printf("WARN: failed to enqueue session sync for order %s: %v", order.ID, err)
	}
}

func (s *orderService) GetByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, orderID)
}

func (s *orderService) List(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.orderRepo.List(ctx, organizationID, limit, offset)
}
