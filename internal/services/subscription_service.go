package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"billingpanel/internal/caching"
	"billingpanel/internal/common"
	"billingpanel/internal/jobs"
	"billingpanel/internal/models"
	"billingpanel/internal/repositories"

	"github.com/google/uuid"
)

const subscriptionCacheTTL = 5 * time.Minute

// SubscriptionService handles subscription-related business logic. One shared
// instance is constructed at startup and injected into every handler.
type SubscriptionService interface {
	Create(ctx context.Context, req *CreateSubscriptionRequest) (*models.Subscription, error)
	GetByID(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error)
	List(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Subscription, error)
	HandleStatusTransition(ctx context.Context, subscriptionID uuid.UUID, newStatus string) error
	SendActivationNotice(ctx context.Context, subscriptionID uuid.UUID, recipientEmail, recipientName string) error
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	orgRepo          repositories.OrganizationRepository
	planRepo         repositories.PlanRepository
	enqueuer         jobs.Enqueuer
	cacheSvc         caching.CacheService
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	orgRepo repositories.OrganizationRepository,
	planRepo repositories.PlanRepository,
	enqueuer jobs.Enqueuer,
	cacheSvc caching.CacheService,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		orgRepo:          orgRepo,
		planRepo:         planRepo,
		enqueuer:         enqueuer,
		cacheSvc:         cacheSvc,
	}
}

// CreateSubscriptionRequest carries the client-chosen fields. Name, Type,
// StartsAt and StripeStatus are accepted but never honored; they are always
// overwritten server side.
type CreateSubscriptionRequest struct {
	OrganizationID  uuid.UUID `json:"organization_id"`
	PlanID          uuid.UUID `json:"plan_id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	StripeStatus    string    `json:"stripe_status"`
	StripeID        *string   `json:"stripe_id"`
	BillingInterval *string   `json:"billing_interval"`
}

// Create normalizes and persists a new subscription. The four normalized
// fields are never client-controlled: name="default", type="regular",
// starts_at=now, stripe_status="incomplete".
func (s *subscriptionService) Create(ctx context.Context, req *CreateSubscriptionRequest) (*models.Subscription, error) {
	if req.OrganizationID == uuid.Nil {
		return nil, common.NewValidationError("organization_id", "organization_id is required")
	}
	if req.PlanID == uuid.Nil {
		return nil, common.NewValidationError("plan_id", "plan_id is required")
	}

	if _, err := s.orgRepo.GetByID(ctx, req.OrganizationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewValidationError("organization_id", "organization does not exist")
		}
		return nil, err
	}
	if _, err := s.planRepo.GetByID(ctx, req.PlanID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewValidationError("plan_id", "plan does not exist")
		}
		return nil, err
	}

	// Observability hook: capture the full submitted field set right before
	// creation. Not behavior-affecting.
	log.Printf("DEBUG: creating subscription: org=%s plan=%s name=%q type=%q stripe_status=%q interval=%v",
		req.OrganizationID, req.PlanID, req.Name, req.Type, req.StripeStatus, common.SafeString(req.BillingInterval))

	subscription := &models.Subscription{
		ID:              uuid.New(),
		OrganizationID:  req.OrganizationID,
		PlanID:          req.PlanID,
		Name:            "default",
		Type:            "regular",
		StartsAt:        time.Now(),
		StripeStatus:    models.SubscriptionStatusIncomplete,
		StripeID:        req.StripeID,
		BillingInterval: req.BillingInterval,
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return subscription, nil
}

func (s *subscriptionService) GetByID(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error) {
	if cached, err := s.cacheSvc.GetSubscription(ctx, subscriptionID); err == nil && cached != nil {
		return cached, nil
	}

	subscription, err := s.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetSubscription(ctx, subscription, subscriptionCacheTTL); err != nil {
		log.Printf("WARN: failed to cache subscription %s: %v", subscription.ID, err)
	}
	return subscription, nil
}

func (s *subscriptionService) List(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Subscription, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.subscriptionRepo.List(ctx, organizationID, limit, offset)
}

// HandleStatusTransition applies a provider lifecycle status change. On the
// transition into "active" the activation email is queued exactly once; a
// subscription already active stays silent.
func (s *subscriptionService) HandleStatusTransition(ctx context.Context, subscriptionID uuid.UUID, newStatus string) error {
	subscription, err := s.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}

	wasActive := subscription.IsActive()
	if err := s.subscriptionRepo.UpdateStatus(ctx, subscriptionID, newStatus); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteSubscription(ctx, subscriptionID); err != nil {
		log.Printf("WARN: failed to invalidate subscription cache %s: %v", subscriptionID, err)
	}

	if newStatus != models.SubscriptionStatusActive || wasActive {
		return nil
	}

	org, err := s.orgRepo.GetByID(ctx, subscription.OrganizationID)
	if err != nil {
		log.Printf("WARN: subscription %s activated but organization lookup failed: %v", subscriptionID, err)
		return nil
	}
	if org.SupportEmail == nil || *org.SupportEmail == "" {
		log.Printf("WARN: subscription %s activated but organization %s has no support email; skipping notification", subscriptionID, org.ID)
		return nil
	}

	// Dispatch is out of band; enqueue failures are logged, never surfaced
	// to the webhook caller.
	if err := s.SendActivationNotice(ctx, subscriptionID, *org.SupportEmail, org.Name); err != nil {
		log.Printf("WARN: failed to enqueue activation email for subscription %s: %v", subscriptionID, err)
	}
	return nil
}

// SendActivationNotice queues the activation email for a subscription.
// Delivery retries belong to the queue, not to this service.
func (s *subscriptionService) SendActivationNotice(ctx context.Context, subscriptionID uuid.UUID, recipientEmail, recipientName string) error {
	subscription, err := s.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	plan, err := s.planRepo.GetByID(ctx, subscription.PlanID)
	if err != nil {
		return fmt.Errorf("failed to resolve plan for subscription %s: %w", subscriptionID, err)
	}

	task, err := jobs.NewActivationEmailTask(jobs.ActivationEmailPayload{
		SubscriptionID: subscription.ID,
		OrganizationID: subscription.OrganizationID,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		PlanName:       plan.Name,
	})
	if err != nil {
		return err
	}

	if _, err := s.enqueuer.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue activation email: %w", err)
	}
	return nil
}
