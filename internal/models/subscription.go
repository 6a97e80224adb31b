package models

import (
	"time"

	"github.com/google/uuid"
)

// Stripe-style subscription statuses. New subscriptions always start out
// incomplete and move through the provider lifecycle via webhooks.
const (
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusActive     = "active"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusPaused     = "paused"
)

const (
	BillingIntervalMonthly = "monthly"
	BillingIntervalYearly  = "yearly"
)

type Subscription struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OrganizationID  uuid.UUID `json:"organization_id" db:"organization_id"`
	PlanID          uuid.UUID `json:"plan_id" db:"plan_id"`
	Name            string    `json:"name" db:"name"`
	Type            string    `json:"type" db:"type"`
	StartsAt        time.Time `json:"starts_at" db:"starts_at"`
	StripeStatus    string    `json:"stripe_status" db:"stripe_status"`
	StripeID        *string   `json:"stripe_id" db:"stripe_id"`
	BillingInterval *string   `json:"billing_interval" db:"billing_interval"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the subscription is currently active with the
// billing provider.
func (s *Subscription) IsActive() bool {
	return s.StripeStatus == SubscriptionStatusActive
}
