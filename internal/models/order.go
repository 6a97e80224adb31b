package models

import (
	"time"

	"github.com/google/uuid"
)

// Checkout session sync states for orders created with an external payment
// session identifier attached.
const (
	SessionStatusNone    = "none"
	SessionStatusPending = "pending"
	SessionStatusSynced  = "synced"
)

type Order struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	OrganizationID    *uuid.UUID `json:"organization_id" db:"organization_id"`
	PlanID            *uuid.UUID `json:"plan_id" db:"plan_id"`
	SubscriptionID    *uuid.UUID `json:"subscription_id" db:"subscription_id"`
	BillingInterval   *string    `json:"billing_interval" db:"billing_interval"`
	CheckoutSessionID *string    `json:"checkout_session_id" db:"checkout_session_id"`
	SessionStatus     string     `json:"session_status" db:"session_status"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}
