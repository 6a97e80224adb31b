package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is read-only from this service's perspective; rows are seeded out of
// band and referenced by subscriptions and orders.
type Plan struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Code          string    `json:"code" db:"code"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description" db:"description"`
	AmountMonthly float64   `json:"amount_monthly" db:"amount_monthly"`
	AmountYearly  float64   `json:"amount_yearly" db:"amount_yearly"`
	Currency      string    `json:"currency" db:"currency"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
