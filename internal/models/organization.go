package models

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	SupportEmail *string   `json:"support_email" db:"support_email"`
	AddressLine1 *string   `json:"address_line1" db:"address_line1"`
	AddressLine2 *string   `json:"address_line2" db:"address_line2"`
	City         *string   `json:"city" db:"city"`
	State        *string   `json:"state" db:"state"`
	PostalCode   *string   `json:"postal_code" db:"postal_code"`
	Country      *string   `json:"country" db:"country"`
	TaxID        *string   `json:"tax_id" db:"tax_id"`
	VATCountry   *string   `json:"vat_country" db:"vat_country"`
	Taxable      bool      `json:"taxable" db:"taxable"`
	AvatarKey    *string   `json:"avatar_key" db:"avatar_key"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Membership links a user to an organization with a role.
type Membership struct {
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Role           string    `json:"role" db:"role"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
