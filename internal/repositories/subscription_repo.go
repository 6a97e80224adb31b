package repositories

import (
	"context"
	"errors"

	"billingpanel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Subscription, error)
}

type subscriptionRepo struct {
	db DB
}

func NewSubscriptionRepo(db DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

const subscriptionColumns = `id, organization_id, plan_id, name, type, starts_at, stripe_status, stripe_id, billing_interval, created_at, updated_at`

func (r *subscriptionRepo) Create(ctx context.Context, subscription *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, organization_id, plan_id, name, type, starts_at, stripe_status, stripe_id, billing_interval, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, subscription.ID, subscription.OrganizationID, subscription.PlanID,
		subscription.Name, subscription.Type, subscription.StartsAt, subscription.StripeStatus,
		subscription.StripeID, subscription.BillingInterval)
	return err
}

// GetByID returns ErrNotFound when the subscription does not exist so callers
// decide whether a missing reference is fatal.
func (r *subscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	subscription := &models.Subscription{}
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&subscription.ID, &subscription.OrganizationID, &subscription.PlanID,
		&subscription.Name, &subscription.Type, &subscription.StartsAt, &subscription.StripeStatus,
		&subscription.StripeID, &subscription.BillingInterval, &subscription.CreatedAt, &subscription.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return subscription, nil
}

func (r *subscriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE subscriptions SET stripe_status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) List(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscriptions []*models.Subscription
	for rows.Next() {
		subscription := &models.Subscription{}
		if err := rows.Scan(&subscription.ID, &subscription.OrganizationID, &subscription.PlanID,
			&subscription.Name, &subscription.Type, &subscription.StartsAt, &subscription.StripeStatus,
			&subscription.StripeID, &subscription.BillingInterval, &subscription.CreatedAt, &subscription.UpdatedAt); err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, rows.Err()
}
