package repositories

import (
	"context"
	"errors"
	"time"

	"billingpanel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListPendingSessions(ctx context.Context, cutoff time.Time, limit int) ([]*models.Order, error)
	UpdateSessionStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, organization_id, plan_id, subscription_id, billing_interval, checkout_session_id, session_status, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.OrganizationID, &order.PlanID, &order.SubscriptionID,
		&order.BillingInterval, &order.CheckoutSessionID, &order.SessionStatus, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, organization_id, plan_id, subscription_id, billing_interval, checkout_session_id, session_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.OrganizationID, order.PlanID, order.SubscriptionID,
		order.BillingInterval, order.CheckoutSessionID, order.SessionStatus)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepo) List(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListPendingSessions feeds the background sweep: orders whose checkout
// session was never confirmed before cutoff.
func (r *orderRepo) ListPendingSessions(ctx context.Context, cutoff time.Time, limit int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE checkout_session_id IS NOT NULL AND session_status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, models.SessionStatusPending, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepo) UpdateSessionStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET session_status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.OrganizationID, &order.PlanID, &order.SubscriptionID,
			&order.BillingInterval, &order.CheckoutSessionID, &order.SessionStatus, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
