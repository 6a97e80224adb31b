package repositories

import (
	"context"
	"errors"

	"billingpanel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PlanRepository is read-only: plans are seeded out of band.
type PlanRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	List(ctx context.Context) ([]*models.Plan, error)
}

type planRepo struct {
	db DB
}

func NewPlanRepo(db DB) PlanRepository {
	return &planRepo{db: db}
}

const planColumns = `id, code, name, description, amount_monthly, amount_yearly, currency, created_at, updated_at`

func (r *planRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	plan := &models.Plan{}
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&plan.ID, &plan.Code, &plan.Name, &plan.Description,
		&plan.AmountMonthly, &plan.AmountYearly, &plan.Currency, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (r *planRepo) List(ctx context.Context) ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY amount_monthly ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		plan := &models.Plan{}
		if err := rows.Scan(&plan.ID, &plan.Code, &plan.Name, &plan.Description,
			&plan.AmountMonthly, &plan.AmountYearly, &plan.Currency, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
