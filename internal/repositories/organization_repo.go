package repositories

import (
	"context"
	"errors"

	"billingpanel/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, org *models.Organization) error
	List(ctx context.Context, limit, offset int) ([]*models.Organization, error)
	AttachUser(ctx context.Context, orgID, userID uuid.UUID, role string) error
}

type organizationRepo struct {
	db DB
}

func NewOrganizationRepo(db DB) OrganizationRepository {
	return &organizationRepo{db: db}
}

const organizationColumns = `id, name, slug, support_email, address_line1, address_line2, city, state, postal_code, country, tax_id, vat_country, taxable, avatar_key, status, created_at, updated_at`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	org := &models.Organization{}
	err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.SupportEmail, &org.AddressLine1, &org.AddressLine2,
		&org.City, &org.State, &org.PostalCode, &org.Country, &org.TaxID, &org.VATCountry,
		&org.Taxable, &org.AvatarKey, &org.Status, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return org, nil
}

func (r *organizationRepo) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (id, name, slug, support_email, address_line1, address_line2, city, state, postal_code, country, tax_id, vat_country, taxable, avatar_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, org.ID, org.Name, org.Slug, org.SupportEmail, org.AddressLine1, org.AddressLine2,
		org.City, org.State, org.PostalCode, org.Country, org.TaxID, org.VATCountry, org.Taxable, org.AvatarKey, org.Status)
	return err
}

func (r *organizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	return scanOrganization(r.db.QueryRow(ctx, query, id))
}

func (r *organizationRepo) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1`
	return scanOrganization(r.db.QueryRow(ctx, query, slug))
}

// ExistsBySlug reports whether another organization already holds slug.
// excludeID lets profile edits skip the record being edited.
func (r *organizationRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM organizations WHERE slug = $1 AND id <> $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *organizationRepo) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, slug = $2, support_email = $3, address_line1 = $4, address_line2 = $5, city = $6, state = $7,
		    postal_code = $8, country = $9, tax_id = $10, vat_country = $11, taxable = $12, avatar_key = $13, status = $14, updated_at = NOW()
		WHERE id = $15
	`
	_, err := r.db.Exec(ctx, query, org.Name, org.Slug, org.SupportEmail, org.AddressLine1, org.AddressLine2,
		org.City, org.State, org.PostalCode, org.Country, org.TaxID, org.VATCountry, org.Taxable, org.AvatarKey, org.Status, org.ID)
	return err
}

func (r *organizationRepo) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	query := `
		SELECT ` + organizationColumns + `
		FROM organizations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org := &models.Organization{}
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.SupportEmail, &org.AddressLine1, &org.AddressLine2,
			&org.City, &org.State, &org.PostalCode, &org.Country, &org.TaxID, &org.VATCountry,
			&org.Taxable, &org.AvatarKey, &org.Status, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// AttachUser creates the membership row linking userID to orgID.
func (r *organizationRepo) AttachUser(ctx context.Context, orgID, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO organization_users (organization_id, user_id, role, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (organization_id, user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, orgID, userID, role)
	return err
}
