package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"billingpanel/internal/caching"
	"billingpanel/internal/common"
	"billingpanel/internal/models"
	"billingpanel/internal/repositories"

	"github.com/google/uuid"
)

const organizationCacheTTL = 10 * time.Minute

type OrganizationService interface {
	Register(ctx context.Context, req *RegisterOrganizationRequest) (*models.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	UpdateProfile(ctx context.Context, req *UpdateOrganizationRequest) (*models.Organization, error)
	UploadAvatar(ctx context.Context, orgID uuid.UUID, filename, contentType string, size int64, reader io.Reader) (*models.Organization, error)
	GetAvatarURL(ctx context.Context, orgID uuid.UUID) (string, error)
	List(ctx context.Context, limit, offset int) ([]*models.Organization, error)
}

type organizationService struct {
	orgRepo  repositories.OrganizationRepository
	storage  StorageService
	cacheSvc caching.CacheService
}

func NewOrganizationService(orgRepo repositories.OrganizationRepository, storage StorageService, cacheSvc caching.CacheService) OrganizationService {
	return &organizationService{orgRepo: orgRepo, storage: storage, cacheSvc: cacheSvc}
}

// RegisterOrganizationRequest carries the registration form fields. Status is
// deliberately absent: new organizations are always active.
type RegisterOrganizationRequest struct {
	Name         string `json:"name" validate:"required"`
	Slug         string `json:"slug"`
	SupportEmail string `json:"support_email"`
	Taxable      *bool  `json:"taxable"`
}

// UpdateOrganizationRequest carries the profile edit form, grouped the way
// the panel renders it: basic info, address, tax.
type UpdateOrganizationRequest struct {
	ID           uuid.UUID
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	SupportEmail *string `json:"support_email"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`
	TaxID        *string `json:"tax_id"`
	VATCountry   *string `json:"vat_country"`
	Taxable      *bool   `json:"taxable"`
}

// Register creates a new organization and attaches the acting user as its
// first member. Status is forced to "active" regardless of client input; slug
// uniqueness under concurrent registration is enforced by the storage
// constraint, surfaced here as a validation error for the losing writer.
func (s *organizationService) Register(ctx context.Context, req *RegisterOrganizationRequest) (*models.Organization, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if err := common.ValidateMaxLength(req.Name, "name", common.MaxFieldLength); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = common.Slugify(req.Name)
	}
	if err := common.ValidateRequiredString(slug, "slug"); err != nil {
		return nil, err
	}
	if err := common.ValidateMaxLength(slug, "slug", common.MaxFieldLength); err != nil {
		return nil, err
	}
	if slug != common.Slugify(slug) {
		return nil, common.NewValidationError("slug", "slug must be URL-safe")
	}

	if err := common.ValidateEmail(req.SupportEmail, "support_email"); err != nil {
		return nil, err
	}
	if err := common.ValidateMaxLength(req.SupportEmail, "support_email", common.MaxFieldLength); err != nil {
		return nil, err
	}

	taxable := true
	if req.Taxable != nil {
		taxable = *req.Taxable
	}

	org := &models.Organization{
		ID:           uuid.New(),
		Name:         req.Name,
		Slug:         slug,
		SupportEmail: common.StringPtr(req.SupportEmail),
		Taxable:      taxable,
		Status:       "active",
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		if common.IsUniqueViolation(err) {
			return nil, common.NewValidationError("slug", "slug is already taken")
		}
		return nil, err
	}

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	if err := s.orgRepo.AttachUser(ctx, org.ID, userID, "owner"); err != nil {
		return nil, fmt.Errorf("failed to attach user to organization: %w", err)
	}

	return org, nil
}

func (s *organizationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	if cached, err := s.cacheSvc.GetOrganization(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetOrganization(ctx, org, organizationCacheTTL); err != nil {
		log.Printf("WARN: failed to cache organization %s: %v", org.ID, err)
	}
	return org, nil
}

func (s *organizationService) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	if slug == "" {
		return nil, common.NewValidationError("slug", "slug is required")
	}
	return s.orgRepo.GetBySlug(ctx, slug)
}

// UpdateProfile mutates an existing organization. The slug re-derives from
// the name only while it still matches the old derived value (i.e. it was
// never manually overridden); the uniqueness check excludes the record being
// edited.
func (s *organizationService) UpdateProfile(ctx context.Context, req *UpdateOrganizationRequest) (*models.Organization, error) {
	existing, err := s.orgRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	slugWasDerived := existing.Slug == common.Slugify(existing.Name)

	if req.Name != nil {
		if err := common.ValidateRequiredString(*req.Name, "name"); err != nil {
			return nil, err
		}
		if err := common.ValidateMaxLength(*req.Name, "name", common.MaxFieldLength); err != nil {
			return nil, err
		}
		existing.Name = *req.Name
	}

	switch {
	case req.Slug != nil && *req.Slug != "":
		existing.Slug = *req.Slug
	case req.Name != nil && slugWasDerived:
		existing.Slug = common.Slugify(*req.Name)
	}
	if existing.Slug != common.Slugify(existing.Slug) {
		return nil, common.NewValidationError("slug", "slug must be URL-safe")
	}
	if err := common.ValidateMaxLength(existing.Slug, "slug", common.MaxFieldLength); err != nil {
		return nil, err
	}

	taken, err := s.orgRepo.ExistsBySlug(ctx, existing.Slug, existing.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.NewValidationError("slug", "slug is already taken")
	}

	if req.SupportEmail != nil {
		if err := common.ValidateEmail(*req.SupportEmail, "support_email"); err != nil {
			return nil, err
		}
		if err := common.ValidateMaxLength(*req.SupportEmail, "support_email", common.MaxFieldLength); err != nil {
			return nil, err
		}
		existing.SupportEmail = common.StringPtr(*req.SupportEmail)
	}

	if req.AddressLine1 != nil {
		existing.AddressLine1 = req.AddressLine1
	}
	if req.AddressLine2 != nil {
		existing.AddressLine2 = req.AddressLine2
	}
	if req.City != nil {
		existing.City = req.City
	}
	if req.State != nil {
		existing.State = req.State
	}
	if req.PostalCode != nil {
		existing.PostalCode = req.PostalCode
	}
	if req.Country != nil {
		existing.Country = req.Country
	}
	if req.TaxID != nil {
		existing.TaxID = req.TaxID
	}
	if req.VATCountry != nil {
		existing.VATCountry = req.VATCountry
	}
	if req.Taxable != nil {
		existing.Taxable = *req.Taxable
	}

	if err := s.orgRepo.Update(ctx, existing); err != nil {
		if common.IsUniqueViolation(err) {
			return nil, common.NewValidationError("slug", "slug is already taken")
		}
		return nil, err
	}

	if err := s.cacheSvc.DeleteOrganization(ctx, existing.ID); err != nil {
		log.Printf("WARN: failed to invalidate organization cache %s: %v", existing.ID, err)
	}
	return existing, nil
}

// UploadAvatar stores the avatar under the organization's namespace and
// records the object key on the profile.
func (s *organizationService) UploadAvatar(ctx context.Context, orgID uuid.UUID, filename, contentType string, size int64, reader io.Reader) (*models.Organization, error) {
	existing, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	objectKey, err := s.storage.UploadAvatar(ctx, orgID, filename, contentType, size, reader)
	if err != nil {
		return nil, err
	}

	existing.AvatarKey = &objectKey
	if err := s.orgRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	if err := s.cacheSvc.DeleteOrganization(ctx, orgID); err != nil {
		log.Printf("WARN: failed to invalidate organization cache %s: %v", orgID, err)
	}
	return existing, nil
}

// GetAvatarURL returns a short-lived download link for the organization's
// avatar. Organizations without an avatar report not found.
func (s *organizationService) GetAvatarURL(ctx context.Context, orgID uuid.UUID) (string, error) {
	org, err := s.GetByID(ctx, orgID)
	if err != nil {
		return "", err
	}
	if org.AvatarKey == nil || *org.AvatarKey == "" {
		return "", repositories.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, *org.AvatarKey, 15*time.Minute)
}

func (s *organizationService) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.orgRepo.List(ctx, limit, offset)
}
