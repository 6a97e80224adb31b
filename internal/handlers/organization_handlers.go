package handlers

import (
	"net/http"

	"billingpanel/internal/common"
	"billingpanel/internal/repositories"
	"billingpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// OrganizationHandlers handles organization-related HTTP requests
type OrganizationHandlers struct {
	orgService services.OrganizationService
	userRepo   repositories.UserRepository
}

func NewOrganizationHandlers(orgService services.OrganizationService, userRepo repositories.UserRepository) *OrganizationHandlers {
	return &OrganizationHandlers{orgService: orgService, userRepo: userRepo}
}

// Register handles POST /organizations — the tenant registration flow.
func (h *OrganizationHandlers) Register(c echo.Context) error {
	var req services.RegisterOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	org, err := h.orgService.Register(c.Request().Context(), &req)
	if err != nil {
		return serviceError(c, err, "organization")
	}
	return c.JSON(http.StatusCreated, org)
}

// GetOrganization handles GET /organizations/:id
func (h *OrganizationHandlers) GetOrganization(c echo.Context) error {
	orgID, err := common.ValidateUUID(c.Param("id"), "organization id")
	if err != nil {
		return serviceError(c, err, "organization")
	}

	org, err := h.orgService.GetByID(c.Request().Context(), orgID)
	if err != nil {
		return serviceError(c, err, "organization")
	}
	return c.JSON(http.StatusOK, org)
}

// ListOrganizationsRequest represents query parameters for listing
type ListOrganizationsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListOrganizations handles GET /organizations
func (h *OrganizationHandlers) ListOrganizations(c echo.Context) error {
	var req ListOrganizationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	orgs, err := h.orgService.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return serviceError(c, err, "organizations")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"organizations": orgs,
	})
}

// UpdateProfile handles PUT /organizations/:id — the profile edit flow.
func (h *OrganizationHandlers) UpdateProfile(c echo.Context) error {
	orgID, err := common.ValidateUUID(c.Param("id"), "organization id")
	if err != nil {
		return serviceError(c, err, "organization")
	}

	var req services.UpdateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.ID = orgID

	org, err := h.orgService.UpdateProfile(c.Request().Context(), &req)
	if err != nil {
		return serviceError(c, err, "organization")
	}
	return c.JSON(http.StatusOK, org)
}

// UploadAvatar handles POST /organizations/:id/avatar. Multipart image
// upload, 1024 KB cap enforced in the service.
func (h *OrganizationHandlers) UploadAvatar(c echo.Context) error {
	orgID, err := common.ValidateUUID(c.Param("id"), "organization id")
	if err != nil {
		return serviceError(c, err, "organization")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return common.SendValidationError(c, "avatar", "avatar file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	org, err := h.orgService.UploadAvatar(c.Request().Context(), orgID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		return serviceError(c, err, "organization")
	}
	return c.JSON(http.StatusOK, org)
}

// GetAvatarURL handles GET /organizations/:id/avatar
func (h *OrganizationHandlers) GetAvatarURL(c echo.Context) error {
	orgID, err := common.ValidateUUID(c.Param("id"), "organization id")
	if err != nil {
		return serviceError(c, err, "organization")
	}

	url, err := h.orgService.GetAvatarURL(c.Request().Context(), orgID)
	if err != nil {
		return serviceError(c, err, "avatar")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// ListMembers handles GET /organizations/:id/members
func (h *OrganizationHandlers) ListMembers(c echo.Context) error {
	orgID, err := common.ValidateUUID(c.Param("id"), "organization id")
	if err != nil {
		return serviceError(c, err, "organization")
	}

	limit, offset := common.ValidatePaginationParams(
		intQueryParam(c, "limit"), intQueryParam(c, "offset"))

	members, err := h.userRepo.ListByOrganization(c.Request().Context(), orgID, limit, offset)
	if err != nil {
		return serviceError(c, err, "members")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": members,
	})
}
