package handlers

import (
	"net/http"

	"billingpanel/internal/common"
	"billingpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandlers handles subscription-related HTTP requests
type SubscriptionHandlers struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandlers(subscriptionService services.SubscriptionService) *SubscriptionHandlers {
	return &SubscriptionHandlers{subscriptionService: subscriptionService}
}

// CreateSubscription handles POST /subscriptions
func (h *SubscriptionHandlers) CreateSubscription(c echo.Context) error {
	var req services.CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	subscription, err := h.subscriptionService.Create(c.Request().Context(), &req)
	if err != nil {
		return serviceError(c, err, "subscription")
	}
	return c.JSON(http.StatusCreated, subscription)
}

// GetSubscription handles GET /subscriptions/:id
func (h *SubscriptionHandlers) GetSubscription(c echo.Context) error {
	subscriptionID, err := common.ValidateUUID(c.Param("id"), "subscription id")
	if err != nil {
		return serviceError(c, err, "subscription")
	}

	subscription, err := h.subscriptionService.GetByID(c.Request().Context(), subscriptionID)
	if err != nil {
		return serviceError(c, err, "subscription")
	}
	return c.JSON(http.StatusOK, subscription)
}

// ListSubscriptionsRequest represents query parameters for listing
type ListSubscriptionsRequest struct {
	OrganizationID string `query:"organization_id"`
	Limit          int    `query:"limit"`
	Offset         int    `query:"offset"`
}

// ListSubscriptions handles GET /subscriptions?organization_id=...
func (h *SubscriptionHandlers) ListSubscriptions(c echo.Context) error {
	var req ListSubscriptionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	orgID, err := common.ValidateUUID(req.OrganizationID, "organization_id")
	if err != nil {
		return serviceError(c, err, "subscriptions")
	}

	subscriptions, err := h.subscriptionService.List(c.Request().Context(), orgID, req.Limit, req.Offset)
	if err != nil {
		return serviceError(c, err, "subscriptions")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": subscriptions,
	})
}
