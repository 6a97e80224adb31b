package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"billingpanel/internal/billing"
	"billingpanel/internal/models"
	"billingpanel/internal/repositories"
	"billingpanel/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// WebhookHandlers receives payment provider callbacks. Requests are
// authenticated by HMAC signature, not by JWT.
type WebhookHandlers struct {
	provider            billing.Provider
	subscriptionService services.SubscriptionService
	orderRepo           repositories.OrderRepository
}

func NewWebhookHandlers(provider billing.Provider, subscriptionService services.SubscriptionService, orderRepo repositories.OrderRepository) *WebhookHandlers {
	return &WebhookHandlers{
		provider:            provider,
		subscriptionService: subscriptionService,
		orderRepo:           orderRepo,
	}
}

// HandleBillingWebhook handles POST /webhooks/billing
func (h *WebhookHandlers) HandleBillingWebhook(c echo.Context) error {
	rawBody, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}

	signature := c.Request().Header.Get("X-Signature")
	if signature == "" || !h.provider.VerifyWebhookSignature(rawBody, signature) {
		log.Printf("WARN: webhook rejected: invalid signature")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid webhook signature")
	}

	event, err := h.provider.ParseWebhookEvent(rawBody)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed webhook event")
	}

	ctx := c.Request().Context()
	switch event.Type {
	case "customer.subscription.updated", "customer.subscription.deleted":
		if err := h.handleSubscriptionEvent(c, event); err != nil {
			return err
		}
	case "checkout.session.completed":
		var data billing.SessionEventData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Malformed session event data")
		}
		orderID, err := uuid.Parse(data.OrderID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid order id in event")
		}
		if err := h.orderRepo.UpdateSessionStatus(ctx, orderID, models.SessionStatusSynced); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				log.Printf("WARN: webhook %s references unknown order %s", event.ID, data.OrderID)
				break
			}
			log.Printf("WARN: failed to mark session synced for order %s: %v", data.OrderID, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process event")
		}
	default:
		// Acknowledge unhandled event types so the provider stops retrying.
		log.Printf("DEBUG: ignoring webhook event type %s", event.Type)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "received"})
}

func (h *WebhookHandlers) handleSubscriptionEvent(c echo.Context, event *billing.WebhookEvent) error {
	var data billing.SubscriptionEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed subscription event data")
	}

	subscriptionID, err := uuid.Parse(data.SubscriptionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid subscription id in event")
	}

	status := mapProviderStatus(data.Status)
	if status == "" {
		log.Printf("WARN: webhook %s carries unknown subscription status %q", event.ID, data.Status)
		return nil
	}

	if err := h.subscriptionService.HandleStatusTransition(c.Request().Context(), subscriptionID, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("WARN: webhook %s references unknown subscription %s", event.ID, data.SubscriptionID)
			return nil
		}
		log.Printf("WARN: failed to apply status %s to subscription %s: %v", status, data.SubscriptionID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process event")
	}
	return nil
}

func mapProviderStatus(providerStatus string) string {
	switch providerStatus {
	case "incomplete", "incomplete_expired":
		return models.SubscriptionStatusIncomplete
	case "active", "trialing":
		return models.SubscriptionStatusActive
	case "past_due", "unpaid":
		return models.SubscriptionStatusPastDue
	case "canceled":
		return models.SubscriptionStatusCanceled
	case "paused":
		return models.SubscriptionStatusPaused
	default:
		return ""
	}
}
