package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"billingpanel/internal/billing"
	"billingpanel/internal/mailer"
	"billingpanel/internal/models"
	"billingpanel/internal/repositories"

	"github.com/hibiken/asynq"
)

// Handlers processes queued tasks. Returning an error hands the task back to
// asynq for retry; at-least-once delivery is the queue's contract, so every
// handler must tolerate duplicates.
type Handlers struct {
	mailer    *mailer.Mailer
	orderRepo repositories.OrderRepository
	provider  billing.Provider
}

func NewHandlers(m *mailer.Mailer, orderRepo repositories.OrderRepository, provider billing.Provider) *Handlers {
	return &Handlers{mailer: m, orderRepo: orderRepo, provider: provider}
}

// Register attaches the task handlers to an asynq mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeActivationEmail, h.HandleActivationEmail)
	mux.HandleFunc(TypeSessionSync, h.HandleSessionSync)
}

// HandleActivationEmail delivers the subscription activation email.
func (h *Handlers) HandleActivationEmail(ctx context.Context, task *asynq.Task) error {
	var payload ActivationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal activation email payload: %w", err)
	}

	if err := h.mailer.SendActivation(ctx, payload.RecipientEmail, payload.RecipientName, payload.PlanName); err != nil {
		return fmt.Errorf("failed to send activation email for subscription %s: %w", payload.SubscriptionID, err)
	}

	log.Printf("INFO: activation email sent for subscription %s to %s", payload.SubscriptionID, payload.RecipientEmail)
	return nil
}

// HandleSessionSync reconciles an order's checkout session state with the
// billing provider. A session still open is left pending for the sweep to
// retry later; provider errors go back to the queue.
func (h *Handlers) HandleSessionSync(ctx context.Context, task *asynq.Task) error {
	var payload SessionSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal session sync payload: %w", err)
	}

	session, err := h.provider.GetCheckoutSession(ctx, payload.CheckoutSessionID)
	if err != nil {
		return fmt.Errorf("failed to fetch checkout session %s: %w", payload.CheckoutSessionID, err)
	}

	if session.Status != "complete" {
		log.Printf("INFO: checkout session %s for order %s still %s; leaving pending", session.ID, payload.OrderID, session.Status)
		return nil
	}

	if err := h.orderRepo.UpdateSessionStatus(ctx, payload.OrderID, models.SessionStatusSynced); err != nil {
		return fmt.Errorf("failed to mark order %s session synced: %w", payload.OrderID, err)
	}
	return nil
}
