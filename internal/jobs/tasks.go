package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type definitions
const (
	TypeActivationEmail = "notification:activation_email"
	TypeSessionSync     = "billing:session_sync"
)

// QueueNotifications carries outbound email; QueueBilling carries provider
// synchronization work. Retry policy lives here, not in the callers.
const (
	QueueNotifications = "notifications"
	QueueBilling       = "billing"

	activationEmailMaxRetry = 5
	sessionSyncMaxRetry     = 10
)

// Enqueuer is the slice of asynq.Client the services need. Fire-and-forget
// from the caller's perspective; delivery retries are owned by the queue.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ActivationEmailPayload defines the payload for activation email tasks
type ActivationEmailPayload struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	PlanName       string    `json:"plan_name"`
}

// SessionSyncPayload defines the payload for checkout session sync tasks
type SessionSyncPayload struct {
	OrderID           uuid.UUID `json:"order_id"`
	CheckoutSessionID string    `json:"checkout_session_id"`
}

// NewActivationEmailTask creates a new activation email task
func NewActivationEmailTask(payload ActivationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal activation email payload: %w", err)
	}
	return asynq.NewTask(TypeActivationEmail, data,
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(activationEmailMaxRetry),
	), nil
}

// NewSessionSyncTask creates a new checkout session sync task
func NewSessionSyncTask(payload SessionSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session sync payload: %w", err)
	}
	return asynq.NewTask(TypeSessionSync, data,
		asynq.Queue(QueueBilling),
		asynq.MaxRetry(sessionSyncMaxRetry),
	), nil
}
