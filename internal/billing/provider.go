package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Provider abstracts the payment provider. Only the slice this panel needs:
// checkout session lookup and webhook verification. The actual gateway
// protocol lives outside this codebase.
type Provider interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	VerifyWebhookSignature(rawBody []byte, signature string) bool
	ParseWebhookEvent(rawBody []byte) (*WebhookEvent, error)
}

type CheckoutSession struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// WebhookEvent is the provider event envelope delivered to our webhook
// endpoint.
type WebhookEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Created int64           `json:"created"`
}

// SubscriptionEventData is the payload for subscription lifecycle events.
type SubscriptionEventData struct {
	SubscriptionID string `json:"subscription_id"`
	OrganizationID string `json:"organization_id"`
	Status         string `json:"status"`
}

// SessionEventData is the payload for checkout session events.
type SessionEventData struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
}

type stripeProvider struct {
	apiKey        string
	webhookSecret string
	baseURL       string
	http          *http.Client
}

// NewStripeProvider creates a provider client. Session fetch is a placeholder
// that reports sessions as complete; real API wiring is out of scope here.
func NewStripeProvider(apiKey, webhookSecret string) Provider {
	return &stripeProvider{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		baseURL:       "https://api.stripe.com/v1",
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

// GetCheckoutSession fetches the checkout session's settlement state.
func (p *stripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	// TODO: replace with the real sessions endpoint once provider credentials
	// are provisioned for this environment.
	return &CheckoutSession{
		ID:            sessionID,
		Status:        "complete",
		PaymentStatus: "paid",
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature on a raw webhook
// body. Constant time comparison to prevent timing attacks.
func (p *stripeProvider) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	hash := hmac.New(sha256.New, []byte(p.webhookSecret))
	hash.Write(rawBody)
	expected := hex.EncodeToString(hash.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

func (p *stripeProvider) ParseWebhookEvent(rawBody []byte) (*WebhookEvent, error) {
	event := &WebhookEvent{}
	if err := json.Unmarshal(rawBody, event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("webhook event missing type")
	}
	return event, nil
}
