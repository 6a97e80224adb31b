package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	p := NewStripeProvider("sk_test", "whsec_test")
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	assert.True(t, p.VerifyWebhookSignature(body, sign("whsec_test", body)))
	assert.False(t, p.VerifyWebhookSignature(body, sign("wrong_secret", body)))
	assert.False(t, p.VerifyWebhookSignature(body, "garbage"))
	assert.False(t, p.VerifyWebhookSignature([]byte(`tampered`), sign("whsec_test", body)))
}

func TestParseWebhookEvent(t *testing.T) {
	p := NewStripeProvider("sk_test", "whsec_test")

	event, err := p.ParseWebhookEvent([]byte(`{"id":"evt_1","type":"customer.subscription.updated","data":{"status":"active"},"created":1756400000}`))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "customer.subscription.updated", event.Type)
	assert.JSONEq(t, `{"status":"active"}`, string(event.Data))
}

func TestParseWebhookEvent_Invalid(t *testing.T) {
	p := NewStripeProvider("sk_test", "whsec_test")

	_, err := p.ParseWebhookEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = p.ParseWebhookEvent([]byte(`{"id":"evt_2"}`))
	assert.Error(t, err)
}
