package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, secret string, at time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	_, err := fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	require.NoError(t, err)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func testGateway(t *testing.T) *StripeGateway {
	t.Helper()
	gw, err := NewStripeGateway("sk_test_123", testWebhookSecret)
	require.NoError(t, err)
	return gw
}

func TestParseWebhookDecodesSucceededIntent(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_123",
			"object": "payment_intent",
			"amount": 240100,
			"currency": "usd",
			"status": "succeeded",
			"metadata": {"bookingId": "3f1e9c34-5b0e-4a0e-9a77-3a6d2c3f55aa", "userId": "u1"}
		}}
	}`)
	gw := testGateway(t)

	event, err := gw.ParseWebhook(payload, signPayload(t, payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	require.NotNil(t, event.Intent)
	assert.Equal(t, "pi_123", event.Intent.ID)
	assert.Equal(t, "succeeded", event.Intent.Status)
	assert.Equal(t, int64(240100), event.Intent.AmountMinor)
	assert.Equal(t, "3f1e9c34-5b0e-4a0e-9a77-3a6d2c3f55aa", event.Intent.Metadata["bookingId"])
}

func TestParseWebhookRejectsBadSignatures(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"id":"evt_2","object":"event","type":"charge.succeeded","data":{"object":{}}}`)
	gw := testGateway(t)

	_, err := gw.ParseWebhook(payload, signPayload(t, payload, "whsec_other", time.Now()))
	assert.Error(t, err)

	_, err = gw.ParseWebhook(payload, signPayload(t, payload, testWebhookSecret, time.Now().Add(-time.Hour)))
	assert.Error(t, err, "stale timestamps must be rejected")

	_, err = gw.ParseWebhook(payload, "")
	assert.Error(t, err)
}

func TestParseWebhookLeavesOtherEventsUndecoded(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"id":"evt_3","object":"event","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)
	gw := testGateway(t)

	event, err := gw.ParseWebhook(payload, signPayload(t, payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "customer.created", event.Type)
	assert.Nil(t, event.Intent)
}

func TestNewStripeGatewayRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewStripeGateway("", testWebhookSecret)
	assert.Error(t, err)

	gw, err := NewStripeGateway("sk_test_123", "")
	require.NoError(t, err)
	_, err = gw.ParseWebhook([]byte(`{}`), "t=1,v1=00")
	assert.Error(t, err)
}
