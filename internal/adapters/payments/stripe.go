package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/easysewa/booking-service/internal/ports"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway implements ports.PaymentGateway on the Stripe PaymentIntents API.
type StripeGateway struct {
	intents       *paymentintent.Client
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	return newStripeGateway(stripe.GetBackend(stripe.APIBackend), secretKey, webhookSecret), nil
}

func newStripeGateway(backend stripe.Backend, secretKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		intents:       &paymentintent.Client{B: backend, Key: secretKey},
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, params ports.PaymentIntentParams) (ports.PaymentIntent, error) {
	req := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.AmountMinor),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	req.Context = ctx
	for k, v := range params.Metadata {
		req.AddMetadata(k, v)
	}
	pi, err := g.intents.New(req)
	if err != nil {
		return ports.PaymentIntent{}, err
	}
	return toPortIntent(pi), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, intentID string) (ports.PaymentIntent, error) {
	req := &stripe.PaymentIntentParams{}
	req.Context = ctx
	pi, err := g.intents.Get(intentID, req)
	if err != nil {
		return ports.PaymentIntent{}, err
	}
	return toPortIntent(pi), nil
}

// ParseWebhook checks the Stripe-Signature header and decodes payment intent events.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (ports.PaymentWebhookEvent, error) {
	if g.webhookSecret == "" {
		return ports.PaymentWebhookEvent{}, errors.New("webhook secret is not configured")
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return ports.PaymentWebhookEvent{}, err
	}

	out := ports.PaymentWebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return out, nil
	}
	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return ports.PaymentWebhookEvent{}, fmt.Errorf("decode payment intent: %w", err)
		}
		intent := toPortIntent(&pi)
		out.Intent = &intent
	}
	return out, nil
}

func toPortIntent(pi *stripe.PaymentIntent) ports.PaymentIntent {
	return ports.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}
