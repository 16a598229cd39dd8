package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const intentSucceeded = "succeeded"

var hundred = decimal.NewFromInt(100)

func (s *Service) CreatePaymentIntent(ctx context.Context, actor domain.Actor, req CreatePaymentIntentRequest) (PaymentIntentResponse, error) {
	if !req.Amount.IsPositive() {
		return PaymentIntentResponse{}, fmt.Errorf("%w: invalid amount", domain.ErrInvalidInput)
	}
	if s.payments == nil {
		return PaymentIntentResponse{}, domain.ErrNotConfigured
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	bookingRef := ""
	if strings.TrimSpace(req.BookingID) != "" {
		booking, err := s.visibleBooking(ctx, actor, req.BookingID)
		if err != nil {
			return PaymentIntentResponse{}, err
		}
		bookingRef = booking.BookingID.String()
	}

	intent, err := s.payments.CreateIntent(ctx, ports.PaymentIntentParams{
		AmountMinor: req.Amount.Mul(hundred).Round(0).IntPart(),
		Currency:    currency,
		Metadata: map[string]string{
			"bookingId": bookingRef,
			"userId":    actor.UserID.String(),
		},
	})
	if err != nil {
		return PaymentIntentResponse{}, fmt.Errorf("create payment intent: %w", err)
	}
	appLogger().InfoContext(ctx, "payment intent created",
		"operation", "create_payment_intent",
		"outcome", "success",
		"payment_intent_id", intent.ID,
		"booking_id", bookingRef,
	)
	return PaymentIntentResponse{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID}, nil
}

func (s *Service) ConfirmPayment(ctx context.Context, actor domain.Actor, req ConfirmPaymentRequest) (ConfirmPaymentResponse, error) {
	intentID := strings.TrimSpace(req.PaymentIntentID)
	if intentID == "" {
		return ConfirmPaymentResponse{}, fmt.Errorf("%w: payment intent ID is required", domain.ErrInvalidInput)
	}
	if s.payments == nil {
		return ConfirmPaymentResponse{}, domain.ErrNotConfigured
	}
	intent, err := s.payments.GetIntent(ctx, intentID)
	if err != nil {
		return ConfirmPaymentResponse{}, fmt.Errorf("retrieve payment intent: %w", err)
	}
	if intent.Status != intentSucceeded {
		return ConfirmPaymentResponse{}, fmt.Errorf("%w: status %s", domain.ErrPaymentIncomplete, intent.Status)
	}

	resp := ConfirmPaymentResponse{
		ID:     intent.ID,
		Amount: decimal.NewFromInt(intent.AmountMinor).Div(hundred),
		Status: intent.Status,
	}
	if strings.TrimSpace(req.BookingID) == "" {
		return resp, nil
	}
	booking, err := s.visibleBooking(ctx, actor, req.BookingID)
	if err != nil {
		return ConfirmPaymentResponse{}, err
	}
	if ref := intent.Metadata["bookingId"]; ref != "" && ref != booking.BookingID.String() {
		return ConfirmPaymentResponse{}, fmt.Errorf("%w: payment intent belongs to another booking", domain.ErrInvalidInput)
	}
	updated, err := s.markPaid(ctx, booking.BookingID, intent.ID, "confirm")
	if err != nil {
		return ConfirmPaymentResponse{}, err
	}
	view := toBookingView(updated)
	resp.Booking = &view
	return resp, nil
}

// HandleWebhook verifies and applies a payment provider callback.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookResponse, error) {
	if s.payments == nil {
		return WebhookResponse{}, domain.ErrNotConfigured
	}
	event, err := s.payments.ParseWebhook(payload, signature)
	if err != nil {
		appLogger().WarnContext(ctx, "webhook signature verification failed",
			"operation", "payment_webhook",
			"outcome", "failure",
			"error", err,
		)
		return WebhookResponse{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		if event.Intent == nil {
			break
		}
		ref := event.Intent.Metadata["bookingId"]
		if ref == "" {
			break
		}
		bookingID, err := uuid.Parse(ref)
		if err != nil {
			appLogger().WarnContext(ctx, "webhook carried malformed booking id",
				"operation", "payment_webhook",
				"outcome", "ignored",
				"payment_intent_id", event.Intent.ID,
			)
			break
		}
		if _, err := s.markPaid(ctx, bookingID, event.Intent.ID, "webhook"); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				break
			}
			return WebhookResponse{}, err
		}
	case "payment_intent.payment_failed":
		intentID := ""
		if event.Intent != nil {
			intentID = event.Intent.ID
		}
		appLogger().WarnContext(ctx, "payment intent failed",
			"operation", "payment_webhook",
			"outcome", "failure",
			"payment_intent_id", intentID,
		)
	default:
		appLogger().InfoContext(ctx, "unhandled webhook event",
			"operation", "payment_webhook",
			"outcome", "ignored",
			"event_type", event.Type,
		)
	}
	return WebhookResponse{Received: true}, nil
}

func (s *Service) markPaid(ctx context.Context, bookingID uuid.UUID, intentID, source string) (domain.Booking, error) {
	now := s.nowFn()
	changed := false
	updated, err := s.bookings.Mutate(ctx, bookingID, func(b *domain.Booking) (int, *ports.OutboxEvent, error) {
		changed = false
		if b.PaymentStatus == domain.PaymentPaid && b.PaymentIntentID == intentID {
			return 0, nil, nil
		}
		b.PaymentStatus = domain.PaymentPaid
		b.PaymentIntentID = intentID
		b.UpdatedAt = now
		changed = true
		event := bookingEvent(eventBookingPaymentUpdated, *b, now)
		return 0, &event, nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	if changed {
		s.metrics.PaymentConfirmed(source)
		appLogger().InfoContext(ctx, "booking marked paid",
			"operation", "mark_booking_paid",
			"outcome", "success",
			"booking_id", bookingID.String(),
			"payment_intent_id", intentID,
			"source", source,
		)
	}
	return updated, nil
}
