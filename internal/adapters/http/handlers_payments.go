package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/easysewa/booking-service/internal/application"
)

const maxWebhookBodyBytes = 64 << 10

func (h *Handler) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	var req application.CreatePaymentIntentRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_payment_intent", err)
		return
	}
	res, err := h.service.CreatePaymentIntent(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_payment_intent", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	var req application.ConfirmPaymentRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "confirm_payment", err)
		return
	}
	res, err := h.service.ConfirmPayment(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "confirm_payment", err)
		return
	}
	writeSuccessMessage(w, http.StatusOK, "Payment confirmed", res)
}

// paymentWebhook needs the raw body untouched for signature verification.
func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeValidationError(r.Context(), w, "payment_webhook", errors.New("payload too large"))
			return
		}
		writeValidationError(r.Context(), w, "payment_webhook", err)
		return
	}
	res, err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		writeMappedError(r.Context(), w, "payment_webhook", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
