package http

import (
	"net/http"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	items, err := h.service.ListBookings(r.Context(), actor)
	if err != nil {
		writeMappedError(r.Context(), w, "list_bookings", err)
		return
	}
	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	item, err := h.service.GetBooking(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_booking", err)
		return
	}
	writeSuccess(w, http.StatusOK, item)
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	var req application.CreateBookingRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_booking", err)
		return
	}
	item, err := h.service.CreateBooking(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_booking", err)
		return
	}
	writeSuccess(w, http.StatusCreated, item)
}

func (h *Handler) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	var req application.UpdateBookingStatusRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_booking_status", err)
		return
	}
	item, err := h.service.UpdateBookingStatus(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_booking_status", err)
		return
	}
	writeSuccess(w, http.StatusOK, item)
}

func (h *Handler) cancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	item, err := h.service.CancelBooking(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "cancel_booking", err)
		return
	}
	writeSuccessMessage(w, http.StatusOK, "Booking cancelled successfully", item)
}
