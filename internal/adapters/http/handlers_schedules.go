package http

import (
	"net/http"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) searchSchedules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.service.SearchSchedules(r.Context(), application.ScheduleSearch{
		From: q.Get("from"),
		To:   q.Get("to"),
		Date: q.Get("date"),
	})
	if err != nil {
		writeMappedError(r.Context(), w, "search_schedules", err)
		return
	}
	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) listBusSchedules(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListBusSchedules(r.Context(), chi.URLParam(r, "busId"))
	if err != nil {
		writeMappedError(r.Context(), w, "list_bus_schedules", err)
		return
	}
	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) getSchedule(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_schedule", err)
		return
	}
	writeSuccess(w, http.StatusOK, item)
}

func (h *Handler) bookedSeats(w http.ResponseWriter, r *http.Request) {
	seats, err := h.service.BookedSeats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "booked_seats", err)
		return
	}
	writeSuccess(w, http.StatusOK, seats)
}

func (h *Handler) createSchedule(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	var req application.CreateScheduleRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_schedule", err)
		return
	}
	item, err := h.service.CreateSchedule(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_schedule", err)
		return
	}
	writeSuccess(w, http.StatusCreated, item)
}

func (h *Handler) updateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	var req application.UpdateScheduleRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_schedule", err)
		return
	}
	item, err := h.service.UpdateSchedule(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_schedule", err)
		return
	}
	writeSuccess(w, http.StatusOK, item)
}

func (h *Handler) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	if err := h.service.DeleteSchedule(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeMappedError(r.Context(), w, "delete_schedule", err)
		return
	}
	writeMessage(w, http.StatusOK, "Schedule deleted successfully")
}
