package http

import (
	"net/http"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/easysewa/booking-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listBuses(w http.ResponseWriter, r *http.Request) {
	buses, err := h.service.ListBuses(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_buses", err)
		return
	}
	writeSuccess(w, http.StatusOK, buses)
}

func (h *Handler) getBus(w http.ResponseWriter, r *http.Request) {
	bus, err := h.service.GetBus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_bus", err)
		return
	}
	writeSuccess(w, http.StatusOK, bus)
}

func (h *Handler) listOwnerBuses(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	buses, err := h.service.ListOwnerBuses(r.Context(), actor, r.URL.Query().Get("ownerId"))
	if err != nil {
		writeMappedError(r.Context(), w, "list_owner_buses", err)
		return
	}
	writeSuccess(w, http.StatusOK, buses)
}

func (h *Handler) createBus(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	var req application.CreateBusRequest
	if isMultipart(r) {
		if err := parseMultipart(w, r); err != nil {
			writeValidationError(r.Context(), w, "create_bus", err)
			return
		}
		seats, err := formInt(r, "totalSeats")
		if err != nil {
			writeValidationError(r.Context(), w, "create_bus", err)
			return
		}
		images, err := formFiles(r, "images", domain.MaxBusImages)
		if err != nil {
			writeValidationError(r.Context(), w, "create_bus", err)
			return
		}
		req = application.CreateBusRequest{
			OwnerID:    r.FormValue("ownerId"),
			BusNumber:  r.FormValue("busNumber"),
			BusName:    r.FormValue("busName"),
			BusType:    r.FormValue("busType"),
			TotalSeats: seats,
			Amenities:  formList(r, "amenities"),
			Images:     images,
		}
		if err := h.check(&req); err != nil {
			writeValidationError(r.Context(), w, "create_bus", err)
			return
		}
	} else if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_bus", err)
		return
	}

	bus, err := h.service.CreateBus(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_bus", err)
		return
	}
	writeSuccess(w, http.StatusCreated, bus)
}

func (h *Handler) updateBus(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	var req application.UpdateBusRequest
	if isMultipart(r) {
		if err := parseMultipart(w, r); err != nil {
			writeValidationError(r.Context(), w, "update_bus", err)
			return
		}
		seats, err := formInt(r, "totalSeats")
		if err != nil {
			writeValidationError(r.Context(), w, "update_bus", err)
			return
		}
		images, err := formFiles(r, "images", domain.MaxBusImages)
		if err != nil {
			writeValidationError(r.Context(), w, "update_bus", err)
			return
		}
		req = application.UpdateBusRequest{
			BusName:    r.FormValue("busName"),
			BusType:    r.FormValue("busType"),
			TotalSeats: seats,
			Amenities:  formList(r, "amenities"),
			Images:     images,
		}
		if err := h.check(&req); err != nil {
			writeValidationError(r.Context(), w, "update_bus", err)
			return
		}
	} else if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_bus", err)
		return
	}

	bus, err := h.service.UpdateBus(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_bus", err)
		return
	}
	writeSuccess(w, http.StatusOK, bus)
}

func (h *Handler) deleteBus(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromRequest(r)
	if err := h.service.DeleteBus(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeMappedError(r.Context(), w, "delete_bus", err)
		return
	}
	writeMessage(w, http.StatusOK, "Bus deleted successfully")
}
