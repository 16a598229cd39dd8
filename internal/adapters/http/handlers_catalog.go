package http

import (
	"net/http"

	"github.com/easysewa/booking-service/internal/application"
)

func (h *Handler) listRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.service.ListPopularRoutes(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeMappedError(r.Context(), w, "list_routes", err)
		return
	}
	writeSuccess(w, http.StatusOK, routes)
}

func (h *Handler) createRoute(w http.ResponseWriter, r *http.Request) {
	var req application.CreateRouteRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_route", err)
		return
	}
	route, err := h.service.CreateRoute(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_route", err)
		return
	}
	writeSuccess(w, http.StatusCreated, route)
}

func (h *Handler) listTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListTestimonials(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeMappedError(r.Context(), w, "list_testimonials", err)
		return
	}
	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) createTestimonial(w http.ResponseWriter, r *http.Request) {
	var req application.CreateTestimonialRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_testimonial", err)
		return
	}
	item, err := h.service.CreateTestimonial(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_testimonial", err)
		return
	}
	writeSuccess(w, http.StatusCreated, item)
}
