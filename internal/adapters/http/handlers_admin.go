package http

import (
	"net/http"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		writeMappedError(r.Context(), w, "list_users", err)
		return
	}
	writeSuccess(w, http.StatusOK, users)
}

func (h *Handler) listOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.service.ListOwners(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_owners", err)
		return
	}
	writeSuccess(w, http.StatusOK, owners)
}

func (h *Handler) setOwnerApproval(w http.ResponseWriter, r *http.Request) {
	var req application.OwnerApprovalRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "set_owner_approval", err)
		return
	}
	owner, err := h.service.SetOwnerApproval(r.Context(), chi.URLParam(r, "id"), *req.IsApproved)
	if err != nil {
		writeMappedError(r.Context(), w, "set_owner_approval", err)
		return
	}
	msg := "Owner approval revoked"
	if owner.IsApproved {
		msg = "Owner approved successfully"
	}
	writeSuccessMessage(w, http.StatusOK, msg, owner)
}

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Analytics(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "analytics", err)
		return
	}
	writeSuccess(w, http.StatusOK, summary)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeMappedError(r.Context(), w, "delete_user", err)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}
