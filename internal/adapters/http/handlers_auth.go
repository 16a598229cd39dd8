package http

import (
	"net/http"
	"strings"

	"github.com/easysewa/booking-service/internal/application"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if isMultipart(r) {
		if err := parseMultipart(w, r); err != nil {
			writeValidationError(r.Context(), w, "register", err)
			return
		}
		req = application.RegisterRequest{
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Phone:    r.FormValue("phone"),
			Role:     r.FormValue("role"),
		}
		photo, err := formFile(r, "busPhoto")
		if err != nil {
			writeValidationError(r.Context(), w, "register", err)
			return
		}
		document, err := formFile(r, "busDocument")
		if err != nil {
			writeValidationError(r.Context(), w, "register", err)
			return
		}
		req.BusPhoto, req.BusDocument = photo, document
		if err := h.check(&req); err != nil {
			writeValidationError(r.Context(), w, "register", err)
			return
		}
	} else if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register", err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "register", err)
		return
	}
	writeSuccessMessage(w, http.StatusCreated, "Registration successful. Please check your email to verify your account.", res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := h.bindJSON(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}
	req.IPAddress = readIP(r)

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.VerifyEmail(r.Context(), strings.TrimSpace(r.URL.Query().Get("token")))
	if err != nil {
		writeMappedError(r.Context(), w, "verify_email", err)
		return
	}
	writeSuccessMessage(w, http.StatusOK, "Email verified successfully", user)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingBearerError(r.Context(), w, "me")
		return
	}
	user, err := h.service.Me(r.Context(), actor)
	if err != nil {
		writeMappedError(r.Context(), w, "me", err)
		return
	}
	writeSuccess(w, http.StatusOK, user)
}
