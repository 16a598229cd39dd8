package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyClaims    ctxKey = "auth_claims"
)

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpLogger().ErrorContext(r.Context(), "panic recovered",
					"operation", "http_panic_recovery",
					"outcome", "failure",
					"request_id", requestIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(payload)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) status() int {
	if r.statusCode == 0 {
		return http.StatusOK
	}
	return r.statusCode
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		statusCode := recorder.status()
		outcome := "success"
		if statusCode >= 400 {
			outcome = "failure"
		}

		fields := []any{
			"operation", "http_request",
			"outcome", outcome,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"bytes", recorder.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestIDFromContext(r.Context()),
		}
		switch {
		case statusCode >= 500:
			httpLogger().ErrorContext(r.Context(), "http request completed", fields...)
		case statusCode >= 400:
			httpLogger().WarnContext(r.Context(), "http request completed", fields...)
		default:
			httpLogger().InfoContext(r.Context(), "http request completed", fields...)
		}
	})
}

func requestIDFromContext(ctx context.Context) string {
	v := ctx.Value(ctxKeyRequestID)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func bearerTokenFromHeader(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errors.New("missing bearer token")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeMissingBearerError(r.Context(), w, "authenticate")
			return
		}

		claims, err := h.service.ValidateToken(r.Context(), raw)
		if err != nil {
			writeMappedError(r.Context(), w, "authenticate", err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole admits only authenticated callers holding one of roles.
func requireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFromContext(r.Context())
			if !ok {
				writeMissingBearerError(r.Context(), w, "authorize")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			msg := "User role " + string(claims.Role) + " is not authorized to access this route"
			logHTTPOperationError(r.Context(), "authorize", http.StatusForbidden, "FORBIDDEN", msg, nil)
			writeError(w, http.StatusForbidden, "FORBIDDEN", msg)
		})
	}
}

func claimsFromContext(ctx context.Context) (ports.AuthClaims, bool) {
	v := ctx.Value(ctxKeyClaims)
	claims, ok := v.(ports.AuthClaims)
	return claims, ok
}

func actorFromRequest(r *http.Request) (domain.Actor, bool) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		return domain.Actor{}, false
	}
	return application.ActorFromClaims(claims), true
}

// detail returns the text wrapped around sentinel, or fallback when there is none.
func detail(err, sentinel error, fallback string) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		if rest := strings.TrimSpace(msg[idx+len(prefix):]); rest != "" {
			return rest
		}
	}
	return fallback
}

func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", detail(err, domain.ErrInvalidInput, "invalid input")
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized, token failed"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials"
	case errors.Is(err, domain.ErrAccountLocked):
		return http.StatusTooManyRequests, "ACCOUNT_LOCKED", "account temporarily locked, try again later"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", "too many requests"
	case errors.Is(err, domain.ErrOwnerNotApproved):
		return http.StatusForbidden, "OWNER_NOT_APPROVED", "Your account is pending approval from admin"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", detail(err, domain.ErrForbidden, "Not authorized")
	case errors.Is(err, domain.ErrSeatUnavailable):
		return http.StatusConflict, "SEAT_UNAVAILABLE", detail(err, domain.ErrSeatUnavailable, "seat already booked")
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", detail(err, domain.ErrConflict, "resource already exists")
	case errors.Is(err, domain.ErrInsufficientSeats):
		return http.StatusBadRequest, "INSUFFICIENT_SEATS", detail(err, domain.ErrInsufficientSeats, "Not enough seats available")
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusBadRequest, "ALREADY_CANCELLED", "Booking is already cancelled"
	case errors.Is(err, domain.ErrPaymentIncomplete):
		return http.StatusBadRequest, "PAYMENT_INCOMPLETE", detail(err, domain.ErrPaymentIncomplete, "Payment not completed")
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest, "INVALID_SIGNATURE", "Webhook Error: invalid signature"
	case errors.Is(err, domain.ErrNotOwnerAccount):
		return http.StatusBadRequest, "NOT_OWNER_ACCOUNT", "User is not a bus owner"
	case errors.Is(err, domain.ErrCannotDeleteAdmin):
		return http.StatusBadRequest, "CANNOT_DELETE_ADMIN", "Cannot delete admin user"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired verification token"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", detail(err, domain.ErrNotFound, "resource not found")
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable, "NOT_CONFIGURED", "this integration is not configured"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
