package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/easysewa/booking-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Options configures the optional parts of the HTTP surface.
type Options struct {
	Metrics *Metrics
	// Ready reports dependency health for /readyz. Nil means always ready.
	Ready func(ctx context.Context) error
	// AuthRequestsPerMinute caps login and register calls per client IP. Zero disables it.
	AuthRequestsPerMinute int
	AuthBurst             int
	// TrustProxyHeaders takes the client address from X-Real-IP / X-Forwarded-For.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// Handler is the HTTP adapter entrypoint for the booking use-cases.
type Handler struct {
	service     *application.Service
	metrics     *Metrics
	ready       func(ctx context.Context) error
	authLimiter *ipRateLimiter
	validate    *validator.Validate
	trustProxy  bool
}

func NewHandler(service *application.Service, opts Options) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		service:     service,
		metrics:     opts.Metrics,
		ready:       opts.Ready,
		authLimiter: newIPRateLimiter(opts.AuthRequestsPerMinute, opts.AuthBurst),
		validate:    v,
		trustProxy:  opts.TrustProxyHeaders,
	}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	if handler.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	if handler.metrics != nil {
		r.Use(handler.metrics.instrument)
		r.Method(http.MethodGet, "/metrics", handler.metrics.Handler())
	}

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.healthz)

		r.Route("/auth", func(r chi.Router) {
			r.With(handler.authLimiter.middleware).Post("/register", handler.register)
			r.With(handler.authLimiter.middleware).Post("/login", handler.login)
			r.Get("/verify-email", handler.verifyEmail)
			r.With(handler.authMiddleware).Get("/me", handler.me)
		})

		r.Route("/buses", func(r chi.Router) {
			r.Get("/", handler.listBuses)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Use(requireRole(domain.RoleOwner, domain.RoleAdmin))
				r.Get("/owner/list", handler.listOwnerBuses)
				r.Post("/", handler.createBus)
				r.Put("/{id}", handler.updateBus)
				r.Delete("/{id}", handler.deleteBus)
			})
			r.Get("/{id}", handler.getBus)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", handler.searchSchedules)
			r.Get("/bus/{busId}", handler.listBusSchedules)
			r.Get("/{id}", handler.getSchedule)
			r.Get("/{id}/booked-seats", handler.bookedSeats)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Use(requireRole(domain.RoleOwner, domain.RoleAdmin))
				r.Post("/", handler.createSchedule)
				r.Put("/{id}", handler.updateSchedule)
				r.Delete("/{id}", handler.deleteSchedule)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/", handler.listBookings)
			r.Get("/{id}", handler.getBooking)
			r.With(requireRole(domain.RoleUser, domain.RoleAdmin)).Post("/", handler.createBooking)
			r.Put("/{id}/status", handler.updateBookingStatus)
			r.Put("/{id}/cancel", handler.cancelBooking)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Use(requireRole(domain.RoleAdmin))
			r.Get("/users", handler.listUsers)
			r.Delete("/users/{id}", handler.deleteUser)
			r.Get("/owners", handler.listOwners)
			r.Put("/owners/{id}/approve", handler.setOwnerApproval)
			r.Get("/analytics", handler.analytics)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/webhook", handler.paymentWebhook)
			r.Group(func(r chi.Router) {
				r.Use(handler.authMiddleware)
				r.Post("/create-intent", handler.createPaymentIntent)
				r.Post("/confirm", handler.confirmPayment)
			})
		})

		r.Get("/routes", handler.listRoutes)
		r.Get("/testimonials", handler.listTestimonials)
		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Use(requireRole(domain.RoleAdmin))
			r.Post("/routes", handler.createRoute)
			r.Post("/testimonials", handler.createTestimonial)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			logHTTPOperationError(r.Context(), "readyz", http.StatusServiceUnavailable, "NOT_READY", "dependencies unavailable", err)
			writeError(w, http.StatusServiceUnavailable, "NOT_READY", "dependencies unavailable")
			return
		}
	}
	writeMessage(w, http.StatusOK, "ready")
}
