package application

import (
	"time"

	"github.com/easysewa/booking-service/internal/ports"
)

type Service struct {
	cfg       Config
	users     ports.UserRepository
	buses     ports.BusRepository
	schedules ports.ScheduleRepository
	bookings  ports.BookingRepository
	analytics ports.AnalyticsRepository
	catalog   ports.CatalogRepository
	lockouts  ports.LockoutStore
	hasher    ports.PasswordHasher
	tokens    ports.TokenSigner
	payments  ports.PaymentGateway
	images    ports.ImageStore
	notifier  ports.Notifier
	metrics   ports.BookingMetrics
	nowFn     func() time.Time
}

type Dependencies struct {
	Config    Config
	Users     ports.UserRepository
	Buses     ports.BusRepository
	Schedules ports.ScheduleRepository
	Bookings  ports.BookingRepository
	Analytics ports.AnalyticsRepository
	Catalog   ports.CatalogRepository
	// Lockouts is optional; login lockout is disabled without it.
	Lockouts  ports.LockoutStore
	Hasher    ports.PasswordHasher
	Tokens    ports.TokenSigner
	Payments  ports.PaymentGateway
	Images    ports.ImageStore
	Notifier  ports.Notifier
	Metrics   ports.BookingMetrics
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.VerifyTokenTTL <= 0 {
		cfg.VerifyTokenTTL = 24 * time.Hour
	}
	if cfg.FailedLoginThreshold <= 0 {
		cfg.FailedLoginThreshold = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:5173"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "usd"
	}
	if cfg.BusImageFolder == "" {
		cfg.BusImageFolder = "easysewa/buses"
	}
	if cfg.OwnerDocumentFolder == "" {
		cfg.OwnerDocumentFolder = "easysewa/owners"
	}
	if cfg.BusScheduleLimit <= 0 {
		cfg.BusScheduleLimit = 10
	}
	if cfg.RecentBookingsLimit <= 0 {
		cfg.RecentBookingsLimit = 10
	}
	if cfg.CatalogLimit <= 0 {
		cfg.CatalogLimit = 20
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		cfg:       cfg,
		users:     deps.Users,
		buses:     deps.Buses,
		schedules: deps.Schedules,
		bookings:  deps.Bookings,
		analytics: deps.Analytics,
		catalog:   deps.Catalog,
		lockouts:  deps.Lockouts,
		hasher:    deps.Hasher,
		tokens:    deps.Tokens,
		payments:  deps.Payments,
		images:    deps.Images,
		notifier:  deps.Notifier,
		metrics:   metrics,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

type noopMetrics struct{}

func (noopMetrics) BookingCreated(int)      {}
func (noopMetrics) BookingCancelled(int)    {}
func (noopMetrics) PaymentConfirmed(string) {}
