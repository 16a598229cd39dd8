package ports

import (
	"context"
	"time"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/google/uuid"
)

// OutboxEvent is written in the same transaction as the state change it describes.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	LastError    string
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}

type UserPatch struct {
	IsApproved       *bool
	EmailVerified    *bool
	// ClearVerifyToken drops the stored email verification token.
	ClearVerifyToken bool
}

type UserRepository interface {
	// Create inserts the user and its registration event atomically.
	// A duplicate email returns domain.ErrConflict.
	Create(ctx context.Context, user domain.User, event OutboxEvent) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByVerifyTokenHash(ctx context.Context, tokenHash string) (domain.User, error)
	List(ctx context.Context, role domain.Role) ([]domain.User, error)
	// Update applies the patch and enqueues event when it is non-nil.
	Update(ctx context.Context, userID uuid.UUID, patch UserPatch, event *OutboxEvent) (domain.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type BusPatch struct {
	BusName      *string
	BusType      *domain.BusType
	TotalSeats   *int
	Amenities    []string
	AppendImages []string
}

type BusRepository interface {
	Create(ctx context.Context, bus domain.Bus) (domain.Bus, error)
	// GetByID loads the bus with its owner summary; scheduleLimit > 0 also loads upcoming schedules.
	GetByID(ctx context.Context, busID uuid.UUID, scheduleLimit int) (domain.Bus, error)
	List(ctx context.Context) ([]domain.Bus, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Bus, error)
	Update(ctx context.Context, busID uuid.UUID, patch BusPatch) (domain.Bus, error)
	Delete(ctx context.Context, busID uuid.UUID) error
}

type ScheduleFilter struct {
	From string
	To   string
	Date *time.Time
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error)
	// GetByID loads the schedule with its bus and the bus owner.
	GetByID(ctx context.Context, scheduleID uuid.UUID) (domain.Schedule, error)
	Search(ctx context.Context, filter ScheduleFilter) ([]domain.Schedule, error)
	ListByBus(ctx context.Context, busID uuid.UUID) ([]domain.Schedule, error)
	// Save persists editable trip fields. Seat inventory only changes through BookingRepository.
	Save(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error)
	// Delete returns domain.ErrConflict while bookings still reference the schedule.
	Delete(ctx context.Context, scheduleID uuid.UUID) error
}

// ReserveSeatsParams describes a booking to be carved out of a schedule's inventory.
type ReserveSeatsParams struct {
	UserID     uuid.UUID
	ScheduleID uuid.UUID
	Seats      []string
	BookedAt   time.Time
}

// BookingMutation runs against a row-locked booking. It returns how many seats go back to
// the schedule and an optional event to enqueue in the same transaction.
type BookingMutation func(booking *domain.Booking) (restoreSeats int, event *OutboxEvent, err error)

type BookingFilter struct {
	UserID     *uuid.UUID
	BusOwnerID *uuid.UUID
	Limit      int
}

type BookingRepository interface {
	// Reserve locks the schedule row, verifies inventory, inserts the booking, decrements
	// available seats and enqueues the event built by eventFn in one transaction.
	Reserve(ctx context.Context, params ReserveSeatsParams, eventFn func(domain.Booking) OutboxEvent) (domain.Booking, error)
	// Mutate locks the booking and its schedule, applies fn and persists the result.
	Mutate(ctx context.Context, bookingID uuid.UUID, fn BookingMutation) (domain.Booking, error)
	// GetByID loads the booking with user, schedule and bus (with owner).
	GetByID(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	BookedSeats(ctx context.Context, scheduleID uuid.UUID) ([]string, error)
}

type AnalyticsRepository interface {
	Summary(ctx context.Context, recentLimit int) (domain.Analytics, error)
}

type CatalogRepository interface {
	ListRoutes(ctx context.Context, limit int) ([]domain.Route, error)
	CreateRoute(ctx context.Context, route domain.Route) (domain.Route, error)
	ListTestimonials(ctx context.Context, limit int) ([]domain.Testimonial, error)
	CreateTestimonial(ctx context.Context, testimonial domain.Testimonial) (domain.Testimonial, error)
}
