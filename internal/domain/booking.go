package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func ParseBookingStatus(raw string) (BookingStatus, error) {
	switch s := BookingStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case BookingConfirmed, BookingCancelled, BookingCompleted:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, raw)
	}
}

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch s := PaymentStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, raw)
	}
}

type Booking struct {
	BookingID       uuid.UUID
	UserID          uuid.UUID
	ScheduleID      uuid.UUID
	BusID           uuid.UUID
	Seats           []string
	TotalAmount     decimal.Decimal
	BookingDate     time.Time
	Status          BookingStatus
	PaymentStatus   PaymentStatus
	PaymentIntentID string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	User     *UserSummary
	Schedule *Schedule
	Bus      *Bus
}

// NormalizeSeats trims and upper-cases seat labels and rejects empty or repeated labels.
func NormalizeSeats(seats []string) ([]string, error) {
	if len(seats) == 0 {
		return nil, fmt.Errorf("%w: schedule ID and seats are required", ErrInvalidInput)
	}
	out := make([]string, 0, len(seats))
	seen := make(map[string]struct{}, len(seats))
	for _, raw := range seats {
		seat := strings.ToUpper(strings.TrimSpace(raw))
		if seat == "" {
			return nil, fmt.Errorf("%w: seat labels must not be empty", ErrInvalidInput)
		}
		if _, dup := seen[seat]; dup {
			return nil, fmt.Errorf("%w: seat %s requested twice", ErrInvalidInput, seat)
		}
		seen[seat] = struct{}{}
		out = append(out, seat)
	}
	return out, nil
}

// TotalFor prices a reservation of n seats.
func TotalFor(price decimal.Decimal, n int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(n)))
}

// HoldsSeats reports whether the booking still occupies inventory on its schedule.
func (b Booking) HoldsSeats() bool {
	return b.Status != BookingCancelled
}

// Cancel moves the booking to cancelled and refunds a paid booking.
// It returns the number of seats to give back to the schedule.
func (b *Booking) Cancel() (int, error) {
	if b.Status == BookingCancelled {
		return 0, ErrAlreadyCancelled
	}
	b.Status = BookingCancelled
	if b.PaymentStatus == PaymentPaid {
		b.PaymentStatus = PaymentRefunded
	}
	return len(b.Seats), nil
}

// VisibleTo reports whether the actor may read or change the booking.
// busOwnerID is the owner of the bus the booking was made on.
func (b Booking) VisibleTo(actor Actor, busOwnerID uuid.UUID) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleOwner:
		return busOwnerID == actor.UserID || b.UserID == actor.UserID
	default:
		return b.UserID == actor.UserID
	}
}
