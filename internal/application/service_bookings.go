package application

import (
	"context"
	"fmt"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
)

// CreateBooking reserves seats on a schedule. Inventory is checked and decremented under a
// row lock on the schedule so concurrent bookings cannot oversell it.
func (s *Service) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (BookingView, error) {
	if actor.Role != domain.RoleUser && actor.Role != domain.RoleAdmin {
		return BookingView{}, fmt.Errorf("%w: only customers can book seats", domain.ErrForbidden)
	}
	scheduleID, err := parseID(req.ScheduleID, "scheduleId")
	if err != nil {
		return BookingView{}, err
	}
	seats, err := domain.NormalizeSeats(req.Seats)
	if err != nil {
		return BookingView{}, err
	}

	now := s.nowFn()
	booking, err := s.bookings.Reserve(ctx, ports.ReserveSeatsParams{
		UserID:     actor.UserID,
		ScheduleID: scheduleID,
		Seats:      seats,
		BookedAt:   now,
	}, func(b domain.Booking) ports.OutboxEvent {
		return bookingEvent(eventBookingCreated, b, now)
	})
	if err != nil {
		appLogger().WarnContext(ctx, "booking rejected",
			"operation", "create_booking",
			"outcome", "failure",
			"schedule_id", scheduleID.String(),
			"seat_count", len(seats),
			"error", err,
		)
		return BookingView{}, err
	}
	s.metrics.BookingCreated(len(seats))

	full, err := s.bookings.GetByID(ctx, booking.BookingID)
	if err != nil {
		full = booking
	}
	if full.Bus != nil && full.Bus.Owner != nil {
		owner := *full.Bus.Owner
		s.notifyBestEffort(ctx, "send_booking_notification", func(ctx context.Context) error {
			return s.notifier.SendBookingNotification(ctx, owner, full)
		})
	}
	appLogger().InfoContext(ctx, "booking created",
		"operation", "create_booking",
		"outcome", "success",
		"booking_id", full.BookingID.String(),
		"schedule_id", scheduleID.String(),
		"seat_count", len(seats),
	)
	return toBookingView(full), nil
}

// ListBookings scopes results by role: customers see their own, owners see bookings on
// their buses and admins see everything.
func (s *Service) ListBookings(ctx context.Context, actor domain.Actor) ([]BookingView, error) {
	filter := ports.BookingFilter{}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleOwner:
		filter.BusOwnerID = &actor.UserID
	default:
		filter.UserID = &actor.UserID
	}
	items, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toBookingViews(items), nil
}

func (s *Service) GetBooking(ctx context.Context, actor domain.Actor, bookingID string) (BookingView, error) {
	booking, err := s.visibleBooking(ctx, actor, bookingID)
	if err != nil {
		return BookingView{}, err
	}
	return toBookingView(booking), nil
}

func (s *Service) UpdateBookingStatus(ctx context.Context, actor domain.Actor, bookingID string, req UpdateBookingStatusRequest) (BookingView, error) {
	current, err := s.visibleBooking(ctx, actor, bookingID)
	if err != nil {
		return BookingView{}, err
	}

	var status domain.BookingStatus
	if req.Status != "" {
		if status, err = domain.ParseBookingStatus(req.Status); err != nil {
			return BookingView{}, err
		}
	}
	var payment domain.PaymentStatus
	if req.PaymentStatus != "" {
		if payment, err = domain.ParsePaymentStatus(req.PaymentStatus); err != nil {
			return BookingView{}, err
		}
	}
	if status == "" && payment == "" {
		return BookingView{}, fmt.Errorf("%w: status or paymentStatus is required", domain.ErrInvalidInput)
	}
	if actor.Role == domain.RoleUser && (payment != "" || (status != "" && status != domain.BookingCancelled)) {
		return BookingView{}, fmt.Errorf("%w: customers may only cancel bookings", domain.ErrForbidden)
	}

	now := s.nowFn()
	restored := 0
	updated, err := s.bookings.Mutate(ctx, current.BookingID, func(b *domain.Booking) (int, *ports.OutboxEvent, error) {
		restored = 0
		switch {
		case status == "":
		case b.Status == domain.BookingCancelled && status != domain.BookingCancelled:
			return 0, nil, fmt.Errorf("%w: cancelled bookings cannot be reopened", domain.ErrInvalidInput)
		case status == domain.BookingCancelled && b.Status != domain.BookingCancelled:
			restored = len(b.Seats)
			b.Status = status
		default:
			b.Status = status
		}
		if payment != "" {
			b.PaymentStatus = payment
		}
		b.UpdatedAt = now
		event := bookingEvent(eventBookingStatusChanged, *b, now)
		return restored, &event, nil
	})
	if err != nil {
		return BookingView{}, err
	}
	if restored > 0 {
		s.metrics.BookingCancelled(restored)
	}
	return toBookingView(updated), nil
}

func (s *Service) CancelBooking(ctx context.Context, actor domain.Actor, bookingID string) (BookingView, error) {
	current, err := s.visibleBooking(ctx, actor, bookingID)
	if err != nil {
		return BookingView{}, err
	}
	now := s.nowFn()
	restored := 0
	updated, err := s.bookings.Mutate(ctx, current.BookingID, func(b *domain.Booking) (int, *ports.OutboxEvent, error) {
		n, err := b.Cancel()
		if err != nil {
			return 0, nil, err
		}
		b.UpdatedAt = now
		restored = n
		event := bookingEvent(eventBookingCancelled, *b, now)
		return n, &event, nil
	})
	if err != nil {
		return BookingView{}, err
	}
	s.metrics.BookingCancelled(restored)
	appLogger().InfoContext(ctx, "booking cancelled",
		"operation", "cancel_booking",
		"outcome", "success",
		"booking_id", updated.BookingID.String(),
		"restored_seats", restored,
	)
	return toBookingView(updated), nil
}

func (s *Service) visibleBooking(ctx context.Context, actor domain.Actor, bookingID string) (domain.Booking, error) {
	id, err := parseID(bookingID, "booking id")
	if err != nil {
		return domain.Booking{}, err
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	busOwner := uuid.Nil
	if booking.Bus != nil {
		busOwner = booking.Bus.OwnerID
	}
	if !booking.VisibleTo(actor, busOwner) {
		return domain.Booking{}, fmt.Errorf("%w: not authorized", domain.ErrForbidden)
	}
	return booking, nil
}
