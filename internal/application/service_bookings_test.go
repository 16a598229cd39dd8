package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/easysewa/booking-service/internal/domain"
	"github.com/shopspring/decimal"
)

func TestCreateBookingDecrementsInventoryAndPrices(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	_, schedule := f.approvedOwnerWithSchedule(t)
	customer := f.register(t, "Customer", "customer@example.com", "")

	booking, err := f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"a1", " A2 "},
	})
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}
	if !booking.TotalAmount.Equal(decimal.RequireFromString("2401")) {
		t.Fatalf("expected total 2401, got %s", booking.TotalAmount)
	}
	if booking.Status != "confirmed" || booking.PaymentStatus != "pending" {
		t.Fatalf("unexpected booking state %s/%s", booking.Status, booking.PaymentStatus)
	}
	if len(booking.Seats) != 2 || booking.Seats[0] != "A1" || booking.Seats[1] != "A2" {
		t.Fatalf("expected normalized seats, got %v", booking.Seats)
	}

	after, err := f.service.GetSchedule(ctx, schedule.ID.String())
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if after.AvailableSeats != 38 {
		t.Fatalf("expected 38 seats left, got %d", after.AvailableSeats)
	}

	booked, err := f.service.BookedSeats(ctx, schedule.ID.String())
	if err != nil {
		t.Fatalf("booked seats: %v", err)
	}
	if len(booked.BookedSeats) != 2 {
		t.Fatalf("expected two booked seats, got %v", booked.BookedSeats)
	}
	if f.notifier.bookingsSent != 1 {
		t.Fatalf("owner should be notified once even when delivery fails")
	}
}

func TestCreateBookingRejectsTakenSeatAndOverbooking(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	_, schedule := f.approvedOwnerWithSchedule(t)
	customer := f.register(t, "Customer", "customer@example.com", "")

	if _, err := f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"B1"},
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	_, err := f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"b1", "B2"},
	})
	if !errors.Is(err, domain.ErrSeatUnavailable) {
		t.Fatalf("expected seat unavailable, got %v", err)
	}

	_, err = f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"C1", "c1"},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected duplicate seat labels to be rejected, got %v", err)
	}
	_, err = f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{ScheduleID: schedule.ID.String()})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected empty seats to be rejected, got %v", err)
	}
}

func TestCreateBookingInsufficientSeats(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	_, schedule := f.approvedOwnerWithSchedule(t)
	customer := f.register(t, "Customer", "customer@example.com", "")

	f.store.mu.Lock()
	s := f.store.schedules[schedule.ID]
	s.AvailableSeats = 1
	f.store.schedules[schedule.ID] = s
	f.store.mu.Unlock()

	_, err := f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"D1", "D2"},
	})
	if !errors.Is(err, domain.ErrInsufficientSeats) {
		t.Fatalf("expected insufficient seats, got %v", err)
	}
}

func TestConcurrentBookingsNeverOversell(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	_, schedule := f.approvedOwnerWithSchedule(t)
	customer := f.register(t, "Customer", "customer@example.com", "")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{
				ScheduleID: schedule.ID.String(),
				Seats:      []string{"E1"},
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if succeeded != 1 {
		t.Fatalf("expected exactly one booking of seat E1, got %d", succeeded)
	}
}

func TestOwnersCannotBookSeats(t *testing.T) {
	t.Parallel()

	f := newFixture()
	owner, schedule := f.approvedOwnerWithSchedule(t)
	_, err := f.service.CreateBooking(context.Background(), owner, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"A1"},
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCancelBookingRestoresSeatsOnce(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	_, schedule := f.approvedOwnerWithSchedule(t)
	customer := f.register(t, "Customer", "customer@example.com", "")

	booking, err := f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"A1", "A2", "A3"},
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	cancelled, err := f.service.CancelBooking(ctx, customer, booking.ID.String())
	if err != nil {
		t.Fatalf("cancel booking: %v", err)
	}
	if cancelled.Status != "cancelled" {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if _, err := f.service.CancelBooking(ctx, customer, booking.ID.String()); !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("expected already cancelled, got %v", err)
	}

	after, _ := f.service.GetSchedule(ctx, schedule.ID.String())
	if after.AvailableSeats != 40 {
		t.Fatalf("expected full inventory restored, got %d", after.AvailableSeats)
	}
	booked, _ := f.service.BookedSeats(ctx, schedule.ID.String())
	if len(booked.BookedSeats) != 0 {
		t.Fatalf("cancelled seats must be released, got %v", booked.BookedSeats)
	}
}

func TestUpdateBookingStatusCancellationRestoresSeats(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	owner, schedule := f.approvedOwnerWithSchedule(t)
	customer := f.register(t, "Customer", "customer@example.com", "")

	booking, err := f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"F1", "F2"},
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if _, err := f.service.UpdateBookingStatus(ctx, customer, booking.ID.String(), application.UpdateBookingStatusRequest{
		PaymentStatus: "paid",
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("customers must not change payment status, got %v", err)
	}

	updated, err := f.service.UpdateBookingStatus(ctx, owner, booking.ID.String(), application.UpdateBookingStatusRequest{
		Status: "cancelled",
	})
	if err != nil {
		t.Fatalf("owner cancel via status: %v", err)
	}
	if updated.Status != "cancelled" {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
	after, _ := f.service.GetSchedule(ctx, schedule.ID.String())
	if after.AvailableSeats != 40 {
		t.Fatalf("expected seats restored, got %d", after.AvailableSeats)
	}

	if _, err := f.service.UpdateBookingStatus(ctx, owner, booking.ID.String(), application.UpdateBookingStatusRequest{
		Status: "cancelled",
	}); err != nil {
		t.Fatalf("repeat cancel via status should be a no-op, got %v", err)
	}
	after, _ = f.service.GetSchedule(ctx, schedule.ID.String())
	if after.AvailableSeats != 40 {
		t.Fatalf("seats must not be restored twice, got %d", after.AvailableSeats)
	}

	if _, err := f.service.UpdateBookingStatus(ctx, owner, booking.ID.String(), application.UpdateBookingStatusRequest{
		Status: "confirmed",
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected reopen to be rejected, got %v", err)
	}
}

func TestBookingVisibilityByRole(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	owner, schedule := f.approvedOwnerWithSchedule(t)
	alice := f.register(t, "Alice", "alice@example.com", "")
	bob := f.register(t, "Bob", "bob@example.com", "")
	admin := f.admin(t)

	booking, err := f.service.CreateBooking(ctx, alice, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"G1"},
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if _, err := f.service.GetBooking(ctx, bob, booking.ID.String()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("other customers must not see the booking, got %v", err)
	}
	for name, actor := range map[string]domain.Actor{"owner": owner, "admin": admin, "self": alice} {
		view, err := f.service.GetBooking(ctx, actor, booking.ID.String())
		if err != nil {
			t.Fatalf("%s get booking: %v", name, err)
		}
		if view.User == nil || view.User.Email != "alice@example.com" {
			t.Fatalf("%s expected booking user details, got %+v", name, view.User)
		}
	}

	mine, _ := f.service.ListBookings(ctx, bob)
	if len(mine) != 0 {
		t.Fatalf("bob should have no bookings, got %d", len(mine))
	}
	ownerList, _ := f.service.ListBookings(ctx, owner)
	if len(ownerList) != 1 {
		t.Fatalf("owner should see bookings on their bus, got %d", len(ownerList))
	}
	all, _ := f.service.ListBookings(ctx, admin)
	if len(all) != 1 {
		t.Fatalf("admin should see all bookings, got %d", len(all))
	}
}

func TestBookingLifecycleEmitsOutboxEvents(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	_, schedule := f.approvedOwnerWithSchedule(t)
	customer := f.register(t, "Customer", "customer@example.com", "")

	booking, err := f.service.CreateBooking(ctx, customer, application.CreateBookingRequest{
		ScheduleID: schedule.ID.String(),
		Seats:      []string{"H1"},
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if _, err := f.service.CancelBooking(ctx, customer, booking.ID.String()); err != nil {
		t.Fatalf("cancel booking: %v", err)
	}

	seen := map[string]int{}
	for _, et := range f.store.eventTypes() {
		seen[et]++
	}
	if seen["booking.created"] != 1 || seen["booking.cancelled"] != 1 {
		t.Fatalf("unexpected outbox events: %v", seen)
	}
	if seen["owner.approval_changed"] != 1 {
		t.Fatalf("expected approval event from owner fixture, got %v", seen)
	}
}
