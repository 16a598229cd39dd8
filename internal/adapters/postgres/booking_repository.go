package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookingRepository struct {
	db *gorm.DB
}

func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *bookingRepository) Reserve(ctx context.Context, params ports.ReserveSeatsParams, eventFn func(domain.Booking) ports.OutboxEvent) (domain.Booking, error) {
	var result domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var schedule scheduleModel
		if err := lockForUpdate(tx).Where("schedule_id = ?", params.ScheduleID).Take(&schedule).Error; err != nil {
			return err
		}
		if schedule.AvailableSeats < len(params.Seats) {
			return fmt.Errorf("%w: only %d seats left", domain.ErrInsufficientSeats, schedule.AvailableSeats)
		}

		taken, err := heldSeats(tx, params.ScheduleID)
		if err != nil {
			return err
		}
		var clashes []string
		for _, seat := range params.Seats {
			if _, ok := taken[seat]; ok {
				clashes = append(clashes, seat)
			}
		}
		if len(clashes) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrSeatUnavailable, strings.Join(clashes, ", "))
		}

		rec := bookingModel{
			UserID:        params.UserID,
			ScheduleID:    schedule.ScheduleID,
			BusID:         schedule.BusID,
			Seats:         params.Seats,
			TotalAmount:   domain.TotalFor(schedule.Price, len(params.Seats)),
			BookingDate:   params.BookedAt,
			Status:        string(domain.BookingConfirmed),
			PaymentStatus: string(domain.PaymentPending),
			CreatedAt:     params.BookedAt,
			UpdatedAt:     params.BookedAt,
		}
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return err
		}
		if err := tx.Model(&scheduleModel{}).
			Where("schedule_id = ?", schedule.ScheduleID).
			Update("available_seats", gorm.Expr("available_seats - ?", len(params.Seats))).Error; err != nil {
			return err
		}

		result = toDomainBooking(rec)
		outbox := toOutboxModel(eventFn(result))
		return tx.Create(&outbox).Error
	})
	if err != nil {
		return domain.Booking{}, translate(err)
	}
	return result, nil
}

// Mutate locks the schedule before the booking, the same order Reserve takes.
func (r *bookingRepository) Mutate(ctx context.Context, bookingID uuid.UUID, fn ports.BookingMutation) (domain.Booking, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var scheduleIDs []uuid.UUID
		if err := tx.Model(&bookingModel{}).
			Where("booking_id = ?", bookingID).
			Pluck("schedule_id", &scheduleIDs).Error; err != nil {
			return err
		}
		if len(scheduleIDs) == 0 {
			return domain.ErrNotFound
		}
		scheduleID := scheduleIDs[0]
		var schedule scheduleModel
		if err := lockForUpdate(tx).Where("schedule_id = ?", scheduleID).Take(&schedule).Error; err != nil {
			return err
		}
		var rec bookingModel
		if err := lockForUpdate(tx).Where("booking_id = ?", bookingID).Take(&rec).Error; err != nil {
			return err
		}

		booking := toDomainBooking(rec)
		restore, event, err := fn(&booking)
		if err != nil {
			return err
		}
		if err := tx.Model(&bookingModel{}).
			Where("booking_id = ?", bookingID).
			Updates(map[string]any{
				"status":            string(booking.Status),
				"payment_status":    string(booking.PaymentStatus),
				"payment_intent_id": booking.PaymentIntentID,
				"updated_at":        booking.UpdatedAt,
			}).Error; err != nil {
			return err
		}
		if restore > 0 {
			if err := tx.Model(&scheduleModel{}).
				Where("schedule_id = ?", scheduleID).
				Update("available_seats", gorm.Expr("available_seats + ?", restore)).Error; err != nil {
				return err
			}
		}
		if event != nil {
			outbox := toOutboxModel(*event)
			if err := tx.Create(&outbox).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, translate(err)
	}
	return r.GetByID(ctx, bookingID)
}

func (r *bookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error) {
	var rec bookingModel
	if err := withBookingRelations(r.db.WithContext(ctx)).
		Where("booking_id = ?", bookingID).
		Take(&rec).Error; err != nil {
		return domain.Booking{}, translate(err)
	}
	return toDomainBooking(rec), nil
}

func (r *bookingRepository) List(ctx context.Context, filter ports.BookingFilter) ([]domain.Booking, error) {
	q := withBookingRelations(r.db.WithContext(ctx)).Order("created_at DESC")
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.BusOwnerID != nil {
		owned := r.db.Model(&busModel{}).Select("bus_id").Where("owner_id = ?", *filter.BusOwnerID)
		q = q.Where("bus_id IN (?)", owned)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var rows []bookingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func (r *bookingRepository) BookedSeats(ctx context.Context, scheduleID uuid.UUID) ([]string, error) {
	taken, err := heldSeats(r.db.WithContext(ctx), scheduleID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(taken))
	for seat := range taken {
		out = append(out, seat)
	}
	sort.Strings(out)
	return out, nil
}

// heldSeats collects the seat labels of every non-cancelled booking on the schedule.
func heldSeats(tx *gorm.DB, scheduleID uuid.UUID) (map[string]struct{}, error) {
	var rows []bookingModel
	if err := tx.Select("seats").
		Where("schedule_id = ?", scheduleID).
		Where("status <> ?", string(domain.BookingCancelled)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	taken := make(map[string]struct{})
	for _, row := range rows {
		for _, seat := range row.Seats {
			taken[seat] = struct{}{}
		}
	}
	return taken, nil
}

func withBookingRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("User").Preload("Schedule").Preload("Bus.Owner")
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainBooking(row))
	}
	return out
}
