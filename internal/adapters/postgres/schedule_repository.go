package postgres

import (
	"context"
	"fmt"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scheduleRepository struct {
	db *gorm.DB
}

func (r *scheduleRepository) Create(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error) {
	rec := toScheduleModel(schedule)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return domain.Schedule{}, translate(err)
	}
	return toDomainSchedule(rec), nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, scheduleID uuid.UUID) (domain.Schedule, error) {
	var rec scheduleModel
	if err := r.db.WithContext(ctx).
		Preload("Bus.Owner").
		Where("schedule_id = ?", scheduleID).
		Take(&rec).Error; err != nil {
		return domain.Schedule{}, translate(err)
	}
	return toDomainSchedule(rec), nil
}

// Search matches cities case-insensitively and orders by travel date then departure.
func (r *scheduleRepository) Search(ctx context.Context, filter ports.ScheduleFilter) ([]domain.Schedule, error) {
	q := r.db.WithContext(ctx).Preload("Bus.Owner")
	if filter.From != "" {
		q = q.Where("LOWER(from_city) = LOWER(?)", filter.From)
	}
	if filter.To != "" {
		q = q.Where("LOWER(to_city) = LOWER(?)", filter.To)
	}
	if filter.Date != nil {
		q = q.Where("travel_date = ?", filter.Date.Format(domain.DateLayout))
	}
	var rows []scheduleModel
	if err := q.Order("travel_date ASC, departure_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSchedules(rows), nil
}

func (r *scheduleRepository) ListByBus(ctx context.Context, busID uuid.UUID) ([]domain.Schedule, error) {
	var rows []scheduleModel
	if err := r.db.WithContext(ctx).
		Preload("Bus.Owner").
		Where("bus_id = ?", busID).
		Order("travel_date ASC, departure_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSchedules(rows), nil
}

func (r *scheduleRepository) Save(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error) {
	rec := toScheduleModel(schedule)
	res := r.db.WithContext(ctx).
		Model(&scheduleModel{}).
		Where("schedule_id = ?", schedule.ScheduleID).
		Updates(map[string]any{
			"from_city":      rec.From,
			"to_city":        rec.To,
			"departure_time": rec.DepartureTime,
			"arrival_time":   rec.ArrivalTime,
			"travel_date":    rec.TravelDate,
			"price":          rec.Price,
			"duration":       rec.Duration,
			"updated_at":     rec.UpdatedAt,
		})
	if res.Error != nil {
		return domain.Schedule{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Schedule{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, schedule.ScheduleID)
}

func (r *scheduleRepository) Delete(ctx context.Context, scheduleID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booked int64
		if err := tx.Model(&bookingModel{}).Where("schedule_id = ?", scheduleID).Count(&booked).Error; err != nil {
			return err
		}
		if booked > 0 {
			return fmt.Errorf("%w: schedule has %d bookings", domain.ErrConflict, booked)
		}
		res := tx.Where("schedule_id = ?", scheduleID).Delete(&scheduleModel{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func toDomainSchedules(rows []scheduleModel) []domain.Schedule {
	out := make([]domain.Schedule, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainSchedule(row))
	}
	return out
}
