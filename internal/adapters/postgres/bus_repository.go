package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type busRepository struct {
	db *gorm.DB
}

func (r *busRepository) Create(ctx context.Context, bus domain.Bus) (domain.Bus, error) {
	rec := toBusModel(bus)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Bus{}, fmt.Errorf("%w: bus number already exists", domain.ErrConflict)
		}
		return domain.Bus{}, translate(err)
	}
	return r.GetByID(ctx, rec.BusID, 0)
}

func (r *busRepository) GetByID(ctx context.Context, busID uuid.UUID, scheduleLimit int) (domain.Bus, error) {
	var rec busModel
	if err := r.db.WithContext(ctx).Preload("Owner").Where("bus_id = ?", busID).Take(&rec).Error; err != nil {
		return domain.Bus{}, translate(err)
	}
	bus := toDomainBus(rec)
	if scheduleLimit <= 0 {
		return bus, nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	var rows []scheduleModel
	if err := r.db.WithContext(ctx).
		Where("bus_id = ?", busID).
		Where("travel_date >= ?", today).
		Order("travel_date ASC, departure_time ASC").
		Limit(scheduleLimit).
		Find(&rows).Error; err != nil {
		return domain.Bus{}, err
	}
	bus.Schedules = make([]domain.Schedule, 0, len(rows))
	for _, row := range rows {
		bus.Schedules = append(bus.Schedules, toDomainSchedule(row))
	}
	return bus, nil
}

func (r *busRepository) List(ctx context.Context) ([]domain.Bus, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *busRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Bus, error) {
	return r.find(r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

func (r *busRepository) find(q *gorm.DB) ([]domain.Bus, error) {
	var rows []busModel
	if err := q.Preload("Owner").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Bus, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainBus(row))
	}
	return out, nil
}

func (r *busRepository) Update(ctx context.Context, busID uuid.UUID, patch ports.BusPatch) (domain.Bus, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec busModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("bus_id = ?", busID).
			Take(&rec).Error; err != nil {
			return err
		}
		if patch.BusName != nil {
			rec.BusName = *patch.BusName
		}
		if patch.BusType != nil {
			rec.BusType = string(*patch.BusType)
		}
		if patch.TotalSeats != nil {
			rec.TotalSeats = *patch.TotalSeats
		}
		if patch.Amenities != nil {
			rec.Amenities = patch.Amenities
		}
		if len(patch.AppendImages) > 0 {
			rec.Images = append(nonNil(rec.Images), patch.AppendImages...)
		}
		rec.UpdatedAt = time.Now().UTC()
		return tx.Model(&busModel{}).Where("bus_id = ?", busID).Updates(map[string]any{
			"bus_name":    rec.BusName,
			"bus_type":    rec.BusType,
			"total_seats": rec.TotalSeats,
			"amenities":   jsonColumn(rec.Amenities),
			"images":      jsonColumn(rec.Images),
			"updated_at":  rec.UpdatedAt,
		}).Error
	})
	if err != nil {
		return domain.Bus{}, translate(err)
	}
	return r.GetByID(ctx, busID, 0)
}

// Delete cascades to the bus's schedules; existing bookings block it with ErrConflict.
func (r *busRepository) Delete(ctx context.Context, busID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("bus_id = ?", busID).Delete(&busModel{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
