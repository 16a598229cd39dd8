package postgres

import (
	"context"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// Summary aggregates dashboard counters. Revenue only counts paid bookings.
func (r *analyticsRepository) Summary(ctx context.Context, recentLimit int) (domain.Analytics, error) {
	db := r.db.WithContext(ctx)
	var out domain.Analytics

	out.TotalRevenue = decimal.Zero
	if err := db.Model(&bookingModel{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_status = ?", string(domain.PaymentPaid)).
		Row().
		Scan(&out.TotalRevenue); err != nil {
		return domain.Analytics{}, err
	}

	if err := db.Model(&bookingModel{}).Count(&out.TotalBookings).Error; err != nil {
		return domain.Analytics{}, err
	}
	if err := db.Model(&userModel{}).Where("role = ?", string(domain.RoleUser)).Count(&out.TotalUsers).Error; err != nil {
		return domain.Analytics{}, err
	}
	if err := db.Model(&userModel{}).Where("role = ?", string(domain.RoleOwner)).Count(&out.TotalBusOwners).Error; err != nil {
		return domain.Analytics{}, err
	}
	if err := db.Model(&busModel{}).Count(&out.TotalBuses).Error; err != nil {
		return domain.Analytics{}, err
	}

	var recent []bookingModel
	if err := withBookingRelations(db).Order("created_at DESC").Limit(recentLimit).Find(&recent).Error; err != nil {
		return domain.Analytics{}, err
	}
	out.RecentBookings = toDomainBookings(recent)
	return out, nil
}
