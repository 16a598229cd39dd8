package postgres

import (
	"github.com/easysewa/booking-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Users     ports.UserRepository
	Buses     ports.BusRepository
	Schedules ports.ScheduleRepository
	Bookings  ports.BookingRepository
	Analytics ports.AnalyticsRepository
	Catalog   ports.CatalogRepository
	Outbox    ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:     &userRepository{db: db},
		Buses:     &busRepository{db: db},
		Schedules: &scheduleRepository{db: db},
		Bookings:  &bookingRepository{db: db},
		Analytics: &analyticsRepository{db: db},
		Catalog:   &catalogRepository{db: db},
		Outbox:    &outboxRepository{db: db},
	}
}
