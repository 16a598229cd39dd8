package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Route is a promoted city pair shown on the landing page.
type Route struct {
	RouteID         uuid.UUID
	From            string
	To              string
	PopularityScore int
	Image           string
	CreatedAt       time.Time
}

func (r Route) Validate() error {
	if strings.TrimSpace(r.From) == "" || strings.TrimSpace(r.To) == "" {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if r.PopularityScore < 0 || r.PopularityScore > 100 {
		return fmt.Errorf("%w: popularityScore must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

type Testimonial struct {
	TestimonialID uuid.UUID
	UserName      string
	UserImage     string
	Rating        int
	Comment       string
	Date          time.Time
	CreatedAt     time.Time
}

func (t Testimonial) Validate() error {
	if strings.TrimSpace(t.UserName) == "" || strings.TrimSpace(t.Comment) == "" {
		return fmt.Errorf("%w: userName and comment are required", ErrInvalidInput)
	}
	if t.Rating < 1 || t.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	return nil
}

// Analytics is the admin dashboard aggregate.
type Analytics struct {
	TotalRevenue   decimal.Decimal
	TotalBookings  int64
	TotalUsers     int64
	TotalBusOwners int64
	TotalBuses     int64
	RecentBookings []Booking
}
