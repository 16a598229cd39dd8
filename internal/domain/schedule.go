package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

type Schedule struct {
	ScheduleID     uuid.UUID
	BusID          uuid.UUID
	From           string
	To             string
	DepartureTime  string
	ArrivalTime    string
	Date           time.Time
	Price          decimal.Decimal
	AvailableSeats int
	Duration       string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Bus *Bus
}

func (s Schedule) Validate() error {
	if strings.TrimSpace(s.From) == "" || strings.TrimSpace(s.To) == "" {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if _, err := ParseClock(s.DepartureTime); err != nil {
		return err
	}
	if _, err := ParseClock(s.ArrivalTime); err != nil {
		return err
	}
	if s.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if s.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if s.AvailableSeats < 0 {
		return fmt.Errorf("%w: availableSeats must not be negative", ErrInvalidInput)
	}
	return nil
}

// ParseDate accepts a calendar date in YYYY-MM-DD form.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return t, nil
}

// ParseClock accepts HH:MM and HH:MM:SS wall-clock times.
func ParseClock(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(ClockLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("15:04:05", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, raw)
}

// ComputeDuration formats the travel time between departure and arrival.
// An arrival earlier than departure is treated as the next day.
func ComputeDuration(departure, arrival string) (string, error) {
	dep, err := ParseClock(departure)
	if err != nil {
		return "", err
	}
	arr, err := ParseClock(arrival)
	if err != nil {
		return "", err
	}
	d := arr.Sub(dep)
	if d < 0 {
		d += 24 * time.Hour
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes), nil
	case minutes == 0:
		return fmt.Sprintf("%dh", hours), nil
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes), nil
	}
}
