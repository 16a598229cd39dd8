package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BusType string

const (
	BusTypeAC          BusType = "AC"
	BusTypeNonAC       BusType = "Non-AC"
	BusTypeSleeper     BusType = "Sleeper"
	BusTypeSemiSleeper BusType = "Semi-Sleeper"
)

const (
	MaxBusImages      = 10
	MaxImageSizeBytes = 5 << 20
)

func ParseBusType(raw string) (BusType, error) {
	for _, t := range []BusType{BusTypeAC, BusTypeNonAC, BusTypeSleeper, BusTypeSemiSleeper} {
		if strings.EqualFold(strings.TrimSpace(raw), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: bus type must be one of AC, Non-AC, Sleeper, Semi-Sleeper", ErrInvalidInput)
}

type Bus struct {
	BusID      uuid.UUID
	OwnerID    uuid.UUID
	BusNumber  string
	BusName    string
	BusType    BusType
	TotalSeats int
	Amenities  []string
	Rating     float64
	Images     []string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Owner     *UserSummary
	Schedules []Schedule
}

func (b Bus) Validate() error {
	if strings.TrimSpace(b.BusNumber) == "" || strings.TrimSpace(b.BusName) == "" {
		return fmt.Errorf("%w: busNumber and busName are required", ErrInvalidInput)
	}
	if _, err := ParseBusType(string(b.BusType)); err != nil {
		return err
	}
	if b.TotalSeats < 1 {
		return fmt.Errorf("%w: totalSeats must be at least 1", ErrInvalidInput)
	}
	if b.Rating < 0 || b.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidInput)
	}
	return nil
}

// OwnedBy reports whether the actor may mutate the bus.
func (b Bus) OwnedBy(actor Actor) bool {
	return actor.IsAdmin() || b.OwnerID == actor.UserID
}
