package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
)

func (s *Service) SearchSchedules(ctx context.Context, q ScheduleSearch) ([]ScheduleView, error) {
	filter := ports.ScheduleFilter{
		From: strings.TrimSpace(q.From),
		To:   strings.TrimSpace(q.To),
	}
	if strings.TrimSpace(q.Date) != "" {
		date, err := domain.ParseDate(q.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = &date
	}
	items, err := s.schedules.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toScheduleViews(items), nil
}

func (s *Service) ListBusSchedules(ctx context.Context, busID string) ([]ScheduleView, error) {
	id, err := parseID(busID, "bus id")
	if err != nil {
		return nil, err
	}
	items, err := s.schedules.ListByBus(ctx, id)
	if err != nil {
		return nil, err
	}
	return toScheduleViews(items), nil
}

func (s *Service) GetSchedule(ctx context.Context, scheduleID string) (ScheduleView, error) {
	id, err := parseID(scheduleID, "schedule id")
	if err != nil {
		return ScheduleView{}, err
	}
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return ScheduleView{}, err
	}
	return toScheduleView(schedule), nil
}

// BookedSeats lists seats held by non-cancelled bookings on the schedule.
func (s *Service) BookedSeats(ctx context.Context, scheduleID string) (BookedSeatsView, error) {
	id, err := parseID(scheduleID, "schedule id")
	if err != nil {
		return BookedSeatsView{}, err
	}
	seats, err := s.bookings.BookedSeats(ctx, id)
	if err != nil {
		return BookedSeatsView{}, err
	}
	if seats == nil {
		seats = []string{}
	}
	return BookedSeatsView{ScheduleID: id, BookedSeats: seats}, nil
}

func (s *Service) CreateSchedule(ctx context.Context, actor domain.Actor, req CreateScheduleRequest) (ScheduleView, error) {
	busID, err := parseID(req.BusID, "busId")
	if err != nil {
		return ScheduleView{}, err
	}
	bus, err := s.requireBusAccess(ctx, actor, busID)
	if err != nil {
		return ScheduleView{}, err
	}
	if req.Price == nil {
		return ScheduleView{}, fmt.Errorf("%w: price is required", domain.ErrInvalidInput)
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return ScheduleView{}, err
	}
	duration := strings.TrimSpace(req.Duration)
	if duration == "" {
		duration, err = domain.ComputeDuration(req.DepartureTime, req.ArrivalTime)
		if err != nil {
			return ScheduleView{}, err
		}
	}

	now := s.nowFn()
	schedule := domain.Schedule{
		BusID:          bus.BusID,
		From:           strings.TrimSpace(req.From),
		To:             strings.TrimSpace(req.To),
		DepartureTime:  strings.TrimSpace(req.DepartureTime),
		ArrivalTime:    strings.TrimSpace(req.ArrivalTime),
		Date:           date,
		Price:          *req.Price,
		AvailableSeats: bus.TotalSeats,
		Duration:       duration,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := schedule.Validate(); err != nil {
		return ScheduleView{}, err
	}
	created, err := s.schedules.Create(ctx, schedule)
	if err != nil {
		return ScheduleView{}, err
	}
	bus.Schedules = nil
	created.Bus = &bus
	return toScheduleView(created), nil
}

func (s *Service) UpdateSchedule(ctx context.Context, actor domain.Actor, scheduleID string, req UpdateScheduleRequest) (ScheduleView, error) {
	id, err := parseID(scheduleID, "schedule id")
	if err != nil {
		return ScheduleView{}, err
	}
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return ScheduleView{}, err
	}
	if _, err := s.requireBusAccess(ctx, actor, schedule.BusID); err != nil {
		return ScheduleView{}, err
	}

	if v := strings.TrimSpace(req.From); v != "" {
		schedule.From = v
	}
	if v := strings.TrimSpace(req.To); v != "" {
		schedule.To = v
	}
	if v := strings.TrimSpace(req.DepartureTime); v != "" {
		schedule.DepartureTime = v
	}
	if v := strings.TrimSpace(req.ArrivalTime); v != "" {
		schedule.ArrivalTime = v
	}
	if strings.TrimSpace(req.Date) != "" {
		date, err := domain.ParseDate(req.Date)
		if err != nil {
			return ScheduleView{}, err
		}
		schedule.Date = date
	}
	if req.Price != nil {
		schedule.Price = *req.Price
	}
	if v := strings.TrimSpace(req.Duration); v != "" {
		schedule.Duration = v
	} else if req.DepartureTime != "" || req.ArrivalTime != "" {
		if schedule.Duration, err = domain.ComputeDuration(schedule.DepartureTime, schedule.ArrivalTime); err != nil {
			return ScheduleView{}, err
		}
	}
	schedule.UpdatedAt = s.nowFn()
	if err := schedule.Validate(); err != nil {
		return ScheduleView{}, err
	}

	saved, err := s.schedules.Save(ctx, schedule)
	if err != nil {
		return ScheduleView{}, err
	}
	return toScheduleView(saved), nil
}

func (s *Service) DeleteSchedule(ctx context.Context, actor domain.Actor, scheduleID string) error {
	id, err := parseID(scheduleID, "schedule id")
	if err != nil {
		return err
	}
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.requireBusAccess(ctx, actor, schedule.BusID); err != nil {
		return err
	}
	if err := s.schedules.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

func toScheduleViews(items []domain.Schedule) []ScheduleView {
	out := make([]ScheduleView, 0, len(items))
	for _, item := range items {
		out = append(out, toScheduleView(item))
	}
	return out
}
