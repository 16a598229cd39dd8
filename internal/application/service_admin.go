package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
)

func (s *Service) ListUsers(ctx context.Context, role string) ([]UserView, error) {
	var filter domain.Role
	if strings.TrimSpace(role) != "" {
		filter = domain.Role(strings.ToLower(strings.TrimSpace(role)))
		if !filter.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
		}
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	return out, nil
}

func (s *Service) ListOwners(ctx context.Context) ([]OwnerView, error) {
	owners, err := s.users.List(ctx, domain.RoleOwner)
	if err != nil {
		return nil, err
	}
	out := make([]OwnerView, 0, len(owners))
	for _, o := range owners {
		buses, err := s.buses.ListByOwner(ctx, o.UserID)
		if err != nil {
			return nil, err
		}
		view := OwnerView{UserView: toUserView(o), Buses: make([]BusRef, 0, len(buses))}
		for _, b := range buses {
			view.Buses = append(view.Buses, BusRef{ID: b.BusID, BusName: b.BusName, BusNumber: b.BusNumber})
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *Service) SetOwnerApproval(ctx context.Context, ownerID string, approved bool) (UserView, error) {
	id, err := parseID(ownerID, "owner id")
	if err != nil {
		return UserView{}, err
	}
	owner, err := s.users.GetByID(ctx, id)
	if err != nil {
		return UserView{}, err
	}
	if owner.Role != domain.RoleOwner {
		return UserView{}, domain.ErrNotOwnerAccount
	}

	now := s.nowFn()
	event := newOutboxEvent(eventOwnerApprovalChanged, id.String(), map[string]any{
		"owner_id":    id.String(),
		"is_approved": approved,
	}, now)
	updated, err := s.users.Update(ctx, id, ports.UserPatch{IsApproved: &approved}, &event)
	if err != nil {
		return UserView{}, err
	}
	s.notifyBestEffort(ctx, "send_approval_email", func(ctx context.Context) error {
		return s.notifier.SendOwnerApproval(ctx, updated, approved)
	})
	appLogger().InfoContext(ctx, "owner approval changed",
		"operation", "set_owner_approval",
		"outcome", "success",
		"owner_id", id.String(),
		"is_approved", approved,
	)
	return toUserView(updated), nil
}

func (s *Service) Analytics(ctx context.Context) (AnalyticsView, error) {
	a, err := s.analytics.Summary(ctx, s.cfg.RecentBookingsLimit)
	if err != nil {
		return AnalyticsView{}, err
	}
	return AnalyticsView{
		TotalRevenue:   a.TotalRevenue,
		TotalBookings:  a.TotalBookings,
		TotalUsers:     a.TotalUsers,
		TotalBusOwners: a.TotalBusOwners,
		TotalBuses:     a.TotalBuses,
		RecentBookings: toBookingViews(a.RecentBookings),
	}, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	id, err := parseID(userID, "user id")
	if err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleAdmin {
		return domain.ErrCannotDeleteAdmin
	}
	return s.users.Delete(ctx, id)
}
