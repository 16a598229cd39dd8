package application

import (
	"context"
	"errors"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
)

type SeedAdminRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// SeedAdmin creates the super admin account when it does not exist yet.
// It reports false when an account with the email is already present.
func (s *Service) SeedAdmin(ctx context.Context, req SeedAdminRequest) (UserView, bool, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return UserView{}, false, err
	}
	if existing, err := s.users.GetByEmail(ctx, email); err == nil {
		return toUserView(existing), false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return UserView{}, false, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return UserView{}, false, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return UserView{}, false, err
	}
	now := s.nowFn()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Super Admin"
	}
	created, err := s.users.Create(ctx, domain.User{
		Name:          name,
		Email:         email,
		Phone:         strings.TrimSpace(req.Phone),
		PasswordHash:  hash,
		Role:          domain.RoleAdmin,
		IsApproved:    true,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, newOutboxEvent(eventUserRegistered, email, map[string]any{
		"email":       email,
		"role":        string(domain.RoleAdmin),
		"is_approved": true,
	}, now))
	if err != nil {
		return UserView{}, false, err
	}
	return toUserView(created), true, nil
}
