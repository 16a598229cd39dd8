package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/google/uuid"
)

func appLogger() *slog.Logger {
	return slog.Default().With(
		"service", "easysewa-booking-service",
		"module", "application",
		"layer", "application",
	)
}

// normalizeEmail canonicalizes and validates email format before persistence/comparison.
func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return trimmed, nil
}

// hashToken stores one-way token fingerprints instead of raw secrets.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}

func randomHex(bytesLen int) string {
	raw := make([]byte, bytesLen)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a valid id", domain.ErrInvalidInput, field)
	}
	return id, nil
}

// notifyBestEffort runs a notification and only logs delivery failures.
func (s *Service) notifyBestEffort(ctx context.Context, operation string, fn func(context.Context) error) {
	if s.notifier == nil {
		return
	}
	if err := fn(ctx); err != nil {
		appLogger().WarnContext(ctx, "notification delivery failed",
			"operation", operation,
			"outcome", "failure",
			"error", err,
		)
	}
}

// requireBusAccess loads the bus and checks that the actor owns it or is an admin.
func (s *Service) requireBusAccess(ctx context.Context, actor domain.Actor, busID uuid.UUID) (domain.Bus, error) {
	bus, err := s.buses.GetByID(ctx, busID, 0)
	if err != nil {
		return domain.Bus{}, err
	}
	if !bus.OwnedBy(actor) {
		return domain.Bus{}, fmt.Errorf("%w: not authorized", domain.ErrForbidden)
	}
	return bus, nil
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
