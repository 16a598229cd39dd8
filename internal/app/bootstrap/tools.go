package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/easysewa/booking-service/internal/adapters/postgres"
	"github.com/easysewa/booking-service/internal/application"
)

// Tools backs the one-shot commands. It connects to the database without running migrations
// or opening listeners.
type Tools struct {
	cfg    Config
	logger *slog.Logger
	core   *core
}

func NewTools(ctx context.Context, configPath string) (*Tools, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	c, err := newCore(ctx, cfg, logger, false)
	if err != nil {
		return nil, err
	}
	return &Tools{cfg: cfg, logger: logger, core: c}, nil
}

// Migrate applies the schema. With force it drops every managed table first.
func (t *Tools) Migrate(ctx context.Context, force bool) error {
	if force {
		t.logger.Warn("dropping managed tables before migrating", "operation", "migrate", "outcome", "start")
		if err := postgres.DropSchema(ctx, t.core.db); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := postgres.RunMigrations(ctx, t.core.db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	t.logger.Info("migrations applied", "operation", "migrate", "outcome", "success", "force", force)
	return nil
}

// SeedAdmin creates the super admin after making sure the schema exists.
func (t *Tools) SeedAdmin(ctx context.Context, req application.SeedAdminRequest) (application.UserView, bool, error) {
	if err := postgres.RunMigrations(ctx, t.core.db); err != nil {
		return application.UserView{}, false, fmt.Errorf("run migrations: %w", err)
	}
	user, created, err := t.core.service.SeedAdmin(ctx, req)
	if err != nil {
		return application.UserView{}, false, err
	}
	t.logger.Info("admin seed finished", "operation", "seed_admin", "outcome", "success", "created", created)
	return user, created, nil
}

func (t *Tools) Close() {
	t.core.close()
}
