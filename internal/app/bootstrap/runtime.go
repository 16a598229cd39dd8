package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	cacheadapter "github.com/easysewa/booking-service/internal/adapters/cache"
	eventadapter "github.com/easysewa/booking-service/internal/adapters/events"
	grpcadapter "github.com/easysewa/booking-service/internal/adapters/grpc"
	httpadapter "github.com/easysewa/booking-service/internal/adapters/http"
	mailadapter "github.com/easysewa/booking-service/internal/adapters/mail"
	"github.com/easysewa/booking-service/internal/adapters/media"
	"github.com/easysewa/booking-service/internal/adapters/payments"
	"github.com/easysewa/booking-service/internal/adapters/postgres"
	"github.com/easysewa/booking-service/internal/adapters/security"
	"github.com/easysewa/booking-service/internal/application"
	"github.com/easysewa/booking-service/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

// core holds the shared dependencies every entrypoint needs.
type core struct {
	cfg       Config
	logger    *slog.Logger
	db        *gorm.DB
	redis     *redis.Client
	repos     postgres.Repositories
	metrics   *httpadapter.Metrics
	service   *application.Service
	publisher ports.EventPublisher
	closers   []func()
}

func (c *core) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newLogger(cfg Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Environment == "development" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("service", cfg.ServiceID)
}

func newCore(ctx context.Context, cfg Config, logger *slog.Logger, migrate bool) (*core, error) {
	c := &core{cfg: cfg, logger: logger}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	c.db = db
	c.closers = append(c.closers, func() { _ = sqlDB.Close() })

	if migrate {
		if err := postgres.RunMigrations(ctx, db); err != nil {
			c.close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	c.repos = postgres.NewRepositories(db)

	var lockouts ports.LockoutStore
	catalog := c.repos.Catalog
	if cfg.RedisURL != "" {
		client, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.redis = client
		c.closers = append(c.closers, func() { _ = client.Close() })
		lockouts = cacheadapter.NewRedisLockoutStore(client)
		catalog = cacheadapter.NewCachedCatalog(c.repos.Catalog, client, cfg.CatalogCacheTTL)
	} else {
		logger.Warn("REDIS_URL not set; login lockout and catalog cache disabled")
	}

	tokens, err := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTKeyID, cfg.JWTIssuer)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("init jwt signer: %w", err)
	}

	deps := application.Dependencies{
		Config: application.Config{
			TokenTTL:             cfg.TokenTTL,
			VerifyTokenTTL:       cfg.VerifyTokenTTL,
			FailedLoginThreshold: cfg.FailedLoginThreshold,
			LockoutDuration:      cfg.LockoutDuration,
			FrontendURL:          cfg.FrontendURL,
			DefaultCurrency:      cfg.DefaultCurrency,
			BusImageFolder:       cfg.BusImageFolder,
			OwnerDocumentFolder:  cfg.OwnerDocumentFolder,
		},
		Users:     c.repos.Users,
		Buses:     c.repos.Buses,
		Schedules: c.repos.Schedules,
		Bookings:  c.repos.Bookings,
		Analytics: c.repos.Analytics,
		Catalog:   catalog,
		Lockouts:  lockouts,
		Hasher:    security.NewBcryptHasher(cfg.BcryptCost),
		Tokens:    tokens,
	}

	if cfg.StripeEnabled() {
		gateway, err := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("init stripe: %w", err)
		}
		deps.Payments = gateway
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set; payment endpoints disabled")
	}

	if cfg.CloudinaryEnabled() {
		store, err := media.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, logger)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("init cloudinary: %w", err)
		}
		deps.Images = store
	} else {
		logger.Warn("cloudinary credentials not set; image uploads disabled")
	}

	composer, err := mailadapter.NewComposer(cfg.FrontendURL)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("init mail templates: %w", err)
	}
	if cfg.SMTPEnabled() {
		notifier, err := mailadapter.NewSMTPNotifier(mailadapter.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			FromName: cfg.SMTPFromName,
		}, composer, logger)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("init smtp: %w", err)
		}
		deps.Notifier = notifier
	} else {
		logger.Warn("EMAIL_USER/EMAIL_PASS not set; emails are logged instead of sent")
		deps.Notifier = mailadapter.NewLoggingNotifier(composer, logger)
	}

	c.metrics = httpadapter.NewMetrics()
	deps.Metrics = c.metrics
	c.service = application.NewService(deps)

	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, nil)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		c.publisher = kafka
		c.closers = append(c.closers, func() { _ = kafka.Close() })
	} else {
		c.publisher = eventadapter.NewLoggingPublisher(logger)
	}
	return c, nil
}

// ready pings postgres and, when configured, redis.
func (c *core) ready(ctx context.Context) error {
	if err := postgres.Ping(ctx, c.db); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if c.redis != nil {
		if err := c.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)
	logger.Info("bootstrapping easysewa booking service", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	c, err := newCore(ctx, cfg, logger, true)
	if err != nil {
		return nil, err
	}

	handler := httpadapter.NewHandler(c.service, httpadapter.Options{
		Metrics:               c.metrics,
		Ready:                 c.ready,
		AuthRequestsPerMinute: cfg.AuthRequestsPerMinute,
		AuthBurst:             cfg.AuthBurst,
		TrustProxyHeaders:     cfg.TrustProxyHeaders,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer, _ := grpcadapter.NewServer(c.service, logger)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		c.close()
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		cleanupFn: func(context.Context) {
			c.close()
		},
	}, nil
}

// NewWorkerRuntime builds a runtime that only relays the outbox. It opens no listeners.
func NewWorkerRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)
	logger.Info("bootstrapping easysewa outbox worker", "kafka_brokers", cfg.KafkaBrokers)

	c, err := newCore(ctx, cfg, logger, true)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		cfg:    cfg,
		logger: logger,
		outbox: eventadapter.NewOutboxWorker(
			logger,
			c.repos.Outbox,
			c.publisher,
			cfg.OutboxPollInterval,
			cfg.OutboxBatchSize,
			cfg.OutboxClaimTTL,
			cfg.OutboxMaxRetries,
		),
		cleanupFn: func(context.Context) {
			c.close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	if r.httpServer == nil {
		return errors.New("runtime was not built with servers")
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		r.logger.Error("server failure", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return runErr
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	if r.outbox == nil {
		return errors.New("runtime was not built with an outbox worker")
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("outbox worker started")
	err := r.outbox.Run(ctx)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
