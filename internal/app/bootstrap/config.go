package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the booking service.
type Config struct {
	ServiceID   string
	Environment string

	HTTPPort int
	GRPCPort int

	DatabaseURL  string
	MaxDBConns   int32
	RedisURL     string
	KafkaBrokers []string

	JWTSecret string
	JWTKeyID  string
	JWTIssuer string

	BcryptCost           int
	TokenTTL             time.Duration
	VerifyTokenTTL       time.Duration
	FailedLoginThreshold int
	LockoutDuration      time.Duration

	AuthRequestsPerMinute int
	AuthBurst             int
	TrustProxyHeaders     bool

	FrontendURL     string
	DefaultCurrency string

	StripeSecretKey     string
	StripeWebhookSecret string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	BusImageFolder      string
	OwnerDocumentFolder string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFromName string

	CatalogCacheTTL time.Duration

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int
}

// StripeEnabled reports whether payment intents can be created.
func (c Config) StripeEnabled() bool { return c.StripeSecretKey != "" }

func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c Config) SMTPEnabled() bool { return c.SMTPUser != "" && c.SMTPPassword != "" }

// configFile mirrors the YAML schema used by configs/default.yaml.
type configFile struct {
	Service struct {
		ID          string `yaml:"id"`
		Environment string `yaml:"environment"`
		HTTPPort    int    `yaml:"http_port"`
		GRPCPort    int    `yaml:"grpc_port"`
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Mail struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		FromName string `yaml:"from_name"`
	} `yaml:"mail"`
	Media struct {
		BusImageFolder      string `yaml:"bus_image_folder"`
		OwnerDocumentFolder string `yaml:"owner_document_folder"`
	} `yaml:"media"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> .env -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:             "easysewa-booking-service",
		Environment:           "development",
		HTTPPort:              5000,
		GRPCPort:              9090,
		MaxDBConns:            20,
		JWTKeyID:              "easysewa-hs256-1",
		JWTIssuer:             "easysewa",
		BcryptCost:            10,
		TokenTTL:              7 * 24 * time.Hour,
		VerifyTokenTTL:        24 * time.Hour,
		FailedLoginThreshold:  5,
		LockoutDuration:       15 * time.Minute,
		AuthRequestsPerMinute: 20,
		AuthBurst:             5,
		FrontendURL:           "http://localhost:5173",
		DefaultCurrency:       "usd",
		BusImageFolder:        "bus_images",
		OwnerDocumentFolder:   "owner_documents",
		SMTPHost:              "smtp.gmail.com",
		SMTPPort:              587,
		SMTPFromName:          "EasySewa",
		CatalogCacheTTL:       5 * time.Minute,
		OutboxPollInterval:    2 * time.Second,
		OutboxBatchSize:       100,
		OutboxClaimTTL:        30 * time.Second,
		OutboxMaxRetries:      5,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		applyFile(&cfg, f)
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg.Environment = envOrDefault("APP_ENV", cfg.Environment)
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("DATABASE_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTKeyID = envOrDefault("JWT_KEY_ID", cfg.JWTKeyID)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.FrontendURL = strings.TrimRight(envOrDefault("FRONTEND_URL", cfg.FrontendURL), "/")
	cfg.DefaultCurrency = strings.ToLower(envOrDefault("DEFAULT_CURRENCY", cfg.DefaultCurrency))
	cfg.StripeSecretKey = envOrDefault("STRIPE_SECRET_KEY", cfg.StripeSecretKey)
	cfg.StripeWebhookSecret = envOrDefault("STRIPE_WEBHOOK_SECRET", cfg.StripeWebhookSecret)
	cfg.CloudinaryCloudName = envOrDefault("CLOUDINARY_CLOUD_NAME", cfg.CloudinaryCloudName)
	cfg.CloudinaryAPIKey = envOrDefault("CLOUDINARY_API_KEY", cfg.CloudinaryAPIKey)
	cfg.CloudinaryAPISecret = envOrDefault("CLOUDINARY_API_SECRET", cfg.CloudinaryAPISecret)
	cfg.SMTPHost = envOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPUser = envOrDefault("EMAIL_USER", cfg.SMTPUser)
	cfg.SMTPPassword = envOrDefault("EMAIL_PASS", cfg.SMTPPassword)

	cfg.HTTPPort = envInt("PORT", envInt("HTTP_PORT", cfg.HTTPPort))
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.FailedLoginThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.FailedLoginThreshold)
	cfg.AuthRequestsPerMinute = envInt("AUTH_RATE_LIMIT_PER_MINUTE", cfg.AuthRequestsPerMinute)
	cfg.AuthBurst = envInt("AUTH_RATE_LIMIT_BURST", cfg.AuthBurst)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.TrustProxyHeaders = envBool("TRUST_PROXY_HEADERS", cfg.TrustProxyHeaders)

	cfg.TokenTTL = time.Duration(envInt("TOKEN_EXPIRY_HOURS", int(cfg.TokenTTL.Hours()))) * time.Hour
	cfg.LockoutDuration = time.Duration(envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutDuration.Minutes()))) * time.Minute
	cfg.CatalogCacheTTL = time.Duration(envInt("CATALOG_CACHE_TTL_SECONDS", int(cfg.CatalogCacheTTL.Seconds()))) * time.Second
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxClaimTTL = time.Duration(envInt("OUTBOX_CLAIM_TTL_SECONDS", int(cfg.OutboxClaimTTL.Seconds()))) * time.Second
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}
	if cfg.StripeSecretKey != "" && cfg.StripeWebhookSecret == "" {
		return Config{}, fmt.Errorf("missing STRIPE_WEBHOOK_SECRET")
	}
	return cfg, nil
}

func applyFile(cfg *Config, f configFile) {
	if f.Service.ID != "" {
		cfg.ServiceID = f.Service.ID
	}
	if f.Service.Environment != "" {
		cfg.Environment = f.Service.Environment
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Service.GRPCPort > 0 {
		cfg.GRPCPort = f.Service.GRPCPort
	}
	if f.Service.FrontendURL != "" {
		cfg.FrontendURL = f.Service.FrontendURL
	}
	if f.Dependencies.PostgresURL != "" {
		cfg.DatabaseURL = f.Dependencies.PostgresURL
	}
	if f.Dependencies.RedisURL != "" {
		cfg.RedisURL = f.Dependencies.RedisURL
	}
	if len(f.Dependencies.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
	}
	if f.Mail.Host != "" {
		cfg.SMTPHost = f.Mail.Host
	}
	if f.Mail.Port > 0 {
		cfg.SMTPPort = f.Mail.Port
	}
	if f.Mail.FromName != "" {
		cfg.SMTPFromName = f.Mail.FromName
	}
	if f.Media.BusImageFolder != "" {
		cfg.BusImageFolder = f.Media.BusImageFolder
	}
	if f.Media.OwnerDocumentFolder != "" {
		cfg.OwnerDocumentFolder = f.Media.OwnerDocumentFolder
	}
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt falls back on empty or unparsable values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

// envCSV parses comma-separated env vars and drops empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
