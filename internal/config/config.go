package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	defaultJWTSecret = "change-me-in-production"
)

// Config is populated from environment variables, optionally seeded from a .env file
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	NATS     NATSConfig
	MinIO    MinIOConfig
	Ledger   LedgerConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name         string
	Environment  string // development, staging, production
	Port         string
	Version      string
	StoreBackend string // postgres or memory
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Database          string
	SSLMode           string
	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	ConnectTimeout    time.Duration
}

type RedisConfig struct {
	Host      string
	Password  string
	DB        int
	KeyPrefix string // prepended to cache keys
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// NATSConfig - an empty URL disables event publishing
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

// MinIOConfig - an empty endpoint disables work uploads
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
	PresignExpiry time.Duration
}

type LedgerConfig struct {
	Namespace           string
	LamportsPerByteYear uint64
	ExemptionYears      uint64
	AccountOverhead     uint64
	Decimals            int32
	FaucetEnabled       bool
}

type WorkerConfig struct {
	Concurrency     int
	RebuildCron     string
	ShutdownTimeout time.Duration
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "Artist Platform"),
			Environment:  getEnv("APP_ENV", "development"),
			Port:         getEnv("APP_PORT", "8080"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreBackendPostgres)),
		},
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Database:          getEnv("DB_NAME", "artist_platform"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          getEnvInt("DB_MAX_CONNS", 25),
			MinConns:          getEnvInt("DB_MIN_CONNS", 5),
			MaxConnLifetime:   getEnvDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvDuration("DB_MAX_CONN_IDLE_TIME", time.Minute),
			HealthCheckPeriod: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			MaxRetries:        getEnvInt("DB_MAX_RETRIES", 5),
			RetryDelay:        getEnvDuration("DB_RETRY_DELAY", time.Second),
			ConnectTimeout:    getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("CACHE_PREFIX", ""),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "platform"),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:        getEnv("MINIO_BUCKET", "works"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_URL", ""),
			PresignExpiry: getEnvDuration("MINIO_PRESIGN_EXPIRY", 15*time.Minute),
		},
		Ledger: LedgerConfig{
			Namespace:           getEnv("LEDGER_NAMESPACE", "artist-platform"),
			LamportsPerByteYear: getEnvUint("LEDGER_LAMPORTS_PER_BYTE_YEAR", 3480),
			ExemptionYears:      getEnvUint("LEDGER_EXEMPTION_YEARS", 2),
			AccountOverhead:     getEnvUint("LEDGER_ACCOUNT_OVERHEAD", 128),
			Decimals:            int32(getEnvInt("LEDGER_DECIMALS", 9)),
			FaucetEnabled:       getEnvBool("LEDGER_FAUCET_ENABLED", false),
		},
		Worker: WorkerConfig{
			Concurrency:     getEnvInt("WORKER_CONCURRENCY", 10),
			RebuildCron:     getEnv("WORKER_REBUILD_CRON", "@hourly"),
			ShutdownTimeout: getEnvDuration("WORKER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that cannot run
func (c *Config) Validate() error {
	switch c.App.StoreBackend {
	case StoreBackendPostgres, StoreBackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q",
			StoreBackendPostgres, StoreBackendMemory, c.App.StoreBackend)
	}
	if c.Ledger.Namespace == "" {
		return fmt.Errorf("LEDGER_NAMESPACE must not be empty")
	}
	if c.Ledger.Decimals < 0 || c.Ledger.Decimals > 18 {
		return fmt.Errorf("LEDGER_DECIMALS must be between 0 and 18")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.App.StoreBackend == StoreBackendMemory {
			return fmt.Errorf("the memory store is not allowed in production")
		}
		if c.Ledger.FaucetEnabled {
			return fmt.Errorf("LEDGER_FAUCET_ENABLED must be off in production")
		}
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
