package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	JWT      JWTConfig
	App      AppConfig
	Kafka    KafkaConfig
	Jobs     JobsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// KafkaConfig is optional; no brokers means events are dropped.
type KafkaConfig struct {
	Brokers        []string
	PayrollTopic   string
	PublishTimeout time.Duration
}

type JobsConfig struct {
	PayrollAutoRunEnabled  bool
	PayrollAutoRunInterval time.Duration
}

// Load reads .env when present, then the process environment, and validates
// everything the API server needs.
func Load() (*Config, error) {
	config, err := Read()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Read loads .env and the environment without validating, so callers can
// apply overrides before checking the parts they need.
func Read() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs_hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Storage = StorageConfig{
		Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		SQLitePath: getEnv("SQLITE_PATH", "payroll.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	publishTimeout, err := time.ParseDuration(getEnv("KAFKA_PUBLISH_TIMEOUT", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid KAFKA_PUBLISH_TIMEOUT: %w", err)
	}
	config.Kafka = KafkaConfig{
		Brokers:        getEnvSlice("KAFKA_BROKERS"),
		PayrollTopic:   getEnv("KAFKA_PAYROLL_TOPIC", "payroll-events"),
		PublishTimeout: publishTimeout,
	}

	// Jobs configuration
	autoRun, err := strconv.ParseBool(getEnv("PAYROLL_AUTO_RUN_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_AUTO_RUN_ENABLED: %w", err)
	}
	autoRunInterval, err := time.ParseDuration(getEnv("PAYROLL_AUTO_RUN_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_AUTO_RUN_INTERVAL: %w", err)
	}
	config.Jobs = JobsConfig{
		PayrollAutoRunEnabled:  autoRun,
		PayrollAutoRunInterval: autoRunInterval,
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.ValidateStorage(); err != nil {
		return err
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.PayrollTopic == "" {
		return fmt.Errorf("KAFKA_PAYROLL_TOPIC is required when KAFKA_BROKERS is set")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.PublishTimeout <= 0 {
		return fmt.Errorf("KAFKA_PUBLISH_TIMEOUT must be positive")
	}
	if c.Jobs.PayrollAutoRunEnabled && c.Jobs.PayrollAutoRunInterval <= 0 {
		return fmt.Errorf("PAYROLL_AUTO_RUN_INTERVAL must be positive")
	}
	return nil
}

// ValidateStorage checks the settings of the selected storage driver.
func (c *Config) ValidateStorage() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverSQLite, c.Storage.Driver)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
