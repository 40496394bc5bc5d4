package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the school directory API configuration
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	Database DatabaseConfig
	RedisURL string
	Kafka    KafkaConfig

	// RequestTimeout bounds every list/create request end to end
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the connection string, preferring an explicit DATABASE_URL
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether events should go to Kafka
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// WebConfig holds the browser UI configuration
type WebConfig struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	APIBaseURL  string

	// ClientTimeout bounds each call the UI makes to the API
	ClientTimeout time.Duration
	// BannerTimeout is how long the success banner stays visible
	BannerTimeout time.Duration
}

// LoadConfig loads the API configuration from .env and the environment
func LoadConfig() (*Config, error) {
	loadDotEnv()

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	requestTimeout, err := getDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	autoMigrate, err := getBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}

	maxOpen, err := getInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}

	maxIdle, err := getInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    level,
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "school_directory"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			AutoMigrate:     autoMigrate,
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: connMaxLifetime,
		},
		RedisURL: getEnv("REDIS_URL", ""),
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "school-events"),
		},
		RequestTimeout:     requestTimeout,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	return cfg, nil
}

// LoadWebConfig loads the browser UI configuration from .env and the environment
func LoadWebConfig() (*WebConfig, error) {
	loadDotEnv()

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	clientTimeout, err := getDuration("CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	bannerTimeout, err := getDuration("BANNER_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	return &WebConfig{
		Port:          getEnv("WEB_PORT", "3000"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      level,
		APIBaseURL:    strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		ClientTimeout: clientTimeout,
		BannerTimeout: bannerTimeout,
	}, nil
}

func loadDotEnv() {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
