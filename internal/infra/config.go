package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	AdminJWTSecret   string
	GeoIPDBPath      string
	AllowedOrigins   []string
	QueueClaimPolicy string
	BulkMaxItems     int
	BulkConcurrency  int
	ItemTimeout      time.Duration
	DBMaxConns       int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AdminJWTSecret:   os.Getenv("ADMIN_JWT_SECRET"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins:   splitList(os.Getenv("ALLOWED_ORIGINS")),
		QueueClaimPolicy: getEnv("QUEUE_CLAIM_POLICY", "advisory"),
		BulkMaxItems:     getEnvInt("BULK_MAX_ITEMS", 200),
		BulkConcurrency:  getEnvInt("BULK_CONCURRENCY", 8),
		ItemTimeout:      time.Second * time.Duration(getEnvInt("ITEM_TIMEOUT_SECONDS", 5)),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 10),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.AdminJWTSecret == "" {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET is required")
	}

	if cfg.QueueClaimPolicy != "advisory" && cfg.QueueClaimPolicy != "exclusive" {
		return nil, fmt.Errorf("QUEUE_CLAIM_POLICY must be advisory or exclusive, got %q", cfg.QueueClaimPolicy)
	}

	return cfg, nil
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
