package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBDriver   string // postgres | sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Server
	Port          string
	CORSOrigins   string
	RateLimitAPI  int
	RateLimitAuth int

	// Signals
	BatchMaxItems int

	// Observability
	LogRetentionDays int
	SentryDSN        string
	AppEnv           string
}

func Load() *Config {
	sslMode := getEnv("DB_SSLMODE", "disable")
	if os.Getenv("DB_SSL") == "true" {
		sslMode = "require"
	}

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "signalforge"),
		DBSSLMode:  sslMode,
		DBPath:     getEnv("DB_PATH", "signalforge.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "168h"), 7*24*time.Hour),

		Port:          getEnv("PORT", "3001"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		RateLimitAPI:  parseInt(getEnv("RATE_LIMIT_API", "120"), 120),
		RateLimitAuth: parseInt(getEnv("RATE_LIMIT_AUTH", "20"), 20),

		BatchMaxItems: parseInt(getEnv("BATCH_MAX_ITEMS", "500"), 500),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
