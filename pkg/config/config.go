package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

type Config struct {
	Port string

	// DBDriver selects the storage backend: "postgres" (default) or "sqlite".
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// DBPath is the sqlite database file.
	DBPath string

	JWTSecret string
	// AccessTokenTTL and RefreshTokenTTL of zero mean the token never expires.
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Location is where calendar days are cut. Every day key uses it.
	Location *time.Location

	LogLevel    string
	LogFile     string
	CORSOrigins string
}

var Cfg *Config

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

// Load reads the environment into a Config. Call godotenv.Load first to pick
// up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8000"),
		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      getenv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getenv("DB_NAME", "habit_tracker"),
		DBSSLMode:   getenv("DB_SSLMODE", "disable"),
		DBPath:      getenv("DB_PATH", "habit-tracker.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFile:     os.Getenv("LOG_FILE"),
		CORSOrigins: getenv("CORS_ORIGINS", "*"),
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}

	minutes, err := getInt("ACCESS_TOKEN_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute

	hours, err := getInt("REFRESH_TOKEN_HOURS", 24*7)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL = time.Duration(hours) * time.Hour

	loc, err := time.LoadLocation(getenv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", cfg.LogLevel)
	}

	return cfg, nil
}

// Validate checks what the HTTP server needs beyond Load.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Now returns the current time in the application location.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}
