package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Coach     CoachConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds document store connection settings
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
	MongoURI  string
}

// CoachConfig holds text-generation settings for the coach
type CoachConfig struct {
	Enabled     bool
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
}

// CatalogConfig holds strategy catalog settings
type CatalogConfig struct {
	SeedPath        string
	RefreshInterval time.Duration
}

// RateLimitConfig holds per-client rate limit settings
type RateLimitConfig struct {
	Rate   int
	Burst  int
	Window time.Duration
}

// Supported database drivers
var validDrivers = map[string]bool{
	"surrealdb": true,
	"mongo":     true,
	"memory":    true,
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:    getEnv("DB_DRIVER", "surrealdb"),
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "equimind"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
			MongoURI:  getEnv("MONGO_URI", ""),
		},
		Coach: CoachConfig{
			Enabled:     getBoolEnv("COACH_ENABLED", false),
			BaseURL:     getEnv("COACH_BASE_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey:      getEnv("COACH_API_KEY", ""),
			Model:       getEnv("COACH_MODEL", "gpt-4o-mini"),
			Timeout:     getDurationEnv("COACH_TIMEOUT", 20*time.Second),
			Temperature: getFloatEnv("COACH_TEMPERATURE", 0.7),
		},
		Catalog: CatalogConfig{
			SeedPath:        getEnv("CATALOG_SEED_PATH", ""),
			RefreshInterval: getDurationEnv("CATALOG_REFRESH_INTERVAL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Rate:   getIntEnv("RATE_LIMIT_RATE", 100),
			Burst:  getIntEnv("RATE_LIMIT_BURST", 20),
			Window: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if !validDrivers[c.Database.Driver] {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be 'surrealdb', 'mongo', or 'memory', got '%s'", c.Database.Driver))
	}
	switch c.Database.Driver {
	case "surrealdb":
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required"))
		}
	case "mongo":
		if c.Database.MongoURI == "" && c.Database.Host == "" {
			errs = append(errs, errors.New("MONGO_URI or DB_HOST is required for the mongo driver"))
		}
	case "memory":
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_DRIVER 'memory' is not allowed in production"))
		}
	}
	if c.Database.Driver != "memory" && c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// Coach validation
	if c.Coach.Enabled {
		if err := c.Coach.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("coach: %w", err))
		}
	}

	// Catalog validation
	if c.Catalog.RefreshInterval < 0 {
		errs = append(errs, errors.New("CATALOG_REFRESH_INTERVAL must not be negative"))
	}

	// Rate limit validation
	if c.RateLimit.Rate <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RATE must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks that all required coach fields are present
func (c CoachConfig) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "COACH_API_KEY")
	}
	if c.BaseURL == "" {
		missing = append(missing, "COACH_BASE_URL")
	}
	if c.Model == "" {
		missing = append(missing, "COACH_MODEL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("COACH_TEMPERATURE must be between 0 and 2, got %v", c.Temperature)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
