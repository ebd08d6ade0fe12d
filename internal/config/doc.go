// Package config manages application configuration for the EquiMind API.
//
// Configuration is read from environment variables, with defaults suitable
// for local development:
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: document store driver and connection settings
//   - CoachConfig: text-generation endpoint for the coach
//   - CatalogConfig: strategy seed file and refresh interval
//   - RateLimitConfig: per-client request budget
//
// # Environment Variables
//
//	SERVER_PORT               - HTTP server port (default: 8080)
//	SERVER_ENV                - development | production | test
//	CORS_ALLOWED_ORIGINS      - comma-separated origins
//	DB_DRIVER                 - surrealdb | mongo | memory (default: surrealdb)
//	DB_HOST, DB_PORT          - SurrealDB address
//	DB_NAMESPACE, DB_DATABASE - SurrealDB namespace and database
//	DB_USER, DB_PASSWORD      - store credentials
//	MONGO_URI                 - MongoDB connection string
//	COACH_ENABLED             - enable generated coaching replies
//	COACH_BASE_URL            - chat-completions endpoint
//	COACH_API_KEY             - API key (required when enabled)
//	COACH_MODEL               - model name
//	CATALOG_SEED_PATH         - YAML file imported into the catalog at startup
//	CATALOG_REFRESH_INTERVAL  - catalog reload interval (default: 5m)
//	RATE_LIMIT_RATE           - requests per window (default: 100)
//
// Validate reports every problem at once, joined with errors.Join.
package config
