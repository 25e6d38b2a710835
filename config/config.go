package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Database drivers understood by the database package.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration. Rate limiting is disabled when neither RedisURL
	// nor RedisHost is set.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	CORSOrigins []string

	// RecipeCreateLimit is the number of recipes a user may create per hour.
	RecipeCreateLimit int

	LogLevel string
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	var err error
	switch env {
	case CI:
		err = load(cfg, os.Getenv, false)
	case Development, Test:
		err = load(cfg, lookup, true)
	case Production:
		err = load(cfg, lookup, false)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// load fills cfg from get. Development defaults are applied only when
// withDefaults is set; everywhere else missing values fail validation.
func load(cfg *Config, get func(string) string, withDefaults bool) error {
	def := func(key, fallback string) string {
		if v := get(key); v != "" {
			return v
		}
		if withDefaults {
			return fallback
		}
		return ""
	}

	cfg.ServerHost = def("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = def("SERVER_PORT", "8080")

	cfg.DBDriver = def("DB_DRIVER", DriverPostgres)
	cfg.DBHost = def("DB_HOST", "localhost")
	cfg.DBPort = def("DB_PORT", "5432")
	cfg.DBUser = def("DB_USER", "postgres")
	cfg.DBPassword = def("DB_PASSWORD", "postgres")
	cfg.DBName = def("DB_NAME", "foodgram")
	cfg.DBSSLMode = def("DB_SSL_MODE", "disable")
	cfg.SQLitePath = def("SQLITE_PATH", "foodgram.db")

	cfg.RedisURL = get("REDIS_URL")
	cfg.RedisHost = get("REDIS_HOST")
	cfg.RedisPort = def("REDIS_PORT", "6379")
	cfg.RedisPassword = get("REDIS_PASSWORD")
	cfg.RedisDB = 0 // This is a constant, not a secret

	cfg.JWTSecret = def("JWT_SECRET", "development-secret")
	cfg.LogLevel = def("LOG_LEVEL", "debug")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.CORSOrigins = splitList(def("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"))

	cfg.RecipeCreateLimit = 30
	if raw := get("RECIPE_CREATE_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("RECIPE_CREATE_LIMIT: %w", err)
		}
		cfg.RecipeCreateLimit = n
	}

	return nil
}

// lookup reads an environment variable, falling back to the Docker secret
// of the same name in lower case.
func lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return readSecret(strings.ToLower(key))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// secretsDir returns the directory Docker secrets are mounted in.
func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	data, err := os.ReadFile(filepath.Join(secretsDir(), name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
