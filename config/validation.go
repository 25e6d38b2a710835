package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks the configuration and reports every problem at once.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	require := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	require("SERVER_PORT", cfg.ServerPort)
	require("JWT_SECRET", cfg.JWTSecret)

	switch cfg.DBDriver {
	case DriverPostgres:
		require("DB_HOST", cfg.DBHost)
		require("DB_PORT", cfg.DBPort)
		require("DB_USER", cfg.DBUser)
		require("DB_NAME", cfg.DBName)
		if cfg.DBSSLMode == "" {
			cfg.DBSSLMode = "disable"
		}
	case DriverSQLite:
		require("SQLITE_PATH", cfg.SQLitePath)
	default:
		errs = append(errs, ValidationError{
			Field:   "DB_DRIVER",
			Message: fmt.Sprintf("must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver),
		})
	}

	if cfg.Environment == Production && cfg.DBDriver == DriverPostgres && cfg.DBPassword == "" {
		errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "is required in production"})
	}
	if cfg.RecipeCreateLimit < 0 {
		errs = append(errs, ValidationError{Field: "RECIPE_CREATE_LIMIT", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
