package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lowaak/zen-breath/internal/breathing"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "session.tick_interval_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

const (
	minTickIntervalMs = 50
	maxTickIntervalMs = 60000
	maxLogSizeMB      = 500
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateSession()...)
	errs = append(errs, c.validatePatterns()...)
	errs = append(errs, c.validateLogging()...)

	if strings.TrimSpace(c.Paths.StateFile) == "" {
		errs = append(errs, ValidationError{
			Field:   "paths.state_file",
			Value:   c.Paths.StateFile,
			Message: "must not be empty",
		})
	}

	return errs
}

func (c *Config) validateSession() []ValidationError {
	var errs []ValidationError

	if c.Session.TickIntervalMs < minTickIntervalMs || c.Session.TickIntervalMs > maxTickIntervalMs {
		errs = append(errs, ValidationError{
			Field:   "session.tick_interval_ms",
			Value:   c.Session.TickIntervalMs,
			Message: fmt.Sprintf("must be between %d and %d", minTickIntervalMs, maxTickIntervalMs),
		})
	}

	return errs
}

func (c *Config) validatePatterns() []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool)
	for _, p := range breathing.DefaultCatalog().List() {
		seen[p.Name] = true
	}

	for i, pc := range c.Patterns {
		field := fmt.Sprintf("patterns[%d]", i)
		if strings.TrimSpace(pc.Name) == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Value: pc.Name, Message: "name is required"})
			continue
		}
		if seen[pc.Name] {
			errs = append(errs, ValidationError{Field: field + ".name", Value: pc.Name, Message: "duplicates an existing pattern name"})
			continue
		}
		seen[pc.Name] = true

		if err := breathing.Validate(pc.Pattern()); err != nil {
			var perr *breathing.PatternError
			if errors.As(err, &perr) {
				errs = append(errs, ValidationError{Field: field + "." + perr.Field, Value: perr.Value, Message: perr.Message})
			} else {
				errs = append(errs, ValidationError{Field: field, Value: pc.Name, Message: err.Error()})
			}
		}
	}

	if !seen[c.Session.DefaultPattern] {
		errs = append(errs, ValidationError{
			Field:   "session.default_pattern",
			Value:   c.Session.DefaultPattern,
			Message: "must name a built-in or configured pattern",
		})
	}

	return errs
}

func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	if !c.Logging.Enabled {
		return errs
	}
	if strings.TrimSpace(c.Logging.File) == "" {
		errs = append(errs, ValidationError{Field: "logging.file", Value: c.Logging.File, Message: "must not be empty when logging is enabled"})
	}
	if c.Logging.MaxSizeMB <= 0 || c.Logging.MaxSizeMB > maxLogSizeMB {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("must be between 1 and %d", maxLogSizeMB),
		})
	}
	if c.Logging.MaxBackups < 0 {
		errs = append(errs, ValidationError{Field: "logging.max_backups", Value: c.Logging.MaxBackups, Message: "must not be negative"})
	}
	if c.Logging.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{Field: "logging.max_age_days", Value: c.Logging.MaxAgeDays, Message: "must not be negative"})
	}

	return errs
}
