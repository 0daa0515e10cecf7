package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/Iron-Ham/solarsizer/internal/errors"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "resolver.timeout_seconds")
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

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateSizing()...)
	errs = append(errs, c.validateResolver()...)
	errs = append(errs, c.validateTUI()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validateBillServer()...)

	return errs
}

// validateSizing defers to the engine's own parameter checks so the two
// can never disagree.
func (c *Config) validateSizing() []ValidationError {
	err := c.SizingParameters().Validate()
	if err == nil {
		return nil
	}

	var valErr *errors.ValidationError
	if errors.As(err, &valErr) {
		return []ValidationError{{Field: valErr.Field, Value: valErr.Value, Message: valErr.Reason()}}
	}
	return []ValidationError{{Field: "sizing", Value: nil, Message: err.Error()}}
}

func (c *Config) validateResolver() []ValidationError {
	var errs []ValidationError
	r := c.Resolver

	if !slices.Contains(ValidResolverModes(), r.Mode) {
		errs = append(errs, ValidationError{
			Field:   "resolver.mode",
			Value:   r.Mode,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidResolverModes(), ", ")),
		})
	}

	if r.Mode == ResolverModeHTTP {
		u, err := url.Parse(r.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "resolver.base_url",
				Value:   r.BaseURL,
				Message: "must be an absolute URL when resolver.mode is http",
			})
		}
	}

	if r.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "resolver.timeout_seconds",
			Value:   r.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	const maxTimeoutSeconds = 300
	if r.TimeoutSeconds > maxTimeoutSeconds {
		errs = append(errs, ValidationError{
			Field:   "resolver.timeout_seconds",
			Value:   r.TimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d", maxTimeoutSeconds),
		})
	}

	if r.CacheTTLSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "resolver.cache_ttl_seconds",
			Value:   r.CacheTTLSeconds,
			Message: "must be non-negative (0 disables caching)",
		})
	}

	return errs
}

func (c *Config) validateTUI() []ValidationError {
	var errs []ValidationError
	t := c.TUI

	if !strings.HasPrefix(t.DefaultRoute, "/") {
		errs = append(errs, ValidationError{
			Field:   "tui.default_route",
			Value:   t.DefaultRoute,
			Message: "must start with /",
		})
	}

	if t.AnimationIntervalMs < 10 || t.AnimationIntervalMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "tui.animation_interval_ms",
			Value:   t.AnimationIntervalMs,
			Message: "must be between 10 and 1000",
		})
	}

	if _, err := language.Parse(t.Locale); err != nil {
		errs = append(errs, ValidationError{
			Field:   "tui.locale",
			Value:   t.Locale,
			Message: "must be a valid BCP 47 language tag",
		})
	}

	if t.ChartYears < 1 || t.ChartYears > 50 {
		errs = append(errs, ValidationError{
			Field:   "tui.chart_years",
			Value:   t.ChartYears,
			Message: "must be between 1 and 50",
		})
	}

	return errs
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errs
}

func (c *Config) validateBillServer() []ValidationError {
	if c.BillServer.Addr == "" || !strings.Contains(c.BillServer.Addr, ":") {
		return []ValidationError{{
			Field:   "billserver.addr",
			Value:   c.BillServer.Addr,
			Message: "must be a host:port listen address",
		}}
	}
	return nil
}
