package config

import (
	"strings"
	"testing"
)

func hasFieldError(errs []ValidationError, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "tui.chart_years", Value: 0, Message: "must be between 1 and 50"}
	want := "tui.chart_years: must be between 1 and 50 (got: 0)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := ValidationErrors(nil).Error(); got != "" {
			t.Errorf("Error() = %q, want empty", got)
		}
	})

	t.Run("single", func(t *testing.T) {
		errs := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}}
		if got := errs.Error(); got != "a: bad (got: 1)" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "a", Value: 1, Message: "bad"},
			{Field: "b", Value: 2, Message: "worse"},
		}
		got := errs.Error()
		if !strings.HasPrefix(got, "2 validation errors:") {
			t.Errorf("Error() = %q", got)
		}
		if !strings.Contains(got, "  2. b: worse (got: 2)") {
			t.Errorf("Error() = %q", got)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default config should be valid, got %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative sun hours", func(c *Config) { c.Sizing.PeakSunHours = -1 }, "sizing.peak_sun_hours"},
		{"split off by a tenth", func(c *Config) { c.Sizing.CostSplit.Equipment = 0.7 }, "sizing.cost_split"},
		{"unknown resolver mode", func(c *Config) { c.Resolver.Mode = "ftp" }, "resolver.mode"},
		{"http without base url", func(c *Config) {
			c.Resolver.Mode = ResolverModeHTTP
			c.Resolver.BaseURL = "localhost"
		}, "resolver.base_url"},
		{"zero timeout", func(c *Config) { c.Resolver.TimeoutSeconds = 0 }, "resolver.timeout_seconds"},
		{"huge timeout", func(c *Config) { c.Resolver.TimeoutSeconds = 301 }, "resolver.timeout_seconds"},
		{"negative cache ttl", func(c *Config) { c.Resolver.CacheTTLSeconds = -1 }, "resolver.cache_ttl_seconds"},
		{"relative default route", func(c *Config) { c.TUI.DefaultRoute = "quote" }, "tui.default_route"},
		{"fast animation", func(c *Config) { c.TUI.AnimationIntervalMs = 1 }, "tui.animation_interval_ms"},
		{"bad locale", func(c *Config) { c.TUI.Locale = "not a locale!" }, "tui.locale"},
		{"zero chart years", func(c *Config) { c.TUI.ChartYears = 0 }, "tui.chart_years"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb"},
		{"huge log size", func(c *Config) { c.Logging.MaxSizeMB = 5000 }, "logging.max_size_mb"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
		{"bare host", func(c *Config) { c.BillServer.Addr = "localhost" }, "billserver.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if !hasFieldError(errs, tt.field) {
				t.Errorf("Validate() = %v, want an error for %s", errs, tt.field)
			}
		})
	}
}

func TestConfig_Validate_HTTPModeValid(t *testing.T) {
	cfg := Default()
	cfg.Resolver.Mode = ResolverModeHTTP
	cfg.Resolver.BaseURL = "https://bills.example.com/api"
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want none", errs)
	}
}

func TestConfig_Validate_SizingMessage(t *testing.T) {
	cfg := Default()
	cfg.Sizing.DaysPerMonth = 0
	errs := cfg.Validate()
	if len(errs) != 1 {
		t.Fatalf("Validate() = %v, want exactly one error", errs)
	}
	if errs[0].Message != "must be positive" {
		t.Errorf("Message = %q, want %q", errs[0].Message, "must be positive")
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Resolver.Mode = "nope"
	cfg.TUI.ChartYears = 0
	cfg.Logging.Level = "loud"
	if errs := cfg.Validate(); len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
}

func TestValidLogLevels(t *testing.T) {
	if got := strings.Join(ValidLogLevels(), ","); got != "debug,info,warn,error" {
		t.Errorf("ValidLogLevels() = %s", got)
	}
}
