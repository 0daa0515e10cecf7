package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/solarsizer/internal/sizing"
)

// AppName names the config and state directories.
const AppName = "solarsizer"

// Resolver modes
const (
	ResolverModeHTTP    = "http"
	ResolverModeFixture = "fixture"
)

// Config represents the complete solarsizer configuration
type Config struct {
	Sizing     SizingConfig     `mapstructure:"sizing" yaml:"sizing"`
	Resolver   ResolverConfig   `mapstructure:"resolver" yaml:"resolver"`
	TUI        TUIConfig        `mapstructure:"tui" yaml:"tui"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	BillServer BillServerConfig `mapstructure:"billserver" yaml:"billserver"`
}

// SizingConfig holds the constants the quote engine derives with.
type SizingConfig struct {
	PeakSunHours  float64         `mapstructure:"peak_sun_hours" yaml:"peak_sun_hours"`
	DerateFactor  float64         `mapstructure:"derate_factor" yaml:"derate_factor"`
	PanelWattage  float64         `mapstructure:"panel_wattage" yaml:"panel_wattage"`
	CostPerKW     float64         `mapstructure:"cost_per_kw" yaml:"cost_per_kw"`
	CO2TonsPerKWh float64         `mapstructure:"co2_tons_per_kwh" yaml:"co2_tons_per_kwh"`
	TreesPerTon   float64         `mapstructure:"trees_per_ton" yaml:"trees_per_ton"`
	PanelAreaSqFt float64         `mapstructure:"panel_area_sqft" yaml:"panel_area_sqft"`
	IncentiveRate float64         `mapstructure:"incentive_rate" yaml:"incentive_rate"`
	SizePrecision int             `mapstructure:"size_precision" yaml:"size_precision"`
	DaysPerMonth  float64         `mapstructure:"days_per_month" yaml:"days_per_month"`
	DaysPerYear   float64         `mapstructure:"days_per_year" yaml:"days_per_year"`
	MonthsPerYear float64         `mapstructure:"months_per_year" yaml:"months_per_year"`
	CostSplit     CostSplitConfig `mapstructure:"cost_split" yaml:"cost_split"`
}

// CostSplitConfig holds the cost breakdown weights. They must sum to 1.
type CostSplitConfig struct {
	Equipment float64 `mapstructure:"equipment" yaml:"equipment"`
	Labor     float64 `mapstructure:"labor" yaml:"labor"`
	Permits   float64 `mapstructure:"permits" yaml:"permits"`
}

// ResolverConfig controls where bill records come from
type ResolverConfig struct {
	// Mode is "http" (query BaseURL) or "fixture" (read FixturesFile)
	Mode string `mapstructure:"mode" yaml:"mode"`
	// BaseURL is the bill lookup service root, e.g. http://localhost:8089
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// FixturesFile is a YAML list of bill records used in fixture mode
	FixturesFile string `mapstructure:"fixtures_file" yaml:"fixtures_file"`
	// TimeoutSeconds bounds a single lookup (default: 15)
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// CacheTTLSeconds keeps successful lookups for this long; 0 disables caching
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
	// WatchFixtures reloads FixturesFile when it changes
	WatchFixtures bool `mapstructure:"watch_fixtures" yaml:"watch_fixtures"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// DefaultRoute is the page shown for unknown paths (default: "/")
	DefaultRoute string `mapstructure:"default_route" yaml:"default_route"`
	// AnimationIntervalMs is the tick of the dashboard count-up animation
	AnimationIntervalMs int `mapstructure:"animation_interval_ms" yaml:"animation_interval_ms"`
	// CurrencySymbol prefixes money amounts
	CurrencySymbol string `mapstructure:"currency_symbol" yaml:"currency_symbol"`
	// Locale is a BCP 47 tag used for number grouping (default: "en")
	Locale string `mapstructure:"locale" yaml:"locale"`
	// ChartYears is how many years the savings projection spans
	ChartYears int `mapstructure:"chart_years" yaml:"chart_years"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether the TUI writes debug.log (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated log files
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// BillServerConfig controls the development bill lookup server
type BillServerConfig struct {
	// Addr is the listen address (default: ":8089")
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	params := sizing.DefaultParameters()
	return &Config{
		Sizing: SizingConfig{
			PeakSunHours:  params.PeakSunHours,
			DerateFactor:  params.DerateFactor,
			PanelWattage:  params.PanelWattage,
			CostPerKW:     params.CostPerKW,
			CO2TonsPerKWh: params.CO2TonsPerKWh,
			TreesPerTon:   params.TreesPerTon,
			PanelAreaSqFt: params.PanelAreaSqFt,
			IncentiveRate: params.IncentiveRate,
			SizePrecision: params.SizePrecision,
			DaysPerMonth:  params.DaysPerMonth,
			DaysPerYear:   params.DaysPerYear,
			MonthsPerYear: params.MonthsPerYear,
			CostSplit: CostSplitConfig{
				Equipment: params.CostSplit.Equipment,
				Labor:     params.CostSplit.Labor,
				Permits:   params.CostSplit.Permits,
			},
		},
		Resolver: ResolverConfig{
			Mode:            ResolverModeFixture,
			BaseURL:         "http://localhost:8089",
			FixturesFile:    "", // Empty means <config dir>/bills.yaml
			TimeoutSeconds:  15,
			CacheTTLSeconds: 300,
			WatchFixtures:   true,
		},
		TUI: TUIConfig{
			DefaultRoute:        "/",
			AnimationIntervalMs: 40,
			CurrencySymbol:      "₦",
			Locale:              "en",
			ChartYears:          25,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 2,
			Compress:   false,
		},
		BillServer: BillServerConfig{
			Addr: ":8089",
		},
	}
}

// SizingParameters converts the sizing section for the engine.
func (c *Config) SizingParameters() sizing.Parameters {
	s := c.Sizing
	return sizing.Parameters{
		PeakSunHours:  s.PeakSunHours,
		DerateFactor:  s.DerateFactor,
		PanelWattage:  s.PanelWattage,
		CostPerKW:     s.CostPerKW,
		CO2TonsPerKWh: s.CO2TonsPerKWh,
		TreesPerTon:   s.TreesPerTon,
		PanelAreaSqFt: s.PanelAreaSqFt,
		IncentiveRate: s.IncentiveRate,
		SizePrecision: s.SizePrecision,
		DaysPerMonth:  s.DaysPerMonth,
		DaysPerYear:   s.DaysPerYear,
		MonthsPerYear: s.MonthsPerYear,
		CostSplit: sizing.CostSplit{
			Equipment: s.CostSplit.Equipment,
			Labor:     s.CostSplit.Labor,
			Permits:   s.CostSplit.Permits,
		},
	}
}

// Timeout returns the lookup timeout as a time.Duration
func (c *ResolverConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache TTL as a time.Duration (0 means disabled)
func (c *ResolverConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ResolveFixturesFile returns FixturesFile, defaulting to bills.yaml in the
// config directory.
func (c *ResolverConfig) ResolveFixturesFile() string {
	if c.FixturesFile == "" {
		return filepath.Join(ConfigDir(), "bills.yaml")
	}
	if strings.HasPrefix(c.FixturesFile, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.FixturesFile[2:])
		}
	}
	return c.FixturesFile
}

// AnimationInterval returns the animation tick as a time.Duration
func (c *TUIConfig) AnimationInterval() time.Duration {
	return time.Duration(c.AnimationIntervalMs) * time.Millisecond
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Sizing defaults
	viper.SetDefault("sizing.peak_sun_hours", defaults.Sizing.PeakSunHours)
	viper.SetDefault("sizing.derate_factor", defaults.Sizing.DerateFactor)
	viper.SetDefault("sizing.panel_wattage", defaults.Sizing.PanelWattage)
	viper.SetDefault("sizing.cost_per_kw", defaults.Sizing.CostPerKW)
	viper.SetDefault("sizing.co2_tons_per_kwh", defaults.Sizing.CO2TonsPerKWh)
	viper.SetDefault("sizing.trees_per_ton", defaults.Sizing.TreesPerTon)
	viper.SetDefault("sizing.panel_area_sqft", defaults.Sizing.PanelAreaSqFt)
	viper.SetDefault("sizing.incentive_rate", defaults.Sizing.IncentiveRate)
	viper.SetDefault("sizing.size_precision", defaults.Sizing.SizePrecision)
	viper.SetDefault("sizing.days_per_month", defaults.Sizing.DaysPerMonth)
	viper.SetDefault("sizing.days_per_year", defaults.Sizing.DaysPerYear)
	viper.SetDefault("sizing.months_per_year", defaults.Sizing.MonthsPerYear)
	viper.SetDefault("sizing.cost_split.equipment", defaults.Sizing.CostSplit.Equipment)
	viper.SetDefault("sizing.cost_split.labor", defaults.Sizing.CostSplit.Labor)
	viper.SetDefault("sizing.cost_split.permits", defaults.Sizing.CostSplit.Permits)

	// Resolver defaults
	viper.SetDefault("resolver.mode", defaults.Resolver.Mode)
	viper.SetDefault("resolver.base_url", defaults.Resolver.BaseURL)
	viper.SetDefault("resolver.fixtures_file", defaults.Resolver.FixturesFile)
	viper.SetDefault("resolver.timeout_seconds", defaults.Resolver.TimeoutSeconds)
	viper.SetDefault("resolver.cache_ttl_seconds", defaults.Resolver.CacheTTLSeconds)
	viper.SetDefault("resolver.watch_fixtures", defaults.Resolver.WatchFixtures)

	// TUI defaults
	viper.SetDefault("tui.default_route", defaults.TUI.DefaultRoute)
	viper.SetDefault("tui.animation_interval_ms", defaults.TUI.AnimationIntervalMs)
	viper.SetDefault("tui.currency_symbol", defaults.TUI.CurrencySymbol)
	viper.SetDefault("tui.locale", defaults.TUI.Locale)
	viper.SetDefault("tui.chart_years", defaults.TUI.ChartYears)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Bill server defaults
	viper.SetDefault("billserver.addr", defaults.BillServer.Addr)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns where the TUI keeps its debug log
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".local", "state", AppName)
}

// ValidResolverModes returns the list of valid resolver.mode values
func ValidResolverModes() []string {
	return []string{ResolverModeHTTP, ResolverModeFixture}
}
