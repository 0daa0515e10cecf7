package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/solarsizer/internal/config"
	"github.com/Iron-Ham/solarsizer/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify solarsizer configuration",
	Long: `View or modify solarsizer configuration.

Without arguments, displays the effective configuration as YAML.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  solarsizer config set resolver.mode http
  solarsizer config set resolver.base_url http://localhost:8089
  solarsizer config set sizing.cost_per_kw 150000

Run 'solarsizer config show' to see every key. The new value is validated
before the file is written.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/solarsizer/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// configKeyTypes lists the keys config set accepts and how to parse them.
var configKeyTypes = map[string]string{
	"sizing.peak_sun_hours":       "float",
	"sizing.derate_factor":        "float",
	"sizing.panel_wattage":        "float",
	"sizing.cost_per_kw":          "float",
	"sizing.co2_tons_per_kwh":     "float",
	"sizing.trees_per_ton":        "float",
	"sizing.panel_area_sqft":      "float",
	"sizing.incentive_rate":       "float",
	"sizing.size_precision":       "int",
	"sizing.days_per_month":       "float",
	"sizing.days_per_year":        "float",
	"sizing.months_per_year":      "float",
	"sizing.cost_split.equipment": "float",
	"sizing.cost_split.labor":     "float",
	"sizing.cost_split.permits":   "float",
	"resolver.mode":               "string",
	"resolver.base_url":           "string",
	"resolver.fixtures_file":      "string",
	"resolver.timeout_seconds":    "int",
	"resolver.cache_ttl_seconds":  "int",
	"resolver.watch_fixtures":     "bool",
	"tui.default_route":           "string",
	"tui.animation_interval_ms":   "int",
	"tui.currency_symbol":         "string",
	"tui.locale":                  "string",
	"tui.chart_years":             "int",
	"logging.enabled":             "bool",
	"logging.level":               "string",
	"logging.max_size_mb":         "int",
	"logging.max_backups":         "int",
	"logging.compress":            "bool",
	"billserver.addr":             "string",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func parseConfigValue(key, value string) (any, error) {
	keyType, ok := configKeyTypes[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'solarsizer config set --help' to see valid keys", key)
	}

	switch keyType {
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected number", key)
		}
		return f, nil
	}
	if key == "resolver.mode" && !slices.Contains(config.ValidResolverModes(), value) {
		return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
			key, value, strings.Join(config.ValidResolverModes(), ", "))
	}
	return value, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseConfigValue(key, args[1])
	if err != nil {
		return err
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		viper.Set(key, previous)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

const configHeader = `# solarsizer configuration
#
# sizing:     constants the quote is derived from
# resolver:   where bills are looked up (mode: fixture or http)
# tui:        wizard presentation
# logging:    the wizard's debug log in the state directory
# billserver: the development bill server
#
# Every key can also be set from the environment, e.g.
# SOLARSIZER_RESOLVER_MODE=http.

`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'solarsizer config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode default configuration: %w", err)
	}
	if err := os.WriteFile(configFile, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize solarsizer's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintf(out, "\nDebug log: %s\n", filepath.Join(config.StateDir(), logging.FileName))
	fmt.Fprintln(out, "\nEnvironment variables: SOLARSIZER_* (e.g., SOLARSIZER_RESOLVER_MODE)")
	return nil
}
