package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/solarsizer/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "solarsizer",
	Short: "Size a solar installation from an electricity bill",
	Long: `Solarsizer looks up an electricity bill by its reference number and
sizes a solar installation from it: system size, panel count, cost,
savings, payback and environmental impact.

Run 'solarsizer start' for the interactive wizard, or
'solarsizer quote <reference>' for a one-shot quote.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/solarsizer/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SOLARSIZER")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SOLARSIZER_RESOLVER_MODE for resolver.mode
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
