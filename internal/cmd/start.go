package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/solarsizer/internal/config"
	"github.com/Iron-Ham/solarsizer/internal/event"
	"github.com/Iron-Ham/solarsizer/internal/logging"
	"github.com/Iron-Ham/solarsizer/internal/session"
	"github.com/Iron-Ham/solarsizer/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [reference]",
	Short: "Start the interactive sizing wizard",
	Long: `Start the interactive sizing wizard.

With a bill reference the lookup starts right away; otherwise the wizard
opens on the reference entry page. Logs go to the debug log in the state
directory (see 'solarsizer logs').`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the wizard needs an interactive terminal; use 'solarsizer quote <reference>' instead")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newSessionLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	resolver, err := buildResolver(ctx, cfg, logger)
	if err != nil {
		return err
	}

	bus := event.NewBus(event.WithLogger(logger))
	defer bus.Clear()

	store := session.NewStore(resolver, cfg.SizingParameters(),
		session.WithLogger(logger),
		session.WithBus(bus),
		session.WithTimeout(cfg.Resolver.Timeout()),
	)
	defer store.Close()

	reference := ""
	if len(args) > 0 {
		reference = args[0]
	}

	app, err := tui.New(ctx, tui.Options{
		Store:             store,
		Bus:               bus,
		Logger:            logger,
		Formatter:         tui.NewFormatter(cfg.TUI.Locale, cfg.TUI.CurrencySymbol),
		AnimationInterval: cfg.TUI.AnimationInterval(),
		ChartYears:        cfg.TUI.ChartYears,
		DefaultRoute:      cfg.TUI.DefaultRoute,
		Reference:         reference,
	})
	if err != nil {
		return fmt.Errorf("failed to build the wizard: %w", err)
	}

	logger.Info("wizard started", "resolver", cfg.Resolver.Mode, "reference", reference)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	logger.Info("wizard stopped")
	return nil
}

// newSessionLogger opens the rotating debug log in the state directory and
// tags it with a fresh session ID. With logging disabled it discards.
func newSessionLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewLoggerWithRotation(config.StateDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return logger.WithSession(uuid.NewString()), nil
}
