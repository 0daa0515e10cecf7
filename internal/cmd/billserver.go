package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/solarsizer/internal/bill"
	"github.com/Iron-Ham/solarsizer/internal/billserver"
	"github.com/Iron-Ham/solarsizer/internal/logging"
)

var billserverCmd = &cobra.Command{
	Use:   "billserver",
	Short: "Serve bill fixtures over HTTP",
	Long: `Serve bills from a fixtures file at GET /bills/{reference}, the shape
the http resolver mode expects. Point resolver.base_url at this server to
exercise the wizard against a real HTTP peer.

The fixtures file is reloaded when it changes.`,
	Args: cobra.NoArgs,
	RunE: runBillserver,
}

var (
	billserverAddr     string
	billserverFixtures string
)

func init() {
	rootCmd.AddCommand(billserverCmd)

	billserverCmd.Flags().StringVar(&billserverAddr, "addr", "", "Listen address (default: billserver.addr)")
	billserverCmd.Flags().StringVar(&billserverFixtures, "fixtures", "", "Fixtures file (default: resolver.fixtures_file)")
}

func runBillserver(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr := billserverAddr
	if addr == "" {
		addr = cfg.BillServer.Addr
	}
	path := billserverFixtures
	if path == "" {
		path = cfg.Resolver.ResolveFixturesFile()
	}

	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fixtures, err := bill.NewFixtureResolver(path, bill.WithFixtureLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to load bill fixtures: %w", err)
	}
	go func() {
		if err := fixtures.Watch(ctx); err != nil {
			logger.Warn("stopped watching bill fixtures", "path", path, "error", err)
		}
	}()

	srv := billserver.New(fixtures, billserver.WithLogger(logger))
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d bills from %s on %s\n", len(fixtures.References()), path, addr)

	return srv.ListenAndServe(ctx, addr)
}
