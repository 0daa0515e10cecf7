package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Iron-Ham/solarsizer/internal/bill"
	"github.com/Iron-Ham/solarsizer/internal/config"
	"github.com/Iron-Ham/solarsizer/internal/logging"
)

// buildResolver assembles the bill resolver the configuration asks for.
// Fixture resolvers are watched for edits until ctx is done.
func buildResolver(ctx context.Context, cfg *config.Config, logger *logging.Logger) (bill.Resolver, error) {
	var resolver bill.Resolver

	switch cfg.Resolver.Mode {
	case config.ResolverModeHTTP:
		client := &http.Client{Timeout: cfg.Resolver.Timeout()}
		r, err := bill.NewHTTPResolver(cfg.Resolver.BaseURL, bill.WithHTTPClient(client))
		if err != nil {
			return nil, err
		}
		logger.Info("using bill lookup service", "base_url", cfg.Resolver.BaseURL)
		resolver = r

	case config.ResolverModeFixture:
		path := cfg.Resolver.ResolveFixturesFile()
		f, err := bill.NewFixtureResolver(path, bill.WithFixtureLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to load bill fixtures: %w", err)
		}
		logger.Info("using bill fixtures", "path", path, "bills", len(f.References()))
		if cfg.Resolver.WatchFixtures {
			go func() {
				if err := f.Watch(ctx); err != nil {
					logger.Warn("stopped watching bill fixtures", "path", path, "error", err)
				}
			}()
		}
		resolver = f

	default:
		return nil, fmt.Errorf("unknown resolver mode %q", cfg.Resolver.Mode)
	}

	if ttl := cfg.Resolver.CacheTTL(); ttl > 0 {
		resolver = bill.NewCachingResolver(resolver, ttl)
	}
	return resolver, nil
}

// loadConfig loads and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
