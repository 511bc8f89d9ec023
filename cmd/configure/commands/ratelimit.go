package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/healthcheck-api/internal/config"
	"github.com/benvon/healthcheck-api/internal/ratelimit"
	"github.com/spf13/cobra"
)

// NewRatelimitCmd creates the ratelimit command.
func NewRatelimitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Inspect rate limit configuration",
		Long:  "Show the rate limit parsed from RATE_LIMITER and the configured storage.",
	}
	cmd.AddCommand(newRatelimitShowCmd())
	return cmd
}

func newRatelimitShowCmd() *cobra.Command {
	var ping bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective rate limit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rates, err := ratelimit.ParseRates(cfg.RateLimit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Rate limit configuration:")
			fmt.Fprintf(out, "  Rate: %s\n", cfg.RateLimit)
			for _, rate := range rates {
				fmt.Fprintf(out, "  Limit: %d requests per %s (Retry-After: %ds)\n",
					rate.Limit, rate.Period, ratelimit.RetryAfterSeconds(rate))
			}
			fmt.Fprintf(out, "  Storage: %s\n", cfg.RateLimitStorageURL)

			if !ping {
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			store, err := ratelimit.NewStore(ctx, cfg.RateLimitStorageURL)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer func() { _ = store.Close() }()
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("ping %s storage: %w", store.Kind(), err)
			}
			fmt.Fprintf(out, "✓ %s storage is reachable\n", store.Kind())
			return nil
		},
	}
	cmd.Flags().BoolVar(&ping, "ping", false, "Connect to the storage and ping it")
	return cmd
}
