package mcp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/strand/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/strand/internal/mcp"
	"github.com/felixgeelhaar/strand/pkg/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve the routine, plan, profile and academy tools over HTTP on
MCP_ADDR. Set MCP_AUTH_TOKEN to require a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := cli.Logger()

		go drainLoop(ctx, app, cfg.OutboxPollInterval, logger)

		err = mcpinternal.Serve(ctx, cfg, app, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// drainLoop publishes pending events while the server runs, so feedback
// submitted through a tool regenerates the plan.
func drainLoop(ctx context.Context, app *cli.App, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.DrainOutbox(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("failed to publish pending events", "error", err)
			}
		}
	}
}
