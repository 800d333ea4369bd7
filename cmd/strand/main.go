package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/strand/adapter/cli"
	"github.com/felixgeelhaar/strand/adapter/cli/academy"
	"github.com/felixgeelhaar/strand/adapter/cli/calendar"
	"github.com/felixgeelhaar/strand/adapter/cli/mcp"
	"github.com/felixgeelhaar/strand/adapter/cli/plan"
	"github.com/felixgeelhaar/strand/adapter/cli/profile"
	"github.com/felixgeelhaar/strand/internal/app"
	"github.com/felixgeelhaar/strand/pkg/config"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger := observability.NewLogger(observability.DefaultLogConfig())
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logCfg := observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, "strand")
	// Container start-up chatter stays out of interactive output.
	if os.Getenv("LOG_LEVEL") == "" {
		logCfg.Level = observability.LogLevelWarn
	}
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		// Commands that need storage report ErrNoApp; version and help still work.
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			logger.Error("invalid STRAND_USER_ID", "error", err)
			container.Close()
			os.Exit(1)
		}
		cliApp = cli.NewApp(container)
		cliApp.SetCurrentUserID(userID)
	}
	cli.SetApp(cliApp)

	cli.AddCommand(plan.Cmd)
	cli.AddCommand(profile.Cmd)
	cli.AddCommand(academy.Cmd)
	cli.AddCommand(calendar.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}
