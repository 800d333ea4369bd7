package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/strand/adapter/cli"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

type healthOutput struct {
	Status string                                       `json:"status"`
	Checks map[string]observability.HealthCheckResult `json:"checks,omitempty"`
}

func cliHealth(app *cli.App) func(context.Context, struct{}) (*healthOutput, error) {
	return func(ctx context.Context, _ struct{}) (*healthOutput, error) {
		if app.Health == nil {
			return &healthOutput{Status: "ok"}, nil
		}
		overall := app.Health.GetOverallHealth(ctx)
		return &healthOutput{Status: string(overall.Status), Checks: overall.Checks}, nil
	}
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) {
	srv.Tool("cli.health").
		Description("Check store and broker connectivity").
		Handler(cliHealth(deps.App))

	srv.Tool("cli.version").
		Description("Get CLI version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})
}
