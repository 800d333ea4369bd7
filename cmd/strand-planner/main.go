// Command strand-planner serves the knowledge-base plan generator as a
// go-plugin process. Point PLAN_PLUGIN_PATH at its binary and set
// PLAN_GENERATOR=plugin to use it.
package main

import (
	"os"

	"github.com/felixgeelhaar/strand/internal/plans/infrastructure/generator/plugin"
	"github.com/felixgeelhaar/strand/internal/plans/infrastructure/generator/template"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

func main() {
	// go-plugin owns stdout for the handshake.
	logCfg := observability.LogConfigFor(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"), "json", "strand-planner")
	logCfg.Output = os.Stderr
	logger := observability.NewLogger(logCfg)

	gen, err := template.New(os.Getenv("PLAN_KNOWLEDGE_PATH"))
	if err != nil {
		logger.Error("failed to load knowledge base", "error", err)
		os.Exit(1)
	}
	plugin.Serve(gen, logger)
}
