package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/infrastructure/generator/gemini"
	"github.com/felixgeelhaar/strand/internal/plans/infrastructure/generator/openai"
	"github.com/felixgeelhaar/strand/internal/plans/infrastructure/generator/plugin"
	"github.com/felixgeelhaar/strand/internal/plans/infrastructure/generator/template"
	"github.com/felixgeelhaar/strand/pkg/config"
)

// newPlanGenerator builds the generator named by PLAN_GENERATOR. The
// returned close func releases plugin processes and is never nil.
func newPlanGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.Generator, func() error, error) {
	noop := func() error { return nil }

	switch cfg.PlanGenerator {
	case config.GeneratorOpenAI:
		gen, err := openai.New(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.PlanGeneratorTimeout,
		}, logger)
		return gen, noop, err

	case config.GeneratorGemini:
		gen, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		return gen, noop, err

	case config.GeneratorPlugin:
		client, err := plugin.Launch(cfg.PlanPluginPath, logger)
		if err != nil {
			return nil, noop, err
		}
		return client, client.Close, nil

	case config.GeneratorTemplate, "":
		gen, err := template.New(cfg.PlanKnowledgePath)
		return gen, noop, err

	default:
		return nil, noop, fmt.Errorf("unknown plan generator %q", cfg.PlanGenerator)
	}
}
