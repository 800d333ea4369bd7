// Package gemini generates plans through the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/internal/plans/infrastructure/generator/prompt"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// contentGenerator is the subset of *genai.Models the generator calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator asks Gemini for a JSON plan.
type Generator struct {
	models contentGenerator
	model  string
	logger *slog.Logger
}

// New creates a Generator backed by the Gemini developer API.
func New(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: API key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newGenerator(client.Models, model, logger), nil
}

func newGenerator(models contentGenerator, model string, logger *slog.Logger) *Generator {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		models: models,
		model:  model,
		logger: logger.With("generator", "gemini", "model", model),
	}
}

// Name implements ports.Generator.
func (g *Generator) Name() string { return "gemini" }

// Generate implements ports.Generator.
func (g *Generator) Generate(ctx context.Context, req ports.Request) (*domain.Draft, error) {
	user, err := prompt.Build(req)
	if err != nil {
		return nil, err
	}

	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(user, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
			Temperature:       genai.Ptr(float32(req.Temperature())),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return nil, classify(ctx, err)
	}
	if resp == nil {
		return nil, domain.ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, domain.ErrEmptyResponse
	}
	g.logger.DebugContext(ctx, "completion received", "bytes", len(text))
	return domain.ParseDraft(text)
}

func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
			return fmt.Errorf("%w: gemini status %d: %s", ports.ErrTransient, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("gemini: status %d: %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("gemini: %w", err)
}
