// Package generator wraps plan generators with timeouts, a circuit breaker
// and an opt-in retry policy.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
	"github.com/felixgeelhaar/strand/pkg/config"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

// Options configures a ResilientGenerator.
type Options struct {
	// Timeout bounds each call. Zero means config.DefaultGeneratorTimeout.
	Timeout time.Duration
	// Retry applies to transient failures only. The zero value never retries.
	Retry resilience.Policy
	// FailureThreshold is the number of consecutive failures that open the
	// breaker. Zero means 5.
	FailureThreshold uint32
	// Cooldown is how long the breaker stays open. Zero means 30s.
	Cooldown time.Duration
}

// ResilientGenerator decorates a ports.Generator.
type ResilientGenerator struct {
	inner   ports.Generator
	breaker *gobreaker.CircuitBreaker[*domain.Draft]
	timeout time.Duration
	retry   resilience.Policy
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewResilient wraps inner.
func NewResilient(inner ports.Generator, opts Options, logger *slog.Logger, metrics observability.Metrics) *ResilientGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultGeneratorTimeout
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}

	logger = logger.With("generator", inner.Name())
	breaker := gobreaker.NewCircuitBreaker[*domain.Draft](gobreaker.Settings{
		Name:        "plan-generator-" + inner.Name(),
		MaxRequests: 1,
		Timeout:     opts.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		// A model that answers with bad JSON is still reachable.
		IsSuccessful: func(err error) bool {
			return err == nil || domain.IsValidationError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &ResilientGenerator{
		inner:   inner,
		breaker: breaker,
		timeout: opts.Timeout,
		retry:   opts.Retry,
		logger:  logger,
		metrics: metrics,
	}
}

// Name implements ports.Generator.
func (g *ResilientGenerator) Name() string { return g.inner.Name() }

// Generate implements ports.Generator.
func (g *ResilientGenerator) Generate(ctx context.Context, req ports.Request) (*domain.Draft, error) {
	tags := []observability.Tag{observability.T("generator", g.inner.Name()), observability.T("kind", string(req.Kind))}
	timer := observability.StartTimer("plans.generate").WithMetrics(g.metrics).WithTags(tags...)

	var draft *domain.Draft
	err := resilience.Retry(ctx, g.retry, isTransient, func(ctx context.Context) error {
		var err error
		draft, err = g.attempt(ctx, req)
		return err
	})
	timer.StopWithError(err)

	switch {
	case err == nil:
		g.metrics.Counter(observability.MetricPlansGenerated, 1, tags...)
		return draft, nil
	case domain.IsValidationError(err):
		g.metrics.Counter(observability.MetricGeneratorRejections, 1, tags...)
		g.logger.WarnContext(ctx, "generator output rejected", observability.ErrorKey, err.Error())
	default:
		g.metrics.Counter(observability.MetricGeneratorErrors, 1, tags...)
		g.logger.ErrorContext(ctx, "plan generation failed", observability.ErrorKey, err.Error())
	}
	return nil, err
}

func (g *ResilientGenerator) attempt(ctx context.Context, req ports.Request) (*domain.Draft, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	draft, err := g.breaker.Execute(func() (*domain.Draft, error) {
		return g.inner.Generate(callCtx, req)
	})
	g.metrics.Timing(observability.MetricGeneratorDuration, time.Since(start), observability.T("generator", g.inner.Name()))

	switch {
	case err == nil:
		return draft, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, ports.ErrGeneratorUnavailable
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return nil, fmt.Errorf("%w after %s", ports.ErrGeneratorTimeout, g.timeout)
	}
	return nil, err
}

// State reports the breaker state for health output.
func (g *ResilientGenerator) State() string {
	return g.breaker.State().String()
}

func isTransient(err error) bool {
	return errors.Is(err, ports.ErrTransient) || errors.Is(err, ports.ErrGeneratorTimeout)
}
