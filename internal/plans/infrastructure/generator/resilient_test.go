package generator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/internal/shared/resilience"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scriptedGenerator struct {
	calls   atomic.Int32
	results []error
	block   bool
}

func (s *scriptedGenerator) Name() string { return "scripted" }

func (s *scriptedGenerator) Generate(ctx context.Context, _ ports.Request) (*domain.Draft, error) {
	n := int(s.calls.Add(1)) - 1
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if n < len(s.results) && s.results[n] != nil {
		return nil, s.results[n]
	}
	return &domain.Draft{Tasks: []domain.Task{{Day: "Monday", Action: "Wash"}}}, nil
}

func fastRetry(attempts int) resilience.Policy {
	return resilience.Policy{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, Multiplier: 1}
}

var transient = fmt.Errorf("%w: 503", ports.ErrTransient)

func TestResilient_Success(t *testing.T) {
	metrics := observability.NewInMemoryMetrics()
	g := NewResilient(&scriptedGenerator{}, Options{}, observability.DiscardLogger(), metrics)

	draft, err := g.Generate(context.Background(), ports.Request{Kind: domain.KindInitial})
	require.NoError(t, err)
	assert.Len(t, draft.Tasks, 1)
	assert.Equal(t, "scripted", g.Name())
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricPlansGenerated,
		observability.T("generator", "scripted"), observability.T("kind", "initial")))
}

func TestResilient_NoRetryByDefault(t *testing.T) {
	inner := &scriptedGenerator{results: []error{transient}}
	g := NewResilient(inner, Options{}, observability.DiscardLogger(), nil)

	_, err := g.Generate(context.Background(), ports.Request{})
	assert.ErrorIs(t, err, ports.ErrTransient)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestResilient_RetriesTransient(t *testing.T) {
	inner := &scriptedGenerator{results: []error{transient, transient}}
	g := NewResilient(inner, Options{Retry: fastRetry(3)}, observability.DiscardLogger(), nil)

	_, err := g.Generate(context.Background(), ports.Request{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestResilient_NeverRetriesValidation(t *testing.T) {
	verr := &domain.ValidationError{Problems: []domain.FieldError{{Path: "routine", Message: "empty"}}}
	inner := &scriptedGenerator{results: []error{verr}}
	metrics := observability.NewInMemoryMetrics()
	g := NewResilient(inner, Options{Retry: fastRetry(3)}, observability.DiscardLogger(), metrics)

	_, err := g.Generate(context.Background(), ports.Request{Kind: domain.KindFeedback})
	assert.True(t, domain.IsValidationError(err))
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricGeneratorRejections,
		observability.T("generator", "scripted"), observability.T("kind", "feedback")))
}

func TestResilient_Timeout(t *testing.T) {
	g := NewResilient(&scriptedGenerator{block: true}, Options{Timeout: 20 * time.Millisecond}, observability.DiscardLogger(), nil)

	_, err := g.Generate(context.Background(), ports.Request{})
	assert.ErrorIs(t, err, ports.ErrGeneratorTimeout)
}

func TestResilient_CallerCancellationIsNotTimeout(t *testing.T) {
	g := NewResilient(&scriptedGenerator{block: true}, Options{}, observability.DiscardLogger(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, ports.Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ports.ErrGeneratorTimeout))
}

func TestResilient_BreakerOpens(t *testing.T) {
	inner := &scriptedGenerator{results: []error{transient, transient, transient}}
	g := NewResilient(inner, Options{FailureThreshold: 2, Cooldown: time.Hour}, observability.DiscardLogger(), nil)

	for i := 0; i < 2; i++ {
		_, err := g.Generate(context.Background(), ports.Request{})
		require.ErrorIs(t, err, ports.ErrTransient)
	}
	assert.Equal(t, "open", g.State())

	_, err := g.Generate(context.Background(), ports.Request{})
	assert.ErrorIs(t, err, ports.ErrGeneratorUnavailable)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestResilient_ValidationDoesNotTripBreaker(t *testing.T) {
	verr := &domain.ValidationError{Problems: []domain.FieldError{{Path: "$", Message: "bad"}}}
	inner := &scriptedGenerator{results: []error{verr, verr, verr}}
	g := NewResilient(inner, Options{FailureThreshold: 2}, observability.DiscardLogger(), nil)

	for i := 0; i < 3; i++ {
		_, _ = g.Generate(context.Background(), ports.Request{})
	}
	assert.Equal(t, "closed", g.State())
}
