package plugin

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/pkg/observability"
)

type stubGenerator struct {
	draft *domain.Draft
	err   error
	saw   chan time.Time
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(ctx context.Context, _ ports.Request) (*domain.Draft, error) {
	if s.saw != nil {
		deadline, _ := ctx.Deadline()
		s.saw <- deadline
	}
	return s.draft, s.err
}

func dispense(t *testing.T, impl ports.Generator) ports.Generator {
	t.Helper()
	client, _ := plugin.TestPluginRPCConn(t, PluginMap(impl), nil)
	t.Cleanup(func() { _ = client.Close() })
	raw, err := client.Dispense(Name)
	require.NoError(t, err)
	gen, ok := raw.(ports.Generator)
	require.True(t, ok)
	return gen
}

func TestGenerate_RoundTrip(t *testing.T) {
	want := &domain.Draft{
		Tasks: []domain.Task{{Day: "Monday", Action: "Wash", Details: "Gentle", Time: "19:00", Week: 1}},
		Tips:  []string{"Hydrate"},
	}
	stub := &stubGenerator{draft: want, saw: make(chan time.Time, 1)}
	gen := dispense(t, stub)

	assert.Equal(t, "stub", gen.Name())

	deadline := time.Now().Add(time.Minute).Truncate(time.Second)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	got, err := gen.Generate(ctx, ports.Request{Kind: domain.KindInitial})
	require.NoError(t, err)
	assert.Equal(t, want.Tasks, got.Tasks)
	assert.Equal(t, want.Tips, got.Tips)
	assert.True(t, deadline.Equal(<-stub.saw))
}

func TestGenerate_ErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(t *testing.T, err error)
	}{
		{"validation", &domain.ValidationError{Problems: []domain.FieldError{{Path: "routine", Message: "empty"}}}, func(t *testing.T, err error) {
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "routine", verr.Problems[0].Path)
		}},
		{"transient", fmt.Errorf("%w: 429", ports.ErrTransient), func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ports.ErrTransient)
		}},
		{"timeout", context.DeadlineExceeded, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, context.DeadlineExceeded)
		}},
		{"other", errors.New("boom"), func(t *testing.T, err error) {
			assert.ErrorContains(t, err, "boom")
			assert.NotErrorIs(t, err, ports.ErrTransient)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := dispense(t, &stubGenerator{err: tt.err})
			_, err := gen.Generate(context.Background(), ports.Request{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestLaunch_RejectsMissingBinary(t *testing.T) {
	_, err := Launch("/nonexistent/strand-planner", observability.DiscardLogger())
	assert.Error(t, err)
}

func TestHclogAdapter(t *testing.T) {
	h := newHclogAdapter(observability.DiscardLogger(), "planner")
	named := h.Named("child").With("k", "v")
	assert.Equal(t, "planner.child", named.Name())
	assert.Equal(t, []interface{}{"k", "v"}, named.ImpliedArgs())
	assert.NotNil(t, h.StandardLogger(nil))
}
