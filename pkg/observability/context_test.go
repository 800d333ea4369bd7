package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CorrelationIDFromContext(ctx))
	assert.Equal(t, uuid.Nil, UserIDFromContext(ctx))

	ctx = WithCorrelationID(ctx, "")
	_, err := uuid.Parse(CorrelationIDFromContext(ctx))
	assert.NoError(t, err, "generated correlation id is a uuid")

	user := uuid.New()
	ctx = WithUserID(ctx, user)
	assert.Equal(t, user, UserIDFromContext(ctx))
}

func TestNewRequestContext(t *testing.T) {
	ctx := NewRequestContext(context.Background(), "parent")
	assert.Equal(t, "parent", CorrelationIDFromContext(ctx))
	assert.NotEmpty(t, RequestIDFromContext(ctx))

	fresh := NewRequestContext(context.Background(), "")
	assert.NotEmpty(t, CorrelationIDFromContext(fresh))
}
