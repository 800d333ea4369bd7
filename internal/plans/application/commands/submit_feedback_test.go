package commands

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
)

func TestSubmitFeedbackHandler_Handle(t *testing.T) {
	userID := uuid.New()

	t.Run("stores the check-in and stages the event", func(t *testing.T) {
		repo := new(mockFeedbackRepo)
		uow := new(mockUnitOfWork)
		box := outbox.NewInMemoryRepository()
		h := NewSubmitFeedbackHandler(repo, box, uow)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("Save", txCtx, mock.MatchedBy(func(f *domain.WeeklyFeedback) bool {
			return f.HairFeel() == domain.HairFeelBetter && f.Notes() == "shinier"
		})).Return(nil)

		res, err := h.Handle(ctx, SubmitFeedbackCommand{UserID: userID, HairFeel: "better", Notes: "shinier"})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, res.FeedbackID)

		msgs := box.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, domain.RoutingKeyFeedbackSubmitted, msgs[0].RoutingKey)
		assert.Equal(t, res.FeedbackID, msgs[0].AggregateID)
	})

	t.Run("invalid hair feel", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		h := NewSubmitFeedbackHandler(new(mockFeedbackRepo), outbox.NewInMemoryRepository(), uow)

		_, err := h.Handle(context.Background(), SubmitFeedbackCommand{UserID: userID, HairFeel: "amazing"})
		require.ErrorIs(t, err, domain.ErrInvalidHairFeel)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})
}
