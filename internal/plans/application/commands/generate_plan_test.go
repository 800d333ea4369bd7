package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/plans/application/ports"
	"github.com/felixgeelhaar/strand/internal/plans/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/outbox"
)

func TestGeneratePlanHandler_Handle(t *testing.T) {
	userID := uuid.New()
	profile := &ports.Profile{HairType: "curly", HairGoals: []string{"growth"}}

	t.Run("saves the profile, archives the old plan and stores the new one", func(t *testing.T) {
		plans := new(mockPlanRepo)
		profiles := new(mockProfileStore)
		gen := new(mockGenerator)
		uow := new(mockUnitOfWork)
		box := outbox.NewInMemoryRepository()
		h := NewGeneratePlanHandler(plans, profiles, gen, box, uow, fastPolicy())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		old := storedPlan(userID)

		profiles.On("SaveProfile", ctx, mock.MatchedBy(func(p ports.Profile) bool {
			return p.UID == userID && p.HairType == "curly"
		})).Return(nil)
		gen.On("Generate", ctx, mock.MatchedBy(func(r ports.Request) bool {
			return r.Kind == domain.KindInitial && r.Previous == nil && r.Temperature() == 0.7
		})).Return(draft(), nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		plans.On("FindCurrentForUpdate", txCtx, userID).Return(old, nil)
		plans.On("Save", txCtx, old).Return(nil).Once()
		plans.On("Save", txCtx, mock.MatchedBy(func(p *domain.Plan) bool { return p.IsCurrent() })).Return(nil).Once()

		res, err := h.Handle(ctx, GeneratePlanCommand{UserID: userID, Profile: profile})
		require.NoError(t, err)
		assert.Equal(t, domain.InitialCycleLength, res.Plan.CycleLength)
		assert.Equal(t, "mock", res.Plan.Source)
		assert.False(t, old.IsCurrent())

		msgs := box.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, domain.RoutingKeyPlanArchived, msgs[0].RoutingKey)
		assert.Equal(t, domain.RoutingKeyPlanGenerated, msgs[1].RoutingKey)
		plans.AssertExpectations(t)
	})

	t.Run("uses the stored profile when none is given", func(t *testing.T) {
		plans := new(mockPlanRepo)
		profiles := new(mockProfileStore)
		gen := new(mockGenerator)
		uow := new(mockUnitOfWork)
		h := NewGeneratePlanHandler(plans, profiles, gen, outbox.NewInMemoryRepository(), uow, fastPolicy())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		profiles.On("LoadProfile", ctx, userID).Return(profile, nil)
		gen.On("Generate", ctx, mock.Anything).Return(draft(), nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		plans.On("FindCurrentForUpdate", txCtx, userID).Return(nil, nil)
		plans.On("Save", txCtx, mock.Anything).Return(nil).Once()

		_, err := h.Handle(ctx, GeneratePlanCommand{UserID: userID})
		require.NoError(t, err)
		profiles.AssertNotCalled(t, "SaveProfile", mock.Anything, mock.Anything)
	})

	t.Run("missing profile", func(t *testing.T) {
		profiles := new(mockProfileStore)
		gen := new(mockGenerator)
		uow := new(mockUnitOfWork)
		h := NewGeneratePlanHandler(new(mockPlanRepo), profiles, gen, outbox.NewInMemoryRepository(), uow, fastPolicy())

		profiles.On("LoadProfile", mock.Anything, userID).Return(nil, ports.ErrProfileNotFound)

		_, err := h.Handle(context.Background(), GeneratePlanCommand{UserID: userID})
		require.ErrorIs(t, err, ports.ErrProfileNotFound)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("generator failure stores nothing", func(t *testing.T) {
		plans := new(mockPlanRepo)
		profiles := new(mockProfileStore)
		gen := new(mockGenerator)
		uow := new(mockUnitOfWork)
		box := outbox.NewInMemoryRepository()
		h := NewGeneratePlanHandler(plans, profiles, gen, box, uow, fastPolicy())

		profiles.On("LoadProfile", mock.Anything, userID).Return(profile, nil)
		gen.On("Generate", mock.Anything, mock.Anything).Return(nil, &domain.ValidationError{Problems: []domain.FieldError{{Path: "$", Message: "malformed JSON"}}})

		_, err := h.Handle(context.Background(), GeneratePlanCommand{UserID: userID})
		require.Error(t, err)
		assert.True(t, domain.IsValidationError(err))
		uow.AssertNotCalled(t, "Begin", mock.Anything)
		plans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, box.Messages())
	})

	t.Run("persistence failure rolls back", func(t *testing.T) {
		plans := new(mockPlanRepo)
		profiles := new(mockProfileStore)
		gen := new(mockGenerator)
		uow := new(mockUnitOfWork)
		box := outbox.NewInMemoryRepository()
		h := NewGeneratePlanHandler(plans, profiles, gen, box, uow, fastPolicy())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		profiles.On("LoadProfile", ctx, userID).Return(profile, nil)
		gen.On("Generate", ctx, mock.Anything).Return(draft(), nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		plans.On("FindCurrentForUpdate", txCtx, userID).Return(nil, nil)
		plans.On("Save", txCtx, mock.Anything).Return(errors.New("constraint failed"))

		_, err := h.Handle(ctx, GeneratePlanCommand{UserID: userID})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save plan")
		assert.Empty(t, box.Messages())
	})

	t.Run("missing user", func(t *testing.T) {
		h := NewGeneratePlanHandler(nil, nil, nil, nil, nil, fastPolicy())
		_, err := h.Handle(context.Background(), GeneratePlanCommand{})
		assert.ErrorIs(t, err, ErrMissingUser)
	})
}
