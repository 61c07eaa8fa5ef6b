package services

import (
	"errors"
	"testing"

	"rewardportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListModesSelfHeals(t *testing.T) {
	f := newFixture(t)
	modes := invoke[*ServiceGameMode](f)

	list, err := modes.ListModes(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, len(models.Categories))
	for i, mode := range list {
		assert.Equal(t, models.Categories[i], mode.Category)
		assert.Equal(t, models.DefaultGameModeCost, mode.Cost)
		assert.True(t, mode.Enabled)
	}

	cost := 25
	_, err = modes.UpdateMode(f.ctx, list[1].ID, models.GameModeUpdate{Cost: &cost})
	require.NoError(t, err)

	again, err := modes.ListModes(f.ctx)
	require.NoError(t, err)
	require.Len(t, again, len(models.Categories))
	assert.Equal(t, list[1].ID, again[1].ID)
	assert.Equal(t, 25, again[1].Cost)
}

func TestUpdateModePartial(t *testing.T) {
	f := newFixture(t)
	modes := invoke[*ServiceGameMode](f)
	plinko, err := modes.GetMode(f.ctx, models.CategoryPlinko)
	require.NoError(t, err)

	disabled := false
	updated, err := modes.UpdateMode(f.ctx, plinko.ID, models.GameModeUpdate{Enabled: &disabled})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
	assert.Equal(t, models.DefaultGameModeCost, updated.Cost)

	cost := 3
	updated, err = modes.UpdateMode(f.ctx, plinko.ID, models.GameModeUpdate{Cost: &cost})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
	assert.Equal(t, 3, updated.Cost)
}

func TestUpdateModeRejections(t *testing.T) {
	f := newFixture(t)
	modes := invoke[*ServiceGameMode](f)
	box, err := modes.GetMode(f.ctx, models.CategoryBox)
	require.NoError(t, err)

	zero := 0
	_, err = modes.UpdateMode(f.ctx, box.ID, models.GameModeUpdate{Cost: &zero})
	requireKind(t, err, KindValidation)

	cost := 5
	_, err = modes.UpdateMode(f.ctx, "missing", models.GameModeUpdate{Cost: &cost})
	requireKind(t, err, KindNotFound)
}

func TestListModesStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.store.Fail("ListGameModes", errors.New("connection reset"))

	_, err := invoke[*ServiceGameMode](f).ListModes(f.ctx)
	requireKind(t, err, KindInternal)
}
