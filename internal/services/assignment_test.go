package services

import (
	"testing"

	"rewardportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRewardReplacesLiveAssignment(t *testing.T) {
	f := newFixture(t)
	f.user("alice", 0)
	mug := f.reward("Mug", models.CategoryBox, 1, 1)
	bike := f.reward("Bike", models.CategoryWheel, 1, 1)
	assignments := invoke[*ServiceAssignment](f)

	first, err := assignments.AssignReward(f.ctx, "alice", mug.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusAssigned, first.Status)
	require.NotNil(t, first.Reward)
	assert.Equal(t, "Mug", first.Reward.Name)

	second, err := assignments.AssignReward(f.ctx, "alice", bike.ID)
	require.NoError(t, err)

	active, err := assignments.GetActiveAssignment(f.ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
	require.NotNil(t, active.Reward)
	assert.Equal(t, bike.ID, active.Reward.ID)

	all, err := assignments.ListAssignments(f.ctx, "alice")
	require.NoError(t, err)
	require.Len(t, all, 2)
	live := 0
	for _, a := range all {
		if a.Status == models.AssignmentStatusAssigned {
			live++
		}
		if a.ID == first.ID {
			assert.Equal(t, models.AssignmentStatusExpired, a.Status)
			assert.Nil(t, a.ClaimedAt)
		}
	}
	assert.Equal(t, 1, live)
}

func TestAssignRewardNotFound(t *testing.T) {
	f := newFixture(t)
	f.user("alice", 0)
	mug := f.reward("Mug", models.CategoryBox, 1, 1)
	assignments := invoke[*ServiceAssignment](f)

	_, err := assignments.AssignReward(f.ctx, "nobody", mug.ID)
	requireKind(t, err, KindNotFound)

	_, err = assignments.AssignReward(f.ctx, "alice", "missing")
	requireKind(t, err, KindNotFound)

	active, err := assignments.GetActiveAssignment(f.ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = assignments.ListAssignments(f.ctx, "nobody")
	requireKind(t, err, KindNotFound)
}

func TestDeleteRewardExpiresAssignments(t *testing.T) {
	f := newFixture(t)
	f.user("alice", 0)
	mug := f.reward("Mug", models.CategoryBox, 1, 1)
	_, err := invoke[*ServiceAssignment](f).AssignReward(f.ctx, "alice", mug.ID)
	require.NoError(t, err)

	require.NoError(t, invoke[*ServiceReward](f).DeleteReward(f.ctx, mug.ID))

	active, err := invoke[*ServiceAssignment](f).GetActiveAssignment(f.ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, active)

	err = invoke[*ServiceReward](f).DeleteReward(f.ctx, mug.ID)
	requireKind(t, err, KindNotFound)
}
