package memstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store, id string, credits int) {
	t.Helper()
	require.NoError(t, s.CreateUser(context.Background(), &models.User{ID: id, Credits: credits, InitialCredits: credits}))
}

func TestRunInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "alice", 10)

	boom := errors.New("boom")
	err := s.RunInTx(ctx, func(ctx context.Context, tx datastore.Store) error {
		_, err := tx.ChangeUserCredits(ctx, "alice", -4)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	user, err := s.FindUserByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, user.Credits)
}

func TestRunInTxCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "alice", 10)

	err := s.RunInTx(ctx, func(ctx context.Context, tx datastore.Store) error {
		credits, err := tx.ChangeUserCredits(ctx, "alice", -4)
		if err != nil {
			return err
		}
		assert.Equal(t, 6, credits)
		return tx.InsertCreditHistory(ctx, &models.CreditHistory{UserID: "alice", Amount: -4, Type: models.CreditTypeSpend})
	})
	require.NoError(t, err)

	user, err := s.FindUserByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 6, user.Credits)

	sum, err := s.SumCreditHistory(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, -4, sum)
}

func TestChangeUserCreditsGuard(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "alice", 3)

	_, err := s.ChangeUserCredits(ctx, "alice", -4)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = s.ChangeUserCredits(ctx, "nobody", 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDecrementRewardStock(t *testing.T) {
	ctx := context.Background()
	s := New()
	finite := &models.Reward{Name: "Mug", Category: models.CategoryBox, Stock: 1, Price: 1}
	unlimited := &models.Reward{Name: "Sticker", Category: models.CategoryBox, Stock: models.StockUnlimited, Price: 1}
	require.NoError(t, s.CreateReward(ctx, finite))
	require.NoError(t, s.CreateReward(ctx, unlimited))

	n, err := s.DecrementRewardStock(ctx, finite.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.DecrementRewardStock(ctx, finite.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = s.DecrementRewardStock(ctx, unlimited.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	available, err := s.ListAvailableRewards(ctx, models.CategoryBox)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Sticker", available[0].Name)
}

func TestSingleActiveAssignment(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "alice", 0)

	first := &models.RewardAssignment{UserID: "alice", RewardID: "r1", Status: models.AssignmentStatusAssigned}
	require.NoError(t, s.CreateAssignment(ctx, first))

	err := s.CreateAssignment(ctx, &models.RewardAssignment{UserID: "alice", RewardID: "r2", Status: models.AssignmentStatusAssigned})
	assert.ErrorIs(t, err, datastore.ErrDuplicateKey)
	assert.True(t, datastore.IsDuplicateKey(err))

	n, err := s.ClaimAssignment(ctx, first.ID, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.ClaimAssignment(ctx, first.ID, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, err = s.FindActiveAssignment(ctx, "alice")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, "alice", 5)
	require.NoError(t, s.InsertClaim(ctx, &models.Claim{UserID: "alice", RewardName: "Mug", Category: models.CategoryBox, Cost: 1}))

	n, err := s.DeleteUser(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	claims, err := s.ListClaims(ctx, "alice", 50)
	require.NoError(t, err)
	assert.Empty(t, claims)
}

func TestFail(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("connection reset")

	s.Fail("ListGameModes", boom)
	_, err := s.ListGameModes(ctx)
	assert.ErrorIs(t, err, boom)

	s.Fail("ListGameModes", nil)
	_, err = s.ListGameModes(ctx)
	assert.NoError(t, err)
}
