package services

import (
	"testing"

	"rewardportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjust(t *testing.T) {
	f := newFixture(t)
	f.user("alice", 5)
	ledger := invoke[*ServiceLedger](f)

	balance, err := ledger.Adjust(f.ctx, "alice", 20, "  ")
	require.NoError(t, err)
	assert.Equal(t, 25, balance)

	balance, err = ledger.Adjust(f.ctx, "alice", -25, "chargeback")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	history, err := ledger.ListHistory(f.ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, -25, history[0].Amount)
	assert.Equal(t, "chargeback", history[0].Description)
	assert.Equal(t, 20, history[1].Amount)
	assert.Equal(t, DEFAULT_ADJUSTMENT_DESCRIPTION, history[1].Description)
	assert.Equal(t, models.CreditTypeAdminAdjustment, history[1].Type)

	f.requireConsistent("alice")
}

func TestAdjustRejections(t *testing.T) {
	f := newFixture(t)
	f.user("alice", 5)
	ledger := invoke[*ServiceLedger](f)

	_, err := ledger.Adjust(f.ctx, "alice", 0, "")
	requireKind(t, err, KindValidation)

	_, err = ledger.Adjust(f.ctx, "nobody", 10, "")
	requireKind(t, err, KindNotFound)

	_, err = ledger.Adjust(f.ctx, "alice", -6, "")
	e := requireKind(t, err, KindInsufficientCredits)
	assert.Equal(t, 6, e.Required)
	assert.Equal(t, 5, e.Balance)

	assert.Equal(t, 5, f.credits("alice"))
	history, err := ledger.ListHistory(f.ctx, "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestListHistoryClampsLimit(t *testing.T) {
	f := newFixture(t)
	f.user("alice", 0)
	ledger := invoke[*ServiceLedger](f)
	for i := 1; i <= 3; i++ {
		_, err := ledger.Adjust(f.ctx, "alice", i, "")
		require.NoError(t, err)
	}

	history, err := ledger.ListHistory(f.ctx, "alice", -5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].Amount)

	history, err = ledger.ListHistory(f.ctx, "alice", 1000)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	_, err = ledger.ListHistory(f.ctx, "nobody", 0)
	requireKind(t, err, KindNotFound)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DEFAULT_LIST_LIMIT, clampLimit(0))
	assert.Equal(t, 1, clampLimit(-3))
	assert.Equal(t, 42, clampLimit(42))
	assert.Equal(t, MAX_LIST_LIMIT, clampLimit(101))
}

func TestAuditDetectsDrift(t *testing.T) {
	f := newFixture(t)
	f.user("alice", 10)
	f.user("bob", 10)

	// a balance change that bypasses the ledger
	_, err := f.store.ChangeUserCredits(f.ctx, "bob", 5)
	require.NoError(t, err)

	audit, err := invoke[*ServiceLedger](f).Audit(f.ctx, "bob")
	require.NoError(t, err)
	assert.False(t, audit.Consistent)
	assert.Equal(t, 15, audit.Balance)
	assert.Equal(t, 0, audit.LedgerSum)

	broken, err := invoke[*ServiceLedger](f).AuditAll(f.ctx)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	assert.Equal(t, "bob", broken[0].UserID)
}
