package services

import (
	"context"
	"testing"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/datastore/memstore"
	"rewardportal/internal/interfaces"
	"rewardportal/internal/models"
	"rewardportal/internal/pkg/caching"
	"rewardportal/internal/pkg/locker"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type fixture struct {
	t         *testing.T
	ctx       context.Context
	store     *memstore.Store
	locker    *locker.LocalLocker
	container *do.Injector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	l := locker.NewLocalLocker()

	injector := do.New()
	do.ProvideValue[datastore.Store](injector, store)
	do.ProvideValue[caching.Cache](injector, caching.NewCacheLocal(1000, time.Minute))
	do.ProvideValue[interfaces.Locker](injector, l)
	do.ProvideValue(injector, zap.NewNop())
	do.Provide(injector, func(i *do.Injector) (*Authentication, error) {
		return NewAuthentication(testSecret)
	})
	Provide(injector)

	return &fixture{t, context.Background(), store, l, injector}
}

func invoke[T any](f *fixture) T {
	f.t.Helper()
	v, err := do.Invoke[T](f.container)
	require.NoError(f.t, err)
	return v
}

func (f *fixture) user(id string, credits int) *models.User {
	f.t.Helper()
	user, err := invoke[*ServiceUser](f).CreateUser(f.ctx, id, "secret", credits)
	require.NoError(f.t, err)
	return user
}

func (f *fixture) reward(name string, category models.Category, stock int, price int) *models.Reward {
	f.t.Helper()
	reward, err := invoke[*ServiceReward](f).CreateReward(f.ctx, RewardInput{
		Name:     name,
		Category: string(category),
		Stock:    &stock,
		Price:    &price,
	})
	require.NoError(f.t, err)
	return reward
}

func (f *fixture) setMode(category models.Category, cost int, enabled bool) {
	f.t.Helper()
	mode, err := invoke[*ServiceGameMode](f).GetMode(f.ctx, category)
	require.NoError(f.t, err)
	_, err = invoke[*ServiceGameMode](f).UpdateMode(f.ctx, mode.ID, models.GameModeUpdate{Cost: &cost, Enabled: &enabled})
	require.NoError(f.t, err)
}

func (f *fixture) credits(userID string) int {
	f.t.Helper()
	user, err := f.store.FindUserByID(f.ctx, userID)
	require.NoError(f.t, err)
	return user.Credits
}

func (f *fixture) stock(rewardID string) int {
	f.t.Helper()
	reward, err := f.store.FindRewardByID(f.ctx, rewardID)
	require.NoError(f.t, err)
	return reward.Stock
}

func (f *fixture) requireConsistent(userID string) {
	f.t.Helper()
	audit, err := invoke[*ServiceLedger](f).Audit(f.ctx, userID)
	require.NoError(f.t, err)
	require.True(f.t, audit.Consistent, "ledger sum %d, balance %d, initial %d", audit.LedgerSum, audit.Balance, audit.InitialCredits)
}

func categoryPtr(c models.Category) *models.Category {
	return &c
}
