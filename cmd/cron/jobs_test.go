package main

import (
	"testing"

	"rewardportal/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStockAlert(t *testing.T) {
	msg := stockAlert([]models.Category{models.CategoryWheel, models.CategoryPlinko})
	assert.Equal(t, "No rewards left for WHEEL, PLINKO", msg.Text)
	assert.Equal(t, "2", msg.Fields["count"])
}

func TestJobsRejectBadSchedule(t *testing.T) {
	injector := do.New()
	do.ProvideValue(injector, zap.NewNop())
	runner := cron.New()

	require.NoError(t, NewAuditJob(injector, "@hourly").Start(runner))
	assert.Error(t, NewStockJob(injector, "not a schedule", nil).Start(runner))
	assert.Len(t, runner.Entries(), 1)
}
