package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rewardportal/internal/models"
	"rewardportal/internal/pkg/alert"
	"rewardportal/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// AuditJob checks that every user's balance is explained by the credit ledger.
type AuditJob struct {
	container *do.Injector
	spec      string
}

func NewAuditJob(container *do.Injector, spec string) *AuditJob {
	return &AuditJob{container, spec}
}

func (j *AuditJob) Start(cronRunner *cron.Cron) error {
	_, err := cronRunner.AddFunc(j.spec, j.run)
	if err != nil {
		return fmt.Errorf("schedule ledger audit %q: %w", j.spec, err)
	}
	do.MustInvoke[*zap.Logger](j.container).Info("ledger audit scheduled", zap.String("cron", j.spec))
	return nil
}

func (j *AuditJob) run() {
	zl := do.MustInvoke[*zap.Logger](j.container)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	serviceLedger, err := do.Invoke[*services.ServiceLedger](j.container)
	if err != nil {
		zl.Error("ledger audit", zap.Error(err))
		return
	}

	// AuditAll logs every inconsistent user itself
	broken, err := serviceLedger.AuditAll(ctx)
	if err != nil {
		zl.Error("ledger audit", zap.Error(err))
		return
	}

	zl.Info("ledger audit done", zap.Int("inconsistent", len(broken)))
}

// StockJob reports the categories in which a play can no longer find a reward.
type StockJob struct {
	container *do.Injector
	spec      string
	webhook   *alert.Webhook
}

func NewStockJob(container *do.Injector, spec string, webhook *alert.Webhook) *StockJob {
	return &StockJob{container, spec, webhook}
}

func (j *StockJob) Start(cronRunner *cron.Cron) error {
	_, err := cronRunner.AddFunc(j.spec, j.run)
	if err != nil {
		return fmt.Errorf("schedule stock report %q: %w", j.spec, err)
	}
	do.MustInvoke[*zap.Logger](j.container).Info("stock report scheduled", zap.String("cron", j.spec))
	return nil
}

func (j *StockJob) run() {
	zl := do.MustInvoke[*zap.Logger](j.container)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	serviceReward, err := do.Invoke[*services.ServiceReward](j.container)
	if err != nil {
		zl.Error("stock report", zap.Error(err))
		return
	}

	exhausted, err := serviceReward.ExhaustedCategories(ctx)
	if err != nil {
		zl.Error("stock report", zap.Error(err))
		return
	}
	if len(exhausted) == 0 {
		return
	}

	zl.Warn("categories out of rewards", zap.Strings("categories", categoryNames(exhausted)))

	if j.webhook == nil {
		return
	}

	err = j.webhook.Send(ctx, stockAlert(exhausted))
	if err != nil {
		zl.Error("send stock alert", zap.Error(err))
	}
}

func stockAlert(exhausted []models.Category) alert.Message {
	return alert.Message{
		Title: "Rewards out of stock",
		Text:  fmt.Sprintf("No rewards left for %s", strings.Join(categoryNames(exhausted), ", ")),
		Fields: map[string]string{
			"count": fmt.Sprint(len(exhausted)),
		},
	}
}

func categoryNames(categories []models.Category) []string {
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.String())
	}
	return names
}
