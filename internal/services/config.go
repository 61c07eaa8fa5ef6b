package services

import (
	"context"
	"strings"

	"rewardportal/internal/datastore"
	"rewardportal/internal/models"
	"rewardportal/internal/pkg/caching"

	"github.com/samber/do"
	"go.uber.org/zap"
)

type ServiceConfig struct {
	container *do.Injector
	store     datastore.Store
	cache     caching.Cache
	logger    *zap.Logger
}

func NewServiceConfig(container *do.Injector) (*ServiceConfig, error) {
	store, err := do.Invoke[datastore.Store](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{container, store, cache, logger}, nil
}

// GetAll returns the site settings as a key/value map.
func (service *ServiceConfig) GetAll(ctx context.Context) (map[string]string, error) {
	callback := func() (map[string]string, error) {
		configs, err := service.store.ListConfigs(ctx)
		if err != nil {
			return nil, err
		}

		values := make(map[string]string, len(configs))
		for _, config := range configs {
			values[config.Key] = config.Value
		}
		return values, nil
	}

	values, err := caching.UseCache(ctx, service.cache, DBKeyConfigs(), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return nil, errInternal(err, "list config")
	}

	return values, nil
}

func (service *ServiceConfig) GetString(ctx context.Context, key string, defaultValue string) string {
	values, err := service.GetAll(ctx)
	if err != nil {
		return defaultValue
	}

	value, ok := values[key]
	if !ok {
		return defaultValue
	}
	return value
}

// SetMany upserts every pair in one transaction.
func (service *ServiceConfig) SetMany(ctx context.Context, values map[string]string) error {
	for key := range values {
		if strings.TrimSpace(key) == "" {
			return errValidation("config key must not be empty")
		}
	}

	err := service.store.RunInTx(ctx, func(ctx context.Context, tx datastore.Store) error {
		for key, value := range values {
			if err := tx.UpsertConfig(ctx, &models.Config{Key: strings.TrimSpace(key), Value: value}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errInternal(err, "update config")
	}

	if err := caching.Invalidate(ctx, service.cache, DBKeyConfigs()); err != nil {
		service.logger.Warn("clear config cache", zap.Error(err))
	}
	return nil
}
