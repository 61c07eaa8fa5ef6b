package services

import (
	"context"
	"strings"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/models"
	"rewardportal/internal/pkg/caching"

	"github.com/google/uuid"
	"github.com/samber/do"
	"go.uber.org/zap"
)

type ServiceReward struct {
	container *do.Injector
	store     datastore.Store
	cache     caching.Cache
	logger    *zap.Logger
}

func NewServiceReward(container *do.Injector) (*ServiceReward, error) {
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

	return &ServiceReward{container, store, cache, logger}, nil
}

// RewardInput is an admin's new reward. Nil Stock and Price take their defaults.
type RewardInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
	Stock    *int   `json:"stock"`
	Price    *int   `json:"price"`
}

func (service *ServiceReward) ListRewards(ctx context.Context) ([]*models.Reward, error) {
	callback := func() ([]*models.Reward, error) {
		return service.store.ListRewards(ctx)
	}

	rewards, err := caching.UseCache(ctx, service.cache, DBKeyRewards(), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, errInternal(err, "list rewards")
	}

	return rewards, nil
}

func (service *ServiceReward) CreateReward(ctx context.Context, input RewardInput) (*models.Reward, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errValidation("name is required")
	}

	category := models.CategoryBox
	if strings.TrimSpace(input.Category) != "" {
		c, err := models.ParseCategory(input.Category)
		if err != nil {
			return nil, errValidation("%v", err)
		}
		category = c
	}

	stock := 1
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < models.StockUnlimited {
		return nil, errValidation("stock must be -1 (unlimited) or at least 0")
	}

	price := 1
	if input.Price != nil {
		price = *input.Price
	}
	if price <= 0 {
		return nil, errValidation("price must be positive")
	}

	reward := &models.Reward{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		ImageURL:  strings.TrimSpace(input.ImageURL),
		Stock:     stock,
		Price:     price,
		CreatedAt: time.Now(),
	}
	if err := service.store.CreateReward(ctx, reward); err != nil {
		return nil, errInternal(err, "create reward")
	}

	service.ClearCache(ctx)
	return reward, nil
}

// DeleteReward removes a reward and expires the assignments still pointing at it.
// Claim snapshots keep the reward name.
func (service *ServiceReward) DeleteReward(ctx context.Context, rewardID string) error {
	err := service.store.RunInTx(ctx, func(ctx context.Context, tx datastore.Store) error {
		if _, err := tx.ExpireRewardAssignments(ctx, rewardID); err != nil {
			return errInternal(err, "expire assignments")
		}

		n, err := tx.DeleteReward(ctx, rewardID)
		if err != nil {
			return errInternal(err, "delete reward")
		}
		if n == 0 {
			return errNotFound("reward %s not found", rewardID)
		}
		return nil
	})
	if err != nil {
		return classify(err, "delete reward")
	}

	service.ClearCache(ctx)
	return nil
}

// ExhaustedCategories lists the categories where a draw would find nothing.
func (service *ServiceReward) ExhaustedCategories(ctx context.Context) ([]models.Category, error) {
	var exhausted []models.Category
	for _, category := range models.Categories {
		rewards, err := service.store.ListAvailableRewards(ctx, category)
		if err != nil {
			return nil, errInternal(err, "list available rewards")
		}
		if len(rewards) == 0 {
			exhausted = append(exhausted, category)
		}
	}
	return exhausted, nil
}

func (service *ServiceReward) ClearCache(ctx context.Context) {
	if err := caching.Invalidate(ctx, service.cache, DBKeyRewards()); err != nil {
		service.logger.Warn("clear reward cache", zap.Error(err))
	}
}
