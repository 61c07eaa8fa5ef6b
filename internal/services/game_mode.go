package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"rewardportal/internal/datastore"
	"rewardportal/internal/models"

	"github.com/samber/do"
)

type ServiceGameMode struct {
	container *do.Injector
	store     datastore.Store
}

func NewServiceGameMode(container *do.Injector) (*ServiceGameMode, error) {
	store, err := do.Invoke[datastore.Store](container)
	if err != nil {
		return nil, err
	}

	return &ServiceGameMode{container, store}, nil
}

// ListModes makes sure every category has a mode row, then returns them in display order.
func (service *ServiceGameMode) ListModes(ctx context.Context) ([]*models.GameMode, error) {
	if err := service.store.EnsureGameModes(ctx, models.Categories, models.DefaultGameModeCost); err != nil {
		return nil, errInternal(err, "ensure game modes")
	}

	modes, err := service.store.ListGameModes(ctx)
	if err != nil {
		return nil, errInternal(err, "list game modes")
	}

	rank := make(map[models.Category]int, len(models.Categories))
	for i, category := range models.Categories {
		rank[category] = i
	}
	sort.SliceStable(modes, func(i, j int) bool {
		return rank[modes[i].Category] < rank[modes[j].Category]
	})

	return modes, nil
}

func (service *ServiceGameMode) GetMode(ctx context.Context, category models.Category) (*models.GameMode, error) {
	if !category.Valid() {
		return nil, errValidation("unknown category %q", category)
	}

	if err := service.store.EnsureGameModes(ctx, models.Categories, models.DefaultGameModeCost); err != nil {
		return nil, errInternal(err, "ensure game modes")
	}

	mode, err := service.store.FindGameModeByCategory(ctx, category)
	if err != nil {
		return nil, errInternal(err, "find game mode %s", category)
	}

	return mode, nil
}

func (service *ServiceGameMode) UpdateMode(ctx context.Context, id string, update models.GameModeUpdate) (*models.GameMode, error) {
	if update.Cost != nil && *update.Cost <= 0 {
		return nil, errValidation("cost must be positive")
	}

	_, err := service.store.FindGameModeByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("game mode %s not found", id)
	}
	if err != nil {
		return nil, errInternal(err, "find game mode")
	}

	n, err := service.store.UpdateGameMode(ctx, id, update)
	if err != nil {
		return nil, errInternal(err, "update game mode")
	}
	if n == 0 {
		return nil, errNotFound("game mode %s not found", id)
	}

	mode, err := service.store.FindGameModeByID(ctx, id)
	if err != nil {
		return nil, errInternal(err, "find game mode")
	}

	return mode, nil
}
