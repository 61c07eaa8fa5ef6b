package datastore

import (
	"context"

	"rewardportal/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func CreateTableGameMode(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.GameMode)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// EnsureGameModes inserts the missing categories and leaves existing rows untouched.
func EnsureGameModes(ctx context.Context, db bun.IDB, categories []models.Category, cost int) error {
	modes := make([]*models.GameMode, 0, len(categories))
	for _, category := range categories {
		modes = append(modes, &models.GameMode{
			ID:       uuid.NewString(),
			Category: category,
			Cost:     cost,
			Enabled:  true,
		})
	}

	_, err := db.NewInsert().Model(&modes).On("CONFLICT (category) DO NOTHING").Exec(ctx)
	return err
}

func GetGameModes(ctx context.Context, db bun.IDB) ([]*models.GameMode, error) {
	var modes []*models.GameMode
	err := db.NewSelect().Model(&modes).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return modes, nil
}

func FindGameModeByID(ctx context.Context, db bun.IDB, id string) (*models.GameMode, error) {
	var mode models.GameMode
	err := db.NewSelect().Model(&mode).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &mode, nil
}

func FindGameModeByCategory(ctx context.Context, db bun.IDB, category models.Category) (*models.GameMode, error) {
	var mode models.GameMode
	err := db.NewSelect().Model(&mode).Where("category = ?", category).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &mode, nil
}

func UpdateGameMode(ctx context.Context, db bun.IDB, id string, update models.GameModeUpdate) (int64, error) {
	q := db.NewUpdate().
		Model((*models.GameMode)(nil)).
		Set("updated_at = current_timestamp").
		Where("id = ?", id)
	if update.Cost != nil {
		q = q.Set("cost = ?", *update.Cost)
	}
	if update.Enabled != nil {
		q = q.Set("enabled = ?", *update.Enabled)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
