package datastore

import (
	"context"

	"rewardportal/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableReward(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Reward)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Reward)(nil)).Index("index_reward_category_stock").IfNotExists().Column("category", "stock").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewRaw(`
		alter table reward
			drop constraint if exists reward_stock_check;
		alter table reward
			add constraint reward_stock_check check (stock >= -1);`).Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindRewardByID(ctx context.Context, db bun.IDB, rewardID string) (*models.Reward, error) {
	var reward models.Reward
	err := db.NewSelect().Model(&reward).Where("id = ?", rewardID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func GetRewards(ctx context.Context, db bun.IDB) ([]*models.Reward, error) {
	var rewards []*models.Reward
	err := db.NewSelect().Model(&rewards).Order("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

// GetAvailableRewardsByCategory returns rewards of the category that still have stock.
func GetAvailableRewardsByCategory(ctx context.Context, db bun.IDB, category models.Category) ([]*models.Reward, error) {
	var rewards []*models.Reward
	err := db.NewSelect().Model(&rewards).
		Where("category = ?", category).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("stock = ?", models.StockUnlimited).WhereOr("stock > 0")
		}).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

func CreateReward(ctx context.Context, db bun.IDB, reward *models.Reward) error {
	_, err := db.NewInsert().Model(reward).Returning("*").Exec(ctx)
	return err
}

func DeleteReward(ctx context.Context, db bun.IDB, rewardID string) (int64, error) {
	res, err := db.NewDelete().Model((*models.Reward)(nil)).Where("id = ?", rewardID).Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// DecrementRewardStock takes one unit of finite stock. Zero affected rows means the race was lost.
func DecrementRewardStock(ctx context.Context, db bun.IDB, rewardID string) (int64, error) {
	res, err := db.NewUpdate().
		Model((*models.Reward)(nil)).
		Set("stock = stock - 1").
		Where("id = ?", rewardID).
		Where("stock > 0").
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
