package datastore

import (
	"context"

	"rewardportal/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableCreditHistory(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.CreditHistory)(nil)).IfNotExists().
		ForeignKey(`("user_id") REFERENCES "user" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.CreditHistory)(nil)).Index("index_credit_history_user_id_created_at").IfNotExists().Column("user_id", "created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertCreditHistory(ctx context.Context, db bun.IDB, history *models.CreditHistory) error {
	_, err := db.NewInsert().Model(history).Exec(ctx)
	return err
}

func GetCreditHistoryByUserID(ctx context.Context, db bun.IDB, userID string, limit int) ([]*models.CreditHistory, error) {
	var history []*models.CreditHistory
	err := db.NewSelect().Model(&history).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return history, nil
}

func GetUserCreditHistorySum(ctx context.Context, db bun.IDB, userID string) (int, error) {
	var total int
	err := db.NewSelect().
		Model((*models.CreditHistory)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}
