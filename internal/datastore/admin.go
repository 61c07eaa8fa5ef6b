package datastore

import (
	"context"

	"rewardportal/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableAdmin(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Admin)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func FindAdminByUsername(ctx context.Context, db bun.IDB, username string) (*models.Admin, error) {
	var admin models.Admin
	err := db.NewSelect().Model(&admin).Where("username = ?", username).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// InsertAdminIfMissing keeps an existing admin's password untouched.
func InsertAdminIfMissing(ctx context.Context, db bun.IDB, admin *models.Admin) error {
	_, err := db.NewInsert().Model(admin).On("CONFLICT (username) DO NOTHING").Exec(ctx)
	return err
}
