package datastore

import (
	"context"

	"rewardportal/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableClaim(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Claim)(nil)).IfNotExists().
		ForeignKey(`("user_id") REFERENCES "user" ("id") ON DELETE CASCADE`).
		ForeignKey(`("reward_id") REFERENCES reward ("id") ON DELETE SET NULL`).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Claim)(nil)).Index("index_claim_user_id_created_at").IfNotExists().Column("user_id", "created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertClaim(ctx context.Context, db bun.IDB, claim *models.Claim) error {
	_, err := db.NewInsert().Model(claim).Exec(ctx)
	return err
}

func GetClaimsByUserID(ctx context.Context, db bun.IDB, userID string, limit int) ([]*models.Claim, error) {
	var claims []*models.Claim
	err := db.NewSelect().Model(&claims).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
