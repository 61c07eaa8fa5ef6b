package datastore

import (
	"context"

	"rewardportal/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewRaw(`
		alter table "user"
			add if not exists initial_credits int not null default 0;
		alter table "user"
			add if not exists last_played_category varchar default null;`).Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_user_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindUserByID(ctx context.Context, db bun.IDB, userID string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUsersSortedByCreatedAt(ctx context.Context, db bun.IDB) ([]*models.User, error) {
	var users []*models.User
	err := db.NewSelect().Model(&users).Order("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func CreateUser(ctx context.Context, db bun.IDB, user *models.User) error {
	_, err := db.NewInsert().Model(user).Returning("*").Exec(ctx)
	return err
}

func UpdateUserPassword(ctx context.Context, db bun.IDB, userID string, password string) (int64, error) {
	res, err := db.NewUpdate().
		Model((*models.User)(nil)).
		Set("password = ?", password).
		Set("updated_at = current_timestamp").
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func DeleteUser(ctx context.Context, db bun.IDB, userID string) (int64, error) {
	res, err := db.NewDelete().Model((*models.User)(nil)).Where("id = ?", userID).Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// ChangeUserCredits applies delta only when the balance stays non-negative.
// It returns sql.ErrNoRows when the user is missing or the guard rejected the change.
func ChangeUserCredits(ctx context.Context, db bun.IDB, userID string, delta int) (int, error) {
	var credits int
	err := db.NewUpdate().
		Model((*models.User)(nil)).
		Set("credits = credits + ?", delta).
		Set("updated_at = current_timestamp").
		Where("id = ?", userID).
		Where("credits + ? >= 0", delta).
		Returning("credits").
		Scan(ctx, &credits)
	if err != nil {
		return 0, err
	}

	return credits, nil
}

// RefreshUserClaimView rewrites the denormalized claim fields from the claim table.
func RefreshUserClaimView(ctx context.Context, db bun.IDB, userID string) error {
	_, err := db.NewRaw(`
		UPDATE "user" SET
			is_claimed = EXISTS (SELECT 1 FROM claim c WHERE c.user_id = "user".id),
			assigned_reward_name = (SELECT c.reward_name FROM claim c WHERE c.user_id = "user".id ORDER BY c.created_at DESC, c.id DESC LIMIT 1),
			last_played_category = (SELECT c.category FROM claim c WHERE c.user_id = "user".id ORDER BY c.created_at DESC, c.id DESC LIMIT 1),
			updated_at = current_timestamp
		WHERE id = ?`, userID).Exec(ctx)
	return err
}
