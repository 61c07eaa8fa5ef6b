package datastore

import (
	"context"
	"time"

	"rewardportal/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableRewardAssignment(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.RewardAssignment)(nil)).IfNotExists().
		ForeignKey(`("user_id") REFERENCES "user" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.RewardAssignment)(nil)).Index("index_reward_assignment_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	// one live assignment per user
	_, err = db.NewCreateIndex().Model((*models.RewardAssignment)(nil)).Index("index_reward_assignment_user_id_assigned").Unique().IfNotExists().
		Column("user_id").
		Where("status = ?", models.AssignmentStatusAssigned).
		Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindActiveAssignment(ctx context.Context, db bun.IDB, userID string) (*models.RewardAssignment, error) {
	var assignment models.RewardAssignment
	err := db.NewSelect().Model(&assignment).
		Relation("Reward").
		Where("ra.user_id = ?", userID).
		Where("ra.status = ?", models.AssignmentStatusAssigned).
		Order("ra.created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func GetAssignmentsByUserID(ctx context.Context, db bun.IDB, userID string) ([]*models.RewardAssignment, error) {
	var assignments []*models.RewardAssignment
	err := db.NewSelect().Model(&assignments).
		Relation("Reward").
		Where("ra.user_id = ?", userID).
		Order("ra.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func CreateAssignment(ctx context.Context, db bun.IDB, assignment *models.RewardAssignment) error {
	_, err := db.NewInsert().Model(assignment).Returning("*").Exec(ctx)
	return err
}

func ExpireUserAssignments(ctx context.Context, db bun.IDB, userID string) (int64, error) {
	res, err := db.NewUpdate().
		Model((*models.RewardAssignment)(nil)).
		Set("status = ?", models.AssignmentStatusExpired).
		Where("user_id = ?", userID).
		Where("status = ?", models.AssignmentStatusAssigned).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func ExpireRewardAssignments(ctx context.Context, db bun.IDB, rewardID string) (int64, error) {
	res, err := db.NewUpdate().
		Model((*models.RewardAssignment)(nil)).
		Set("status = ?", models.AssignmentStatusExpired).
		Where("reward_id = ?", rewardID).
		Where("status = ?", models.AssignmentStatusAssigned).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// ClaimAssignment moves an ASSIGNED row to CLAIMED. Zero affected rows means it was already consumed.
func ClaimAssignment(ctx context.Context, db bun.IDB, assignmentID string, at time.Time) (int64, error) {
	res, err := db.NewUpdate().
		Model((*models.RewardAssignment)(nil)).
		Set("status = ?", models.AssignmentStatusClaimed).
		Set("claimed_at = ?", at).
		Where("id = ?", assignmentID).
		Where("status = ?", models.AssignmentStatusAssigned).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
