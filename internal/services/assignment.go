package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/models"

	"github.com/google/uuid"
	"github.com/samber/do"
	"go.uber.org/zap"
)

type ServiceAssignment struct {
	container *do.Injector
	store     datastore.Store
	logger    *zap.Logger
}

func NewServiceAssignment(container *do.Injector) (*ServiceAssignment, error) {
	store, err := do.Invoke[datastore.Store](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAssignment{container, store, logger}, nil
}

// AssignReward replaces the user's live assignment with a new one for rewardID.
func (service *ServiceAssignment) AssignReward(ctx context.Context, userID string, rewardID string) (*models.RewardAssignment, error) {
	_, err := service.store.FindUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, errInternal(err, "find user")
	}

	reward, err := service.store.FindRewardByID(ctx, rewardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("reward %s not found", rewardID)
	}
	if err != nil {
		return nil, errInternal(err, "find reward")
	}

	assignment := &models.RewardAssignment{
		ID:        uuid.NewString(),
		UserID:    userID,
		RewardID:  rewardID,
		Status:    models.AssignmentStatusAssigned,
		CreatedAt: time.Now(),
	}

	err = service.store.RunInTx(ctx, func(ctx context.Context, tx datastore.Store) error {
		if _, err := tx.ExpireUserAssignments(ctx, userID); err != nil {
			return errInternal(err, "expire assignments")
		}

		err := tx.CreateAssignment(ctx, assignment)
		if datastore.IsDuplicateKey(err) {
			return errRetryConflict("assignment for %s changed concurrently", userID)
		}
		if err != nil {
			return errInternal(err, "create assignment")
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "assign reward")
	}

	service.logger.Info("reward assigned",
		zap.String("user_id", userID),
		zap.String("reward_id", rewardID),
		zap.String("assignment_id", assignment.ID),
	)

	assignment.Reward = reward
	return assignment, nil
}

// GetActiveAssignment returns the user's ASSIGNED row, or nil when there is none.
func (service *ServiceAssignment) GetActiveAssignment(ctx context.Context, userID string) (*models.RewardAssignment, error) {
	assignment, err := service.store.FindActiveAssignment(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errInternal(err, "find active assignment")
	}

	return assignment, nil
}

func (service *ServiceAssignment) ListAssignments(ctx context.Context, userID string) ([]*models.RewardAssignment, error) {
	_, err := service.store.FindUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, errInternal(err, "find user")
	}

	assignments, err := service.store.ListAssignments(ctx, userID)
	if err != nil {
		return nil, errInternal(err, "list assignments")
	}

	return assignments, nil
}
