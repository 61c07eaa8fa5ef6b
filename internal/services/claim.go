package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/interfaces"
	"rewardportal/internal/models"

	"github.com/google/uuid"
	"github.com/samber/do"
	"go.uber.org/zap"
)

type ServiceClaim struct {
	container *do.Injector
	store     datastore.Store
	locker    interfaces.Locker
	logger    *zap.Logger

	serviceGameMode *ServiceGameMode
	serviceReward   *ServiceReward
}

func NewServiceClaim(container *do.Injector) (*ServiceClaim, error) {
	store, err := do.Invoke[datastore.Store](container)
	if err != nil {
		return nil, err
	}

	locker, err := do.Invoke[interfaces.Locker](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceGameMode, err := do.Invoke[*ServiceGameMode](container)
	if err != nil {
		return nil, err
	}

	serviceReward, err := do.Invoke[*ServiceReward](container)
	if err != nil {
		return nil, err
	}

	return &ServiceClaim{container, store, locker, logger, serviceGameMode, serviceReward}, nil
}

// Play spends credits on one game and hands out the won reward.
// A live assignment wins over the requested category. Nothing is written
// unless the debit, ledger row, stock decrement, claim and assignment
// transition all commit together.
func (service *ServiceClaim) Play(ctx context.Context, userID string, category *models.Category) (*models.PlayResult, error) {
	if _, err := service.findUser(ctx, userID); err != nil {
		return nil, err
	}

	mutex := service.locker.NewMutex(LockKeyUserPlay(userID))
	if err := mutex.TryLockContext(ctx); err != nil {
		if errors.Is(err, interfaces.ErrLocked) {
			return nil, errRetryConflict("%v", ErrUserPlayLock)
		}
		service.logger.Error("acquire play lock", zap.String("user_id", userID), zap.Error(err))
		return nil, errInternal(err, "acquire play lock")
	}

	// nolint:errcheck
	defer mutex.UnlockContext(context.WithoutCancel(ctx))

	// re-read under the lock; the balance may have moved
	user, err := service.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Credits < 1 {
		return nil, errInsufficientCredits(1, user.Credits)
	}

	requested := models.CategoryBox
	if category != nil {
		if !category.Valid() {
			return nil, errValidation("unknown category %q", *category)
		}
		requested = *category
	}

	reward, assignment, err := service.resolveReward(ctx, userID, requested)
	if err != nil {
		return nil, err
	}

	cost, err := service.costOf(ctx, reward)
	if err != nil {
		return nil, err
	}

	if user.Credits < cost {
		return nil, errInsufficientCredits(cost, user.Credits)
	}

	result, err := service.commit(ctx, userID, reward, assignment, cost)
	if err != nil {
		return nil, err
	}

	if !reward.Unlimited() {
		service.serviceReward.ClearCache(ctx)
	}

	service.logger.Info("play committed",
		zap.String("user_id", userID),
		zap.String("category", string(reward.Category)),
		zap.String("reward_id", reward.ID),
		zap.String("source", string(result.Source)),
		zap.Int("cost", cost),
		zap.Int("balance", result.Balance),
	)

	return result, nil
}

func (service *ServiceClaim) findUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := service.store.FindUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, errInternal(err, "find user")
	}
	return user, nil
}

// resolveReward returns the reward to hand out and, when it comes from an
// admin assignment, that assignment.
func (service *ServiceClaim) resolveReward(ctx context.Context, userID string, requested models.Category) (*models.Reward, *models.RewardAssignment, error) {
	assignment, err := service.store.FindActiveAssignment(ctx, userID)
	switch {
	case err == nil:
		reward := assignment.Reward
		if reward == nil || reward.ID == "" {
			reward, err = service.store.FindRewardByID(ctx, assignment.RewardID)
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, errNotFound("assigned reward %s not found", assignment.RewardID)
			}
			if err != nil {
				return nil, nil, errInternal(err, "find assigned reward")
			}
		}

		if !reward.Available() {
			return nil, nil, errNoRewardsAvailable(reward.Category)
		}
		return reward, assignment, nil

	case errors.Is(err, sql.ErrNoRows):

	default:
		return nil, nil, errInternal(err, "find active assignment")
	}

	rewards, err := service.store.ListAvailableRewards(ctx, requested)
	if err != nil {
		return nil, nil, errInternal(err, "list available rewards")
	}
	if len(rewards) == 0 {
		return nil, nil, errNoRewardsAvailable(requested)
	}

	gacha, err := NewUniformGacha(rewards)
	if err != nil {
		return nil, nil, errInternal(err, "build reward draw")
	}

	return gacha.Pick(), nil, nil
}

// costOf prices a play by the game mode of the reward's own category. When the
// mode cannot be read the reward's price is charged instead, never less than 1.
func (service *ServiceClaim) costOf(ctx context.Context, reward *models.Reward) (int, error) {
	mode, err := service.serviceGameMode.GetMode(ctx, reward.Category)
	if err != nil {
		if KindOf(err) != KindInternal {
			return 0, err
		}

		service.logger.Warn("game mode unreadable, charging reward price",
			zap.String("category", string(reward.Category)),
			zap.Error(err),
		)
		if reward.Price <= 0 {
			return 1, nil
		}
		return reward.Price, nil
	}

	if !mode.Enabled {
		return 0, errGameDisabled(reward.Category)
	}

	return mode.Cost, nil
}

func (service *ServiceClaim) commit(ctx context.Context, userID string, reward *models.Reward, assignment *models.RewardAssignment, cost int) (*models.PlayResult, error) {
	now := time.Now()
	won := *reward
	result := &models.PlayResult{
		Cost:   cost,
		Source: models.PlaySourceDraw,
	}
	if assignment != nil {
		result.Source = models.PlaySourceAssignment
	}

	err := service.store.RunInTx(ctx, func(ctx context.Context, tx datastore.Store) error {
		balance, err := tx.ChangeUserCredits(ctx, userID, -cost)
		if errors.Is(err, sql.ErrNoRows) {
			return errRetryConflict("balance of %s changed, retry", userID)
		}
		if err != nil {
			return errInternal(err, "debit credits")
		}
		result.Balance = balance

		err = tx.InsertCreditHistory(ctx, &models.CreditHistory{
			ID:          uuid.NewString(),
			UserID:      userID,
			Amount:      -cost,
			Type:        models.CreditTypeSpend,
			Description: fmt.Sprintf("Played %s: %s", won.Category, won.Name),
			CreatedAt:   now,
		})
		if err != nil {
			return errInternal(err, "insert credit history")
		}

		if !won.Unlimited() {
			n, err := tx.DecrementRewardStock(ctx, won.ID)
			if err != nil {
				return errInternal(err, "decrement stock")
			}
			if n == 0 {
				return errRetryConflict("stock of %s changed, retry", won.Name)
			}
			won.Stock--
		}

		rewardID := won.ID
		claim := &models.Claim{
			ID:         uuid.NewString(),
			UserID:     userID,
			RewardID:   &rewardID,
			RewardName: won.Name,
			Category:   won.Category,
			Cost:       cost,
			CreatedAt:  now,
		}
		if err := tx.InsertClaim(ctx, claim); err != nil {
			return errInternal(err, "insert claim")
		}
		result.ClaimID = claim.ID

		if assignment != nil {
			n, err := tx.ClaimAssignment(ctx, assignment.ID, now)
			if err != nil {
				return errInternal(err, "claim assignment")
			}
			if n == 0 {
				return errRetryConflict("assignment %s already consumed", assignment.ID)
			}
		}

		if err := tx.RefreshUserClaimView(ctx, userID); err != nil {
			return errInternal(err, "refresh claim view")
		}

		return nil
	})
	if err != nil {
		return nil, classify(err, "commit play")
	}

	result.Reward = won
	return result, nil
}

func (service *ServiceClaim) ListClaims(ctx context.Context, userID string, limit int) ([]*models.Claim, error) {
	_, err := service.store.FindUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, errInternal(err, "find user")
	}

	claims, err := service.store.ListClaims(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, errInternal(err, "list claims")
	}

	return claims, nil
}
