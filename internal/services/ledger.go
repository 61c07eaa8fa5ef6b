package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/models"

	"github.com/google/uuid"
	"github.com/samber/do"
	"go.uber.org/zap"
)

type ServiceLedger struct {
	container *do.Injector
	store     datastore.Store
	logger    *zap.Logger
}

func NewServiceLedger(container *do.Injector) (*ServiceLedger, error) {
	store, err := do.Invoke[datastore.Store](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLedger{container, store, logger}, nil
}

// Adjust credits or debits a user on behalf of an admin and returns the new balance.
func (service *ServiceLedger) Adjust(ctx context.Context, userID string, amount int, description string) (int, error) {
	if amount == 0 {
		return 0, errValidation("amount must not be zero")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = DEFAULT_ADJUSTMENT_DESCRIPTION
	}

	var balance int
	err := service.store.RunInTx(ctx, func(ctx context.Context, tx datastore.Store) error {
		user, err := tx.FindUserByID(ctx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return errNotFound("user %s not found", userID)
		}
		if err != nil {
			return errInternal(err, "find user")
		}

		balance, err = tx.ChangeUserCredits(ctx, userID, amount)
		if errors.Is(err, sql.ErrNoRows) {
			return errInsufficientCredits(-amount, user.Credits)
		}
		if err != nil {
			return errInternal(err, "change credits")
		}

		err = tx.InsertCreditHistory(ctx, &models.CreditHistory{
			ID:          uuid.NewString(),
			UserID:      userID,
			Amount:      amount,
			Type:        models.CreditTypeAdminAdjustment,
			Description: description,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			return errInternal(err, "insert credit history")
		}

		return nil
	})
	if err != nil {
		return 0, classify(err, "adjust credits")
	}

	service.logger.Info("credits adjusted",
		zap.String("user_id", userID),
		zap.Int("amount", amount),
		zap.Int("balance", balance),
	)

	return balance, nil
}

func (service *ServiceLedger) ListHistory(ctx context.Context, userID string, limit int) ([]*models.CreditHistory, error) {
	if _, err := service.findUser(ctx, userID); err != nil {
		return nil, err
	}

	history, err := service.store.ListCreditHistory(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, errInternal(err, "list credit history")
	}

	return history, nil
}

// Audit checks that the ledger explains the user's balance.
func (service *ServiceLedger) Audit(ctx context.Context, userID string) (*models.LedgerAudit, error) {
	user, err := service.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return service.audit(ctx, user)
}

// AuditAll audits every user and returns only the inconsistent ones.
func (service *ServiceLedger) AuditAll(ctx context.Context) ([]*models.LedgerAudit, error) {
	users, err := service.store.ListUsers(ctx)
	if err != nil {
		return nil, errInternal(err, "list users")
	}

	var broken []*models.LedgerAudit
	for _, user := range users {
		audit, err := service.audit(ctx, user)
		if err != nil {
			return nil, err
		}
		if !audit.Consistent {
			service.logger.Warn("ledger mismatch",
				zap.String("user_id", audit.UserID),
				zap.Int("balance", audit.Balance),
				zap.Int("initial_credits", audit.InitialCredits),
				zap.Int("ledger_sum", audit.LedgerSum),
			)
			broken = append(broken, audit)
		}
	}

	return broken, nil
}

func (service *ServiceLedger) audit(ctx context.Context, user *models.User) (*models.LedgerAudit, error) {
	sum, err := service.store.SumCreditHistory(ctx, user.ID)
	if err != nil {
		return nil, errInternal(err, "sum credit history")
	}

	return &models.LedgerAudit{
		UserID:         user.ID,
		Balance:        user.Credits,
		InitialCredits: user.InitialCredits,
		LedgerSum:      sum,
		Consistent:     sum == user.Credits-user.InitialCredits,
	}, nil
}

func (service *ServiceLedger) findUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := service.store.FindUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, errInternal(err, "find user")
	}
	return user, nil
}
