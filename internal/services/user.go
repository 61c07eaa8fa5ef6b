package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/models"

	"github.com/samber/do"
	"go.uber.org/zap"
)

type ServiceUser struct {
	container      *do.Injector
	store          datastore.Store
	authentication *Authentication
	logger         *zap.Logger
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	store, err := do.Invoke[datastore.Store](container)
	if err != nil {
		return nil, err
	}

	authentication, err := do.Invoke[*Authentication](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUser{container, store, authentication, logger}, nil
}

// Login checks the customer's credentials and issues a user token.
func (service *ServiceUser) Login(ctx context.Context, userID string, password string) (*models.User, string, error) {
	user, err := service.store.FindUserByID(ctx, strings.TrimSpace(userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", errInternal(err, "find user")
	}

	if !CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := service.authentication.CreateToken(&models.UserFromAuth{ID: user.ID, Role: models.RoleUser})
	if err != nil {
		return nil, "", errInternal(err, "sign token")
	}

	return user, token, nil
}

func (service *ServiceUser) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := service.store.FindUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, errInternal(err, "find user")
	}
	return user, nil
}

func (service *ServiceUser) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := service.store.ListUsers(ctx)
	if err != nil {
		return nil, errInternal(err, "list users")
	}
	return users, nil
}

// CreateUser opens an account. The opening balance is recorded as initial credits, not as a ledger row.
func (service *ServiceUser) CreateUser(ctx context.Context, userID string, password string, credits int) (*models.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errValidation("id is required")
	}
	if password == "" {
		return nil, errValidation("password is required")
	}
	if credits < 0 {
		return nil, errValidation("credits must not be negative")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, errInternal(err, "hash password")
	}

	now := time.Now()
	user := &models.User{
		ID:             userID,
		Password:       hash,
		Credits:        credits,
		InitialCredits: credits,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = service.store.CreateUser(ctx, user)
	if datastore.IsDuplicateKey(err) {
		return nil, errValidation("user %s already exists", userID)
	}
	if err != nil {
		return nil, errInternal(err, "create user")
	}

	service.logger.Info("user created", zap.String("user_id", userID), zap.Int("credits", credits))
	return user, nil
}

func (service *ServiceUser) UpdatePassword(ctx context.Context, userID string, password string) error {
	if password == "" {
		return errValidation("password is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return errInternal(err, "hash password")
	}

	n, err := service.store.UpdateUserPassword(ctx, userID, hash)
	if err != nil {
		return errInternal(err, "update password")
	}
	if n == 0 {
		return errNotFound("user %s not found", userID)
	}

	return nil
}

func (service *ServiceUser) DeleteUser(ctx context.Context, userID string) error {
	n, err := service.store.DeleteUser(ctx, userID)
	if err != nil {
		return errInternal(err, "delete user")
	}
	if n == 0 {
		return errNotFound("user %s not found", userID)
	}

	service.logger.Info("user deleted", zap.String("user_id", userID))
	return nil
}
