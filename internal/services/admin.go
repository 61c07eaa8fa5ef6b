package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"rewardportal/internal/datastore"
	"rewardportal/internal/models"

	"github.com/samber/do"
)

type ServiceAdmin struct {
	container      *do.Injector
	store          datastore.Store
	authentication *Authentication

	serviceGameMode *ServiceGameMode
}

func NewServiceAdmin(container *do.Injector) (*ServiceAdmin, error) {
	store, err := do.Invoke[datastore.Store](container)
	if err != nil {
		return nil, err
	}

	authentication, err := do.Invoke[*Authentication](container)
	if err != nil {
		return nil, err
	}

	serviceGameMode, err := do.Invoke[*ServiceGameMode](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAdmin{container, store, authentication, serviceGameMode}, nil
}

func (service *ServiceAdmin) Login(ctx context.Context, username string, password string) (string, error) {
	admin, err := service.store.FindAdminByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", errInternal(err, "find admin")
	}

	if !CheckPassword(admin.Password, password) {
		return "", ErrInvalidCredentials
	}

	token, err := service.authentication.CreateToken(&models.UserFromAuth{ID: admin.Username, Role: models.RoleAdmin})
	if err != nil {
		return "", errInternal(err, "sign token")
	}

	return token, nil
}

// Bootstrap seeds a fresh database: the first admin, the default site config
// and the four game modes. Existing rows are left as they are.
func (service *ServiceAdmin) Bootstrap(ctx context.Context, username string, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errValidation("username and password are required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return errInternal(err, "hash password")
	}

	err = service.store.RunInTx(ctx, func(ctx context.Context, tx datastore.Store) error {
		if err := tx.InsertAdminIfMissing(ctx, &models.Admin{Username: username, Password: hash}); err != nil {
			return err
		}

		return tx.InsertConfigIfMissing(ctx, &models.Config{
			Key:   models.ConfigBackgroundImageURL,
			Value: models.DefaultBackgroundImageURL,
		})
	})
	if err != nil {
		return errInternal(err, "bootstrap")
	}

	_, err = service.serviceGameMode.ListModes(ctx)
	return err
}
