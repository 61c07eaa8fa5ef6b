package handler

import (
	"context"
	"errors"
	"strings"

	"rewardportal/internal/interfaces"
	"rewardportal/internal/models"
	"rewardportal/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthUser ctxKey = "AUTH_USER"

func Authn(verifier interface {
	Validate(token string) (*models.UserFromAuth, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			user, err := verifier.Validate(token)
			if err != nil {
				// although it's a client error, we don't want to detailed information
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthUser, user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRole terminates requests without a session of the given role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := ResolveAuth(c.Request().Context())
			if err != nil {
				//nolint:errcheck
				httpx.Abort(c, err, -1)
				return nil
			}

			if user.Role != role {
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("forbidden"), errorx.Authn), -1)
				return nil
			}

			return next(c)
		}
	}
}

// RateLimit allows perMinute requests per key. An empty key is not limited.
func RateLimit(container *do.Injector, perMinute int, key func(c echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			k := key(c)
			if k == "" {
				return next(c)
			}

			l, err := do.Invoke[interfaces.Limiter](container)
			if err != nil {
				return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
			}

			err = l.Allow(c.Request().Context(), k, redis_rate.PerMinute(perMinute))
			if err != nil {
				if err.Error() == limiter.ErrRateLimited.Error() {
					return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
				}
				return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
			}

			return next(c)
		}
	}
}

func ResolveAuth(ctx context.Context) (*models.UserFromAuth, error) {
	userAuth, ok := ctx.Value(ctxKeyAuthUser).(*models.UserFromAuth)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}
	return userAuth, nil
}

func ResolveValidUser(ctx context.Context, container *do.Injector) (*models.User, error) {
	userAuth, err := ResolveAuth(ctx)
	if err != nil {
		return nil, err
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](container)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return serviceUser.FindUserByID(ctx, userAuth.ID)
}
