package handler

import (
	"errors"

	"rewardportal/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
	"go.uber.org/zap"
)

var errInternal = errors.New("internal error")

// toErrorx maps a service error kind onto the toolkit kinds the response writer understands.
func toErrorx(err error) error {
	if errors.Is(err, services.ErrInvalidCredentials) {
		return errorx.Wrap(err, errorx.Authn)
	}

	var e *services.Error
	if !errors.As(err, &e) {
		return err
	}

	switch e.Kind {
	case services.KindNotFound:
		return errorx.Wrap(e, errorx.NotExist)
	case services.KindValidation:
		return errorx.Wrap(e, errorx.Validation)
	case services.KindInsufficientCredits, services.KindGameDisabled, services.KindNoRewardsAvailable, services.KindRetryConflict:
		return errorx.Wrap(e, errorx.Invalid)
	default:
		return errorx.Wrap(errInternal, errorx.Service)
	}
}

// abort writes err as a REST error. Internal failures are logged and their detail withheld.
func abort(c echo.Context, container *do.Injector, err error, fields ...zap.Field) error {
	var e *services.Error
	if !errors.As(err, &e) {
		return httpx.RestAbort(c, nil, toErrorx(err))
	}

	if e.Kind == services.KindInternal {
		if logger, lerr := do.Invoke[*zap.Logger](container); lerr == nil {
			logger.Error("request failed", append(fields, zap.String("uri", c.Request().RequestURI), zap.Error(err))...)
		}
		return httpx.RestAbort(c, nil, toErrorx(err))
	}

	return httpx.RestAbort(c, e, toErrorx(err))
}
