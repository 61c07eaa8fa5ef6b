package handler

import (
	"strconv"

	"rewardportal/internal/models"
	"rewardportal/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
	"go.uber.org/zap"
)

type groupUser struct {
	container *do.Injector
}

type loginPayload struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

func (gr *groupUser) Login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	user, token, err := serviceUser.Login(c.Request().Context(), payload.ID, payload.Password)
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"token": token,
		"user":  user,
	}, nil)
}

func (gr *groupUser) Me(c echo.Context) error {
	user, err := ResolveValidUser(c.Request().Context(), gr.container)
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, user, nil)
}

type playPayload struct {
	Category string `json:"category"`
}

func (gr *groupUser) Play(c echo.Context) error {
	ctx := c.Request().Context()
	auth, err := ResolveAuth(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload playPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	var category *models.Category
	if payload.Category != "" {
		cat, err := models.ParseCategory(payload.Category)
		if err != nil {
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
		}
		category = &cat
	}

	serviceClaim, err := do.Invoke[*services.ServiceClaim](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceClaim.Play(ctx, auth.ID, category)
	if err != nil {
		return abort(c, gr.container, err, zap.String("user_id", auth.ID), zap.String("category", payload.Category))
	}

	return httpx.RestAbort(c, result, nil)
}

func (gr *groupUser) Claims(c echo.Context) error {
	ctx := c.Request().Context()
	auth, err := ResolveAuth(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceClaim, err := do.Invoke[*services.ServiceClaim](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	claims, err := serviceClaim.ListClaims(ctx, auth.ID, queryLimit(c))
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, claims, nil)
}

func (gr *groupUser) Credits(c echo.Context) error {
	ctx := c.Request().Context()
	auth, err := ResolveAuth(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	history, err := serviceLedger.ListHistory(ctx, auth.ID, queryLimit(c))
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, history, nil)
}

// queryLimit reads ?limit. Missing or malformed values fall back to the service default.
func queryLimit(c echo.Context) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		return 0
	}
	return limit
}
