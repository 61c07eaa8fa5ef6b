package handler

import (
	"rewardportal/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupCatalog struct {
	container *do.Injector
}

func (gr *groupCatalog) Rewards(c echo.Context) error {
	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	rewards, err := serviceReward.ListRewards(c.Request().Context())
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, rewards, nil)
}

func (gr *groupCatalog) Config(c echo.Context) error {
	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	config, err := serviceConfig.GetAll(c.Request().Context())
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, config, nil)
}

func (gr *groupCatalog) GameModes(c echo.Context) error {
	serviceGameMode, err := do.Invoke[*services.ServiceGameMode](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	modes, err := serviceGameMode.ListModes(c.Request().Context())
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, modes, nil)
}
