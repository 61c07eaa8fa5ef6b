package handler

import (
	"rewardportal/internal/models"
	"rewardportal/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
	"go.uber.org/zap"
)

type groupAdmin struct {
	container *do.Injector
}

type adminLoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (gr *groupAdmin) Login(c echo.Context) error {
	var payload adminLoginPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceAdmin, err := do.Invoke[*services.ServiceAdmin](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	token, err := serviceAdmin.Login(c.Request().Context(), payload.Username, payload.Password)
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, map[string]string{"token": token}, nil)
}

func (gr *groupAdmin) ListUsers(c echo.Context) error {
	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	users, err := serviceUser.ListUsers(c.Request().Context())
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, users, nil)
}

type createUserPayload struct {
	ID       string `json:"id"`
	Password string `json:"password"`
	Credits  int    `json:"credits"`
}

func (gr *groupAdmin) CreateUser(c echo.Context) error {
	var payload createUserPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	user, err := serviceUser.CreateUser(c.Request().Context(), payload.ID, payload.Password, payload.Credits)
	if err != nil {
		return abort(c, gr.container, err, zap.String("user_id", payload.ID))
	}

	return httpx.RestAbort(c, user, nil)
}

type updateUserPayload struct {
	Password string `json:"password"`
}

func (gr *groupAdmin) UpdateUser(c echo.Context) error {
	var payload updateUserPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceUser.UpdatePassword(c.Request().Context(), c.Param("id"), payload.Password); err != nil {
		return abort(c, gr.container, err, zap.String("user_id", c.Param("id")))
	}

	return httpx.RestAbort(c, map[string]bool{"success": true}, nil)
}

func (gr *groupAdmin) DeleteUser(c echo.Context) error {
	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceUser.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return abort(c, gr.container, err, zap.String("user_id", c.Param("id")))
	}

	return httpx.RestAbort(c, map[string]bool{"success": true}, nil)
}

func (gr *groupAdmin) CreateReward(c echo.Context) error {
	var payload services.RewardInput
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	reward, err := serviceReward.CreateReward(c.Request().Context(), payload)
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, reward, nil)
}

func (gr *groupAdmin) DeleteReward(c echo.Context) error {
	serviceReward, err := do.Invoke[*services.ServiceReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceReward.DeleteReward(c.Request().Context(), c.Param("id")); err != nil {
		return abort(c, gr.container, err, zap.String("reward_id", c.Param("id")))
	}

	return httpx.RestAbort(c, map[string]bool{"success": true}, nil)
}

type assignRewardPayload struct {
	UserID   string `json:"userId"`
	RewardID string `json:"rewardId"`
}

func (gr *groupAdmin) AssignReward(c echo.Context) error {
	var payload assignRewardPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceAssignment, err := do.Invoke[*services.ServiceAssignment](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	assignment, err := serviceAssignment.AssignReward(c.Request().Context(), payload.UserID, payload.RewardID)
	if err != nil {
		return abort(c, gr.container, err, zap.String("user_id", payload.UserID), zap.String("reward_id", payload.RewardID))
	}

	return httpx.RestAbort(c, assignment, nil)
}

func (gr *groupAdmin) ListAssignments(c echo.Context) error {
	serviceAssignment, err := do.Invoke[*services.ServiceAssignment](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	assignments, err := serviceAssignment.ListAssignments(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, assignments, nil)
}

type adjustCreditsPayload struct {
	UserID      string `json:"userId"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

func (gr *groupAdmin) AdjustCredits(c echo.Context) error {
	var payload adjustCreditsPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	balance, err := serviceLedger.Adjust(c.Request().Context(), payload.UserID, payload.Amount, payload.Description)
	if err != nil {
		return abort(c, gr.container, err, zap.String("user_id", payload.UserID), zap.Int("amount", payload.Amount))
	}

	return httpx.RestAbort(c, map[string]int{"credits": balance}, nil)
}

func (gr *groupAdmin) ListCredits(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	history, err := serviceLedger.ListHistory(c.Request().Context(), c.QueryParam("userId"), queryLimit(c))
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, history, nil)
}

// AuditCredits audits one user when ?userId is given, otherwise returns every inconsistent user.
func (gr *groupAdmin) AuditCredits(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	if userID := c.QueryParam("userId"); userID != "" {
		audit, err := serviceLedger.Audit(ctx, userID)
		if err != nil {
			return abort(c, gr.container, err)
		}
		return httpx.RestAbort(c, []*models.LedgerAudit{audit}, nil)
	}

	audits, err := serviceLedger.AuditAll(ctx)
	if err != nil {
		return abort(c, gr.container, err)
	}
	if audits == nil {
		audits = []*models.LedgerAudit{}
	}

	return httpx.RestAbort(c, audits, nil)
}

func (gr *groupAdmin) ListGameModes(c echo.Context) error {
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

type updateGameModePayload struct {
	ID string `json:"id"`
	models.GameModeUpdate
}

func (gr *groupAdmin) UpdateGameMode(c echo.Context) error {
	var payload updateGameModePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceGameMode, err := do.Invoke[*services.ServiceGameMode](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	mode, err := serviceGameMode.UpdateMode(c.Request().Context(), payload.ID, payload.GameModeUpdate)
	if err != nil {
		return abort(c, gr.container, err, zap.String("game_mode_id", payload.ID))
	}

	return httpx.RestAbort(c, mode, nil)
}

func (gr *groupAdmin) SetConfig(c echo.Context) error {
	var payload map[string]string
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	if err := serviceConfig.SetMany(ctx, payload); err != nil {
		return abort(c, gr.container, err)
	}

	config, err := serviceConfig.GetAll(ctx)
	if err != nil {
		return abort(c, gr.container, err)
	}

	return httpx.RestAbort(c, config, nil)
}
