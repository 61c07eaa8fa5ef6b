package handler

import (
	"net/http"

	"rewardportal/internal/models"
	"rewardportal/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
	// PlayLimit is plays per user per minute; zero means services.PLAY_RATE_LIMIT_PER_MINUTE.
	PlayLimit int
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🎁")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.
		routesAPIv1.GET("", Hello)

		loginLimit := RateLimit(cfg.Container, services.LOGIN_RATE_LIMIT_PER_MINUTE, func(c echo.Context) string {
			return services.LimitKeyLogin(c.RealIP())
		})

		cat := groupCatalog{cfg.Container}
		routesAPIv1.GET("/rewards", cat.Rewards)
		routesAPIv1.GET("/config", cat.Config)
		routesAPIv1.GET("/gamemodes", cat.GameModes)

		u := groupUser{cfg.Container}
		routesAPIv1.POST("/user/login", u.Login, loginLimit)

		routesAPIv1User := routesAPIv1.Group("/user", RequireRole(models.RoleUser))
		{
			perMinute := cfg.PlayLimit
			if perMinute <= 0 {
				perMinute = services.PLAY_RATE_LIMIT_PER_MINUTE
			}
			playLimit := RateLimit(cfg.Container, perMinute, func(c echo.Context) string {
				user, err := ResolveAuth(c.Request().Context())
				if err != nil {
					return ""
				}
				return services.LimitKeyUserPlay(user.ID)
			})

			routesAPIv1User.GET("/me", u.Me)
			routesAPIv1User.POST("/play", u.Play, playLimit)
			routesAPIv1User.GET("/claims", u.Claims)
			routesAPIv1User.GET("/credits", u.Credits)
		}

		a := groupAdmin{cfg.Container}
		routesAPIv1.POST("/admin/login", a.Login, loginLimit)

		routesAPIv1Admin := routesAPIv1.Group("/admin", RequireRole(models.RoleAdmin))
		{
			routesAPIv1Admin.GET("/users", a.ListUsers)
			routesAPIv1Admin.POST("/users", a.CreateUser)
			routesAPIv1Admin.PUT("/users/:id", a.UpdateUser)
			routesAPIv1Admin.DELETE("/users/:id", a.DeleteUser)

			routesAPIv1Admin.POST("/rewards", a.CreateReward)
			routesAPIv1Admin.DELETE("/rewards/:id", a.DeleteReward)

			routesAPIv1Admin.POST("/assign-reward", a.AssignReward)
			routesAPIv1Admin.GET("/assignments", a.ListAssignments)

			routesAPIv1Admin.POST("/credits", a.AdjustCredits)
			routesAPIv1Admin.GET("/credits", a.ListCredits)
			routesAPIv1Admin.GET("/credits/audit", a.AuditCredits)

			routesAPIv1Admin.GET("/gamemodes", a.ListGameModes)
			routesAPIv1Admin.PUT("/gamemodes", a.UpdateGameMode)

			routesAPIv1Admin.POST("/config", a.SetConfig)
		}
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
