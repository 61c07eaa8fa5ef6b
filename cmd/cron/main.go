package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/pkg/alert"
	"rewardportal/internal/pkg/caching"
	"rewardportal/internal/pkg/logger"
	"rewardportal/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

type CronJob interface {
	Start(cronRunner *cron.Cron) error
}

func main() {
	app := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob() *cli.Command {
	return &cli.Command{
		Name: "cron",
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired("DB_DSN")
			if err != nil {
				return err
			}

			container, err := newContainer(vs)
			if err != nil {
				return err
			}

			zl := do.MustInvoke[*zap.Logger](container)
			//nolint:errcheck
			defer zl.Sync()

			var webhook *alert.Webhook
			if url := os.Getenv("ALERT_WEBHOOK_URL"); url != "" {
				webhook = alert.NewWebhook(url, 5*time.Second, 3)
			}

			cronRunner := cron.New()
			jobs := []CronJob{
				NewAuditJob(container, orDefault(os.Getenv("CRON_AUDIT"), "@hourly")),
				NewStockJob(container, orDefault(os.Getenv("CRON_STOCK_REPORT"), "*/15 * * * *"), webhook),
			}
			for _, job := range jobs {
				if err := job.Start(cronRunner); err != nil {
					return err
				}
			}

			zl.Info("start cronjob")
			cronRunner.Run()
			return nil
		},
	}
}

func newContainer(vs map[string]string) (*do.Injector, error) {
	zl, err := logger.New(logger.Config{
		Level: os.Getenv("LOG_LEVEL"),
		Path:  os.Getenv("LOG_PATH"),
	})
	if err != nil {
		return nil, err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(vs["DB_DSN"]),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	injector := do.New()
	do.ProvideNamedValue(injector, "envs", vs)
	do.ProvideValue(injector, zl)
	do.ProvideValue[datastore.Store](injector, datastore.NewBunStore(bunDB))
	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		if os.Getenv("REDIS_CACHE") == "" {
			return caching.NewCacheLocal(100, time.Minute), nil
		}

		dbRedis, err := getRedis()
		if err != nil {
			return nil, err
		}
		return caching.NewCacheRedis(dbRedis, false)
	})
	services.Provide(injector)

	return injector, nil
}

func getRedis() (redis.UniversalClient, error) {
	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv("REDIS_CACHE"),
	})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
