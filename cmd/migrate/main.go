package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/pkg/caching"
	"rewardportal/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
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

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandInitDB(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create tables and indexes",
		Action: func(c *cli.Context) error {
			db, err := getDb()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := datastore.CreateTables(c.Context, db); err != nil {
				return err
			}

			log.Println("migrated")
			return nil
		},
	}
}

func commandInitDB() *cli.Command {
	return &cli.Command{
		Name:  "init-db",
		Usage: "seed the first admin, the default config and the game modes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "username",
				Value: "admin",
			},
			&cli.StringFlag{
				Name:  "password",
				Value: "admin123",
			},
		},
		Action: func(c *cli.Context) error {
			db, err := getDb()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(c.Context, time.Minute)
			defer cancel()

			if err := datastore.CreateTables(ctx, db); err != nil {
				return err
			}

			injector := do.New()
			do.ProvideValue[datastore.Store](injector, datastore.NewBunStore(db))
			do.ProvideValue[caching.Cache](injector, caching.NewCacheLocal(100, time.Minute))
			do.ProvideValue(injector, zap.NewNop())
			do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
				// only used to hash the password; tokens are never issued here
				return services.NewAuthentication("init-db")
			})
			services.Provide(injector)

			serviceAdmin, err := do.Invoke[*services.ServiceAdmin](injector)
			if err != nil {
				return err
			}

			if err := serviceAdmin.Bootstrap(ctx, c.String("username"), c.String("password")); err != nil {
				return err
			}

			log.Printf("database initialized, admin: %s\n", c.String("username"))
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	vs, err := env.EnvsRequired("DB_DSN")
	if err != nil {
		return nil, err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(vs["DB_DSN"]),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
