// Command tillctl runs operational tasks against a Tillpoint deployment.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/urfave/cli/v2"

	"github.com/tillpoint/tillpoint/internal/app"
	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/users"
	"github.com/tillpoint/tillpoint/jobs"
	"github.com/tillpoint/tillpoint/migrations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tillctl:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "tillctl",
		Usage:  "operate a Tillpoint deployment",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply pending migrations", Action: migrateUp},
					{Name: "down", Usage: "revert the latest migration", Action: migrateDown},
					{Name: "status", Usage: "list migrations", Action: migrateStatus},
				},
			},
			{
				Name:  "jobs",
				Usage: "enqueue background work",
				Subcommands: []*cli.Command{
					{Name: "expire-subscriptions", Usage: "run a subscription expiry sweep now", Action: enqueueExpire},
				},
			},
			{
				Name:   "seed-admin",
				Usage:  "create the ADMIN_* owner account if missing",
				Action: seedAdmin,
			},
		},
	}
}

type env struct {
	cfg    *app.Config
	logger *slog.Logger
}

func loadEnv() (*env, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: app.NewLogger(cfg)}, nil
}

func withMigrator(c *cli.Context, fn func(*db.Migrator) error) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	pool, err := db.New(c.Context, e.cfg.PGDSN, e.cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	migrator, err := db.NewMigrator(pool, migrations.FS, e.logger)
	if err != nil {
		return err
	}
	return fn(migrator)
}

func migrateUp(c *cli.Context) error {
	return withMigrator(c, func(m *db.Migrator) error {
		applied, err := m.Run(c.Context)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(c.App.Writer, "schema is up to date")
			return nil
		}
		for _, s := range applied {
			fmt.Fprintf(c.App.Writer, "applied %04d_%s\n", s.Version, s.Name)
		}
		return nil
	})
}

func migrateDown(c *cli.Context) error {
	return withMigrator(c, func(m *db.Migrator) error {
		reverted, err := m.Revert(c.Context)
		if err != nil {
			return err
		}
		if reverted == nil {
			fmt.Fprintln(c.App.Writer, "nothing to revert")
			return nil
		}
		fmt.Fprintf(c.App.Writer, "reverted %04d_%s\n", reverted.Version, reverted.Name)
		return nil
	})
}

func migrateStatus(c *cli.Context) error {
	return withMigrator(c, func(m *db.Migrator) error {
		statuses, err := m.Status(c.Context)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied && s.AppliedAt != nil {
				state = "applied " + s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(c.App.Writer, "%04d_%-24s %s\n", s.Version, s.Name, state)
		}
		return nil
	})
}

func enqueueExpire(c *cli.Context) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	client := jobs.NewClient(asynq.RedisClientOpt{Addr: e.cfg.RedisAddr})
	defer client.Close()
	info, err := client.EnqueueSubscriptionsExpire(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "enqueued %s on %s\n", info.ID, info.Queue)
	return nil
}

func seedAdmin(c *cli.Context) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	b := users.Bootstrap{
		Name:     e.cfg.AdminName,
		Email:    e.cfg.AdminEmail,
		Password: e.cfg.AdminPassword,
		Company:  e.cfg.AdminCompany,
	}
	if !b.Enabled() {
		return errors.New("ADMIN_EMAIL is not set")
	}
	pool, err := db.New(c.Context, e.cfg.PGDSN, e.cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	stores := app.PostgresStores(pool)
	created, err := users.NewSeeder(stores.Users, stores.Companies, e.logger).Seed(c.Context, b)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(c.App.Writer, "created owner %s\n", b.Email)
	} else {
		fmt.Fprintf(c.App.Writer, "owner %s already exists\n", b.Email)
	}
	return nil
}
