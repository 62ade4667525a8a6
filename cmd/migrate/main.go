package main

import (
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/junk-pickup/internal/config"
	"github.com/iliyamo/junk-pickup/internal/database"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "migrate",
		Usage: "apply the embedded schema migrations to the bookings database",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *migrate.Migrate) error { return database.Up(m) })
				},
			},
			{
				Name:  "down",
				Usage: "revert the most recent migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Aliases: []string{"n"}, Value: 1, Usage: "number of migrations to revert"},
				},
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *migrate.Migrate) error { return database.Down(m, c.Int("steps")) })
				},
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *migrate.Migrate) error {
						v, dirty, err := m.Version()
						if errors.Is(err, migrate.ErrNilVersion) {
							fmt.Fprintln(c.App.Writer, "no migrations applied")
							return nil
						}
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "version %d (dirty=%t)\n", v, dirty)
						return nil
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	cfg := config.Load()
	config.ConfigureLogging(cfg)

	db, err := database.Open(cfg.DSN()+"&multiStatements=true", 2)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	return fn(m)
}
