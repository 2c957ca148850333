package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/configs"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models/migrations"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services/cache"
	"github.com/urfave/cli/v3"
)

const newKeysFile = ".env.new_keys"

// NewCommand builds the root command. Running it without a subcommand serves
// the API.
func NewCommand(env configs.ENV, log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "pricewatch",
		Usage: "Crowdsourced price comparison API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return Serve(ctx, env, log)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(ctx, env, log)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, log)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Info("Migration complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session and CSRF keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateKeys(c.Root().Writer, newKeysFile); err != nil {
						return err
					}
					log.Info("Key generation complete. Copy the keys to your .env file.", "file", newKeysFile)
					return nil
				},
			},
			{
				Name:  "purge-contributions",
				Usage: "Hard-delete contributions soft-deleted before the cutoff",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "only purge contributions deleted at least this long ago",
						Value: 30 * 24 * time.Hour,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, log)
					if err != nil {
						return err
					}
					svc := services.NewContributionService(db, services.NewCatalogRepos(db), services.NewApplier(log), cache.NewNoop(), log)
					n, err := svc.PurgeDeleted(ctx, c.Duration("older-than"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.Root().Writer, "purged %d contributions\n", n)
					return nil
				},
			},
		},
	}
}

func RunCli(env configs.ENV, log *logger.Logger) error {
	return NewCommand(env, log).Run(context.Background(), os.Args)
}
