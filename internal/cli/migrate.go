// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/runboard/internal/storage"
)

func cmdMigrate() *cli.Command {
	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create or upgrade the database schema",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Open applies pending migrations.
			store, err := storage.Open(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("migrate %s store: %w", cfg.Database.Driver, err)
			}
			if err := store.Ping(ctx); err != nil {
				_ = store.Close()
				return fmt.Errorf("ping %s store: %w", cfg.Database.Driver, err)
			}
			if err := store.Close(); err != nil {
				return fmt.Errorf("close store: %w", err)
			}

			fmt.Fprintf(c.Root().Writer, "%s schema is up to date\n", cfg.Database.Driver)
			return nil
		},
	}
}
