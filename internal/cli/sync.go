// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/tomtom215/runboard/internal/browser"
	"github.com/tomtom215/runboard/internal/logging"
	"github.com/tomtom215/runboard/internal/storage"
	syncpkg "github.com/tomtom215/runboard/internal/sync"
)

func cmdSync() *cli.Command {
	var force bool
	var timeAware bool
	var asJSON bool

	return &cli.Command{
		Name:  "sync",
		Usage: "Run one sync pass against the leaderboard",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "Fetch even when the stored week is fresh",
				Destination: &force,
			},
			&cli.BoolFlag{
				Name:        "time-aware",
				Usage:       "Skip the pass before the daily cutoff hour",
				Destination: &timeAware,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the sync result as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := storage.Open(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing store")
				}
			}()

			session, err := browser.New(cfg)
			if err != nil {
				return fmt.Errorf("create leaderboard session: %w", err)
			}

			res, err := syncpkg.NewManager(cfg, store, session).SyncIfNeeded(ctx, force, timeAware)
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}

			out := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				writeSyncSummary(out, res)
			}

			if res.Summary.Failed() > 0 {
				return fmt.Errorf("%d athletes failed to persist: %w", res.Summary.Failed(), res.Summary.Err())
			}
			return nil
		},
	}
}

func writeSyncSummary(w io.Writer, res *syncpkg.Result) {
	fmt.Fprintf(w, "run:       %s\n", res.RunID)
	fmt.Fprintf(w, "decision:  %s (current=%t previous=%t)\n",
		res.Decision.Reason, res.Decision.FetchCurrent, res.Decision.FetchPrevious)
	fmt.Fprintf(w, "current:   %d athletes\n", res.Summary.CurrentCount)
	fmt.Fprintf(w, "previous:  %d athletes\n", res.Summary.PreviousCount)
	fmt.Fprintf(w, "processed: %d\n", res.Summary.Processed)
	fmt.Fprintf(w, "skipped:   %d rows\n", res.Summary.SkippedRows)
	fmt.Fprintf(w, "failed:    %d\n", res.Summary.Failed())
	for _, err := range res.Summary.FetchErrors {
		fmt.Fprintf(w, "fetch error: %v\n", err)
	}
	fmt.Fprintf(w, "duration:  %s\n", res.Duration)
}
