// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/tomtom215/runboard/internal/logging"
	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/standings"
	"github.com/tomtom215/runboard/internal/storage"
)

func cmdStandings() *cli.Command {
	var weekParam string
	var asJSON bool

	return &cli.Command{
		Name:  "standings",
		Usage: "Print the standings of a week",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "week",
				Aliases:     []string{"w"},
				Usage:       "Any date (YYYY-MM-DD) inside the week; default is the current week",
				Destination: &weekParam,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the standings as JSON",
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

			svc := standings.NewService(store, cfg.Location(), 0)
			defer svc.Close()

			resp, _, err := svc.Standings(ctx, weekParam)
			if err != nil {
				return err
			}

			out := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return writeStandingsTable(out, resp)
		},
	}
}

func writeStandingsTable(w io.Writer, resp *models.StandingsResponse) error {
	fmt.Fprintf(w, "Week %s to %s", resp.WeekStart, resp.WeekEnd)
	if resp.IsCurrentWeek {
		fmt.Fprint(w, " (current)")
	}
	fmt.Fprintln(w)
	if resp.LastUpdate != nil {
		fmt.Fprintf(w, "Last update %s\n", resp.LastUpdate.Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tHANDLE\tGOAL KM\tDISTANCE KM\tPERCENT\tSTATUS")
	for i, s := range resp.Standings {
		goal := "-"
		if s.DistanceGoal > 0 {
			goal = fmt.Sprintf("%.1f", s.DistanceGoal)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%.1f\t%s\n",
			i+1, s.Name, s.Handle, goal, s.TotalDistance, s.Percent, s.Status)
	}
	return tw.Flush()
}
