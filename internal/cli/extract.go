// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/tomtom215/runboard/internal/leaderboard"
)

// extractOutput is the --json form of an extraction.
type extractOutput struct {
	Athletes []leaderboard.Athlete `json:"athletes"`
	Skipped  []string              `json:"skipped"`
}

func cmdExtract() *cli.Command {
	var file string
	var asJSON bool

	return &cli.Command{
		Name:  "extract",
		Usage: "Parse a saved leaderboard page or table body and print the athletes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "HTML file to read (default: stdin)",
				Destination: &file,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print JSON instead of a table",
				Destination: &asJSON,
			},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			data, err := readInput(file, c.Root().Reader)
			if err != nil {
				return err
			}

			res, err := extractPage(data)
			if err != nil {
				return err
			}

			out := c.Root().Writer
			if asJSON {
				return writeExtractJSON(out, res)
			}
			return writeExtractTable(out, res)
		},
	}
}

func readInput(file string, stdin io.Reader) ([]byte, error) {
	if file == "" || file == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}

// extractPage accepts a full leaderboard page or a bare table body.
func extractPage(data []byte) (*leaderboard.Result, error) {
	body, err := leaderboard.FindBody(bytes.NewReader(data))
	switch {
	case errors.Is(err, leaderboard.ErrLeaderboardNotFound):
		return leaderboard.Extract(bytes.NewReader(data))
	case err != nil:
		return nil, err
	}
	return leaderboard.ExtractString(body)
}

func writeExtractJSON(w io.Writer, res *leaderboard.Result) error {
	out := extractOutput{
		Athletes: res.Athletes,
		Skipped:  make([]string, 0, len(res.Skipped)),
	}
	for _, s := range res.Skipped {
		out.Skipped = append(out.Skipped, s.Error())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeExtractTable(w io.Writer, res *leaderboard.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ATHLETE ID\tNAME\tDISTANCE KM\tRUNS\tPACE\tELEVATION M")
	for _, a := range res.Athletes {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d\t%s\t%.0f\n",
			a.AthleteID, a.Name, a.Distance, a.Runs, formatPace(a.Pace), a.Elevation)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d athletes, %d skipped rows\n", len(res.Athletes), res.SkippedRows())
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  skipped %s\n", s)
	}
	return nil
}

func formatPace(seconds int) string {
	if seconds <= 0 {
		return "--"
	}
	return fmt.Sprintf("%d:%02d /km", seconds/60, seconds%60)
}
