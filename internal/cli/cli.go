// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tomtom215/runboard/internal/config"
	"github.com/tomtom215/runboard/internal/logging"
)

// Run executes runboardctl with args and writes command output to stdout.
func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, os.Stdout)
}

func run(ctx context.Context, args []string, version string, out io.Writer) error {
	app := newApp(version, out)
	if err := app.Run(ctx, args); err != nil {
		logging.Error().Err(err).Msg("runboardctl failed")
		return err
	}
	return nil
}

func newApp(version string, out io.Writer) *cli.Command {
	var configPath string
	var logLevel string

	return &cli.Command{
		Name:    "runboardctl",
		Usage:   "Operate a Runboard leaderboard store from the command line",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to a YAML config file",
				Sources:     cli.EnvVars(config.ConfigPathEnvVar),
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (trace, debug, info, warn, error)",
				Value:       "warn",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Destination: &logLevel,
			},
		},
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			if configPath != "" {
				if _, err := os.Stat(configPath); err != nil {
					return ctx, fmt.Errorf("config file: %w", err)
				}
				if err := os.Setenv(config.ConfigPathEnvVar, configPath); err != nil {
					return ctx, fmt.Errorf("set %s: %w", config.ConfigPathEnvVar, err)
				}
			}
			logging.Init(logging.Config{
				Level:  logLevel,
				Format: "console",
				Output: os.Stderr,
			})
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdSync(),
			cmdExtract(),
			cmdStandings(),
			cmdMigrate(),
		},
	}
}

// loadConfig reads configuration the same way the server does.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
