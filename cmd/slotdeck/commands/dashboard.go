// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/slotdeck/cmd/slotdeck/cli"
	"github.com/bureau-foundation/slotdeck/lib/dashui"
	"github.com/bureau-foundation/slotdeck/lib/logging"
	"github.com/bureau-foundation/slotdeck/lib/scheduler"
	"github.com/bureau-foundation/slotdeck/lib/session"
)

func dashboardCommand(globals *globalOptions, streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"dash"},
		Summary: "Open the live dashboard (default)",
		Description: `Open the live slot dashboard.

The full dashboard refreshes every dashboard_interval (default 5s) and
each camera every camera_interval (default 2s). Operators and admins
toggle control slots with space or enter; anyone can mark an alert
read. Press / to filter slots by name or location, r to refresh now,
and q to quit.

Warnings raised while the dashboard runs appear in the status line;
use --log-output to keep a full JSON log.`,
		Flags: func() *pflag.FlagSet { return globals.flagSet("dashboard") },
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runDashboard(globals, streams)
		},
	}
}

func runDashboard(globals *globalOptions, streams Streams) error {
	env, err := globals.open(streams)
	if err != nil {
		return err
	}
	defer env.close()

	if !env.newGuard(env.logger).RequireAuthenticated() {
		return &cli.ExitError{Code: 1}
	}

	// Anything written to stderr while the alt screen is up corrupts
	// the display, so background records go to the status line (and
	// the optional log file) instead.
	tuiHandler := logging.NewTUILogHandler(slog.LevelWarn)
	backgroundLogger := slog.New(logging.Fanout(tuiHandler, env.fileHandler))

	sink := &dashui.ProgramSink{}
	guard := env.newGuard(backgroundLogger)
	current := guard.Session()
	if current == nil {
		env.printRedirect(session.EntryPoint)
		return &cli.ExitError{Code: 1}
	}
	guard.SetRedirector(func(destination session.Destination) {
		if destination == session.EntryPoint {
			sink.EndSession()
		}
	})

	client, err := env.newClient(env.backendURL(current), guard.Token, guard.HandleUnauthorized, backgroundLogger)
	if err != nil {
		return err
	}

	labels := dashui.LabelsFor(env.config.Language)
	model := dashui.NewModel(dashui.Options{
		Backend: client,
		Guard:   guard,
		Cache:   env.cache,
		Intervals: scheduler.Intervals{
			Dashboard: env.config.DashboardInterval.Std(),
			Camera:    env.config.CameraInterval.Std(),
		},
		Sink:           sink.Tick,
		RequestTimeout: env.config.RequestTimeout.Std(),
		AlertLimit:     env.config.AlertLimit,
		Labels:         &labels,
		Logger:         backgroundLogger,
	})
	defer model.Stop()

	program := tea.NewProgram(model, tea.WithAltScreen())
	tuiHandler.SetProgram(program)
	sink.SetProgram(program)

	final, err := program.Run()

	tuiHandler.SetProgram(nil)
	sink.SetProgram(nil)
	if err != nil {
		return cli.Internal("dashboard: %w", err)
	}
	if finalModel, ok := final.(dashui.Model); ok && finalModel.Ended() {
		fmt.Fprintln(streams.Stderr, labels.SessionEnded)
		return &cli.ExitError{Code: 1}
	}
	return nil
}
