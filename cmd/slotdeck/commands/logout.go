// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/slotdeck/cmd/slotdeck/cli"
)

func logoutCommand(globals *globalOptions, streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "logout",
		Summary: "Remove the saved session",
		Description: `Remove the saved session and the cached dashboard snapshot.

Logging out without a session is not an error.`,
		Flags: func() *pflag.FlagSet { return globals.flagSet("logout") },
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			env, err := globals.open(streams)
			if err != nil {
				return err
			}
			defer env.close()

			guard := env.newGuard(env.logger)
			wasLoggedIn := guard.Session() != nil
			// The entry-point hint printed by the default redirector
			// would read as an error here.
			guard.SetRedirector(nil)
			if err := guard.Logout(); err != nil {
				return cli.Internal("remove session: %w", err)
			}

			if wasLoggedIn {
				fmt.Fprintln(streams.Stderr, "Logged out.")
			} else {
				fmt.Fprintln(streams.Stderr, "Not logged in.")
			}
			return nil
		},
	}
}
