// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/slotdeck/cmd/slotdeck/cli"
	"github.com/bureau-foundation/slotdeck/lib/dashui"
)

func whoamiCommand(globals *globalOptions, streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the signed-in user",
		Description: `Print the signed-in user, their role, and what the role allows.

Reads the saved session only; the backend is not contacted. Exits 1
when nobody is logged in.`,
		Flags: func() *pflag.FlagSet { return globals.flagSet("whoami") },
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
			if !guard.RequireAuthenticated() {
				return &cli.ExitError{Code: 1}
			}
			current := guard.Session()
			if current == nil {
				return &cli.ExitError{Code: 1}
			}

			labels := dashui.LabelsFor(env.config.Language)
			user := current.User
			fmt.Fprintf(streams.Stdout, "%s <%s>\n", user.DisplayName(), user.Email)
			fmt.Fprintf(streams.Stdout, "role:     %s\n", labels.RoleName(user.Role))
			fmt.Fprintf(streams.Stdout, "control:  %t\n", guard.HasControlPrivilege())
			fmt.Fprintf(streams.Stdout, "admin:    %t\n", guard.HasAdminPrivilege())
			fmt.Fprintf(streams.Stdout, "backend:  %s\n", env.backendURL(current))
			return nil
		},
	}
}
