// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/slotdeck/cmd/slotdeck/cli"
	"github.com/bureau-foundation/slotdeck/lib/session"
)

// loginTimeout bounds the whole login exchange.
const loginTimeout = 30 * time.Second

func loginCommand(globals *globalOptions, streams Streams) *cli.Command {
	var email string
	var passwordFile string

	return &cli.Command{
		Name:    "login",
		Summary: "Sign in and save the session",
		Description: `Sign in to the slot backend and save the session locally.

The session holds the bearer token and the account record, including
its role. The dashboard reads it on start; a backend that later rejects
the token ends the session and brings you back here.

The session file is written with mode 0600. Logging in while a session
exists is refused: run "slotdeck logout" first.`,
		Usage: "slotdeck login [--email address] [flags]",
		Examples: []cli.Example{
			{Description: "Prompt for email and password", Command: "slotdeck login"},
			{Description: "Read the password from a file", Command: "slotdeck login --email operator@slotdeck.local --password-file ~/.slotdeck-password"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := globals.flagSet("login")
			flagSet.StringVar(&email, "email", "", "account email (prompted when omitted)")
			flagSet.StringVar(&passwordFile, "password-file", "", "read the password from this file instead of prompting")
			return flagSet
		},
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
			if !guard.RequireUnauthenticated() {
				return &cli.ExitError{Code: 1}
			}

			if email == "" {
				fmt.Fprint(streams.Stderr, "Email: ")
				email, err = readLine(streams.Stdin)
				if err != nil {
					return cli.Internal("reading email: %w", err)
				}
			}
			email = strings.TrimSpace(email)
			if email == "" {
				return cli.Validation("email is required")
			}

			password, err := loginPassword(passwordFile, streams)
			if err != nil {
				return err
			}

			baseURL := env.config.APIURL
			client, err := env.newClient(baseURL, nil, nil, env.logger)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
			defer cancel()

			result, err := client.Login(ctx, email, password)
			if err != nil {
				return backendError("login failed", err)
			}

			current := &session.Session{Token: result.Token, User: result.User, APIURL: baseURL}
			if err := env.store.Save(current); err != nil {
				return cli.Internal("save session: %w", err)
			}

			fmt.Fprintf(streams.Stderr, "Logged in as %s (%s)\n", result.User.DisplayName(), result.User.Role)
			fmt.Fprintf(streams.Stderr, "Session saved to %s\n", env.store.Path())
			return nil
		},
	}
}

// loginPassword reads the password from passwordFile, or prompts when
// it is empty or "-".
func loginPassword(passwordFile string, streams Streams) (string, error) {
	if passwordFile == "" || passwordFile == "-" {
		password, err := streams.ReadPassword("Password: ")
		if err != nil {
			return "", err
		}
		if password == "" {
			return "", cli.Validation("password is required")
		}
		return password, nil
	}

	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", cli.Validation("reading %s: %w", passwordFile, err)
	}
	password := strings.TrimRight(string(data), "\r\n")
	if password == "" {
		return "", cli.Validation("file %s is empty (after stripping trailing newlines)", passwordFile)
	}
	return password, nil
}
