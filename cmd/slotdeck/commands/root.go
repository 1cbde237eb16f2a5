// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/slotdeck/cmd/slotdeck/cli"
	"github.com/bureau-foundation/slotdeck/lib/version"
)

// Streams is the process I/O used by commands.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ReadPassword prompts for a password without echo.
	ReadPassword func(prompt string) (string, error)
}

// DefaultStreams returns the process's standard streams with a
// terminal password prompt.
func DefaultStreams() Streams {
	return Streams{
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		ReadPassword: terminalPassword,
	}
}

func terminalPassword(prompt string) (string, error) {
	fileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(fileDescriptor) {
		return "", cli.Validation("no terminal available for the password prompt (use --password-file)")
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", cli.Internal("reading password: %w", err)
	}
	return string(password), nil
}

// readLine reads one line from r with the trailing newline removed.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Root builds the command tree on the process's standard streams.
func Root() *cli.Command {
	return NewRoot(DefaultStreams())
}

// NewRoot builds the command tree on streams.
func NewRoot(streams Streams) *cli.Command {
	globals := &globalOptions{}
	var showVersion bool

	root := &cli.Command{
		Name: "slotdeck",
		Description: `slotdeck: terminal dashboard for IoT slots.

Shows sensor values, status lights, switches, and camera frames from a
slot backend, refreshes them on a timer, and lets operators flip
switches and acknowledge alerts. Run without a command to open the
dashboard.`,
		Usage:      "slotdeck [command] [flags]",
		HelpOutput: streams.Stderr,
		Examples: []cli.Example{
			{Description: "Sign in against a local mock backend", Command: "slotdeck login --email operator@slotdeck.local"},
			{Description: "Open the dashboard", Command: "slotdeck"},
			{Description: "Use a specific backend and log to a file", Command: "slotdeck --api-url http://iot.local:5000 --log-output /tmp/slotdeck.jsonl"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := globals.flagSet("slotdeck")
			flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
			return flagSet
		},
		Run: func(args []string) error {
			if showVersion {
				version.Current().Print(streams.Stdout, "slotdeck")
				return nil
			}
			return runDashboard(globals, streams)
		},
	}

	root.Subcommands = []*cli.Command{
		dashboardCommand(globals, streams),
		loginCommand(globals, streams),
		logoutCommand(globals, streams),
		whoamiCommand(globals, streams),
		{
			Name:    "version",
			Summary: "Print version information",
			Run: func(args []string) error {
				version.Current().Print(streams.Stdout, "slotdeck")
				return nil
			},
		},
	}
	return root
}
