// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/bureau-foundation/slotdeck/cmd/slotdeck/commands"
	"github.com/bureau-foundation/slotdeck/lib/process"
)

func main() {
	// Commands that print their own output (like whoami without a
	// session) return an ExitError with the desired code.
	process.Exit(run())
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
