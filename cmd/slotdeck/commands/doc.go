// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the slotdeck command tree: the dashboard
// (the default when no subcommand is named), login, logout, whoami,
// and version.
//
// Every command resolves the same environment from the global flags:
// the configuration file, an optional .env file, the session store,
// the snapshot cache, and the command logger. I/O goes through
// [Streams] so tests can drive commands without a terminal.
package commands
