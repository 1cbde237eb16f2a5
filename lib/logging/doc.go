// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the slog loggers used by slotdeck.
//
// Commands that print to the terminal use [NewCommandLogger]: text
// output when stderr is a terminal, JSON otherwise. While the
// dashboard owns the screen nothing may write to stderr, so records
// are routed through a [TUILogHandler] into the bubbletea program and,
// when --log-output is set, into a JSON file opened with [OpenFile].
// [Fanout] joins the two.
package logging
