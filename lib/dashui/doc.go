// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashui is the interactive slot dashboard: a bubbletea model
// that polls the backend through a [scheduler.Scheduler], renders the
// slot snapshot as cards, dispatches control commands, and marks
// alerts read.
//
// Rendering is split in two. [BuildScreen] is a pure function from a
// snapshot plus UI state to a [Screen]: the cards, the alert rows, and
// the table of [Action] values the user can trigger. [Model.View]
// lays that Screen out with lipgloss. Keys never look handlers up by
// name; they resolve the focused row to an index in Screen.Actions.
//
// Every backend call runs as a tea.Cmd and re-enters Update as a
// message, so the model is only ever mutated on the bubbletea event
// loop. Scheduler ticks arrive the same way through a [ProgramSink].
package dashui
