// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"sync/atomic"

	"github.com/bureau-foundation/slotdeck/lib/logging"
	"github.com/bureau-foundation/slotdeck/lib/scheduler"
)

// TickMsg delivers a scheduler tick to the model.
type TickMsg struct {
	Tick scheduler.Tick
}

// SessionEndedMsg tells the model the session is gone and the
// dashboard must be left.
type SessionEndedMsg struct{}

// ProgramSink forwards scheduler ticks and session redirects into a
// bubbletea program. Like the log handler it is created before the
// program exists; until SetProgram is called everything is dropped.
type ProgramSink struct {
	program atomic.Pointer[programBox]
}

type programBox struct {
	sender logging.Sender
}

// SetProgram sets the receiving program. Pass nil after the program
// exits.
func (sink *ProgramSink) SetProgram(program logging.Sender) {
	if program == nil {
		sink.program.Store(nil)
		return
	}
	sink.program.Store(&programBox{sender: program})
}

// Tick is a scheduler sink.
func (sink *ProgramSink) Tick(tick scheduler.Tick) {
	if box := sink.program.Load(); box != nil {
		box.sender.Send(TickMsg{Tick: tick})
	}
}

// EndSession delivers SessionEndedMsg. It runs from whatever goroutine
// observed the unauthorized response, never from Update.
func (sink *ProgramSink) EndSession() {
	if box := sink.program.Load(); box != nil {
		box.sender.Send(SessionEndedMsg{})
	}
}
