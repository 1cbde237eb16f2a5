// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// RecordMsg is a log record on its way to the dashboard status bar.
type RecordMsg struct {
	Level slog.Level

	// Summary reads "message (key=value, ...)". Keys carry their group
	// path, e.g. "poll.ms=900".
	Summary string
}

// Sender is the part of *tea.Program the handler needs.
type Sender interface {
	Send(message tea.Msg)
}

type senderBox struct {
	sender Sender
}

// TUILogHandler turns slog records into RecordMsg values for a running
// bubbletea program. Writing to stderr while the alternate screen is
// up would corrupt the display, so background goroutines log through
// this handler instead.
//
// Records below the level, and records logged while no program is
// set, are dropped. Handlers derived with WithAttrs and WithGroup
// share the program slot with their parent.
type TUILogHandler struct {
	level   slog.Level
	program *atomic.Pointer[senderBox]
	prefix  string
	fields  []string
}

// NewTUILogHandler returns a handler for records at or above level.
func NewTUILogHandler(level slog.Level) *TUILogHandler {
	return &TUILogHandler{level: level, program: &atomic.Pointer[senderBox]{}}
}

// SetProgram starts delivery to program. SetProgram(nil) stops it and
// must be called once the program has exited, since Send on a finished
// program blocks forever.
func (handler *TUILogHandler) SetProgram(program Sender) {
	if program == nil {
		handler.program.Store(nil)
		return
	}
	handler.program.Store(&senderBox{sender: program})
}

func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	box := handler.program.Load()
	if box == nil {
		return nil
	}

	fields := slices.Clone(handler.fields)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, handler.prefix, attr)
		return true
	})

	summary := record.Message
	if len(fields) > 0 {
		summary += " (" + strings.Join(fields, ", ") + ")"
	}
	// Update itself logs, and Send blocks until Update receives.
	go box.sender.Send(RecordMsg{Level: record.Level, Summary: summary})
	return nil
}

func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.fields = slices.Clone(handler.fields)
	for _, attr := range attrs {
		derived.fields = appendField(derived.fields, handler.prefix, attr)
	}
	return &derived
}

func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	derived.prefix = handler.prefix + name + "."
	return &derived
}

// appendField formats attr as "prefix+key=value", flattening group
// values into one field per member.
func appendField(fields []string, prefix string, attr slog.Attr) []string {
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		members := value.Group()
		if len(members) == 0 {
			return fields
		}
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, member := range members {
			fields = appendField(fields, prefix, member)
		}
		return fields
	}
	if attr.Equal(slog.Attr{}) {
		return fields
	}
	return append(fields, prefix+attr.Key+"="+value.String())
}
