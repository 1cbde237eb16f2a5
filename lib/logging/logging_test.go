// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/slotdeck/lib/testutil"
)

type channelSender struct {
	messages chan tea.Msg
}

func newChannelSender() *channelSender {
	return &channelSender{messages: make(chan tea.Msg, 16)}
}

func (c *channelSender) Send(message tea.Msg) {
	c.messages <- message
}

func (c *channelSender) next(t *testing.T) RecordMsg {
	t.Helper()
	message := testutil.RequireReceive(t, c.messages, 5*time.Second, "waiting for a log record")
	record, ok := message.(RecordMsg)
	if !ok {
		t.Fatalf("got %T, want RecordMsg", message)
	}
	return record
}

func (c *channelSender) expectNone(t *testing.T) {
	t.Helper()
	testutil.RequireNoReceive(t, c.messages, 50*time.Millisecond, "unexpected message")
}

func TestTUILogHandlerDropsBeforeSetProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	logger := slog.New(handler)
	logger.Warn("early")

	sender := newChannelSender()
	handler.SetProgram(sender)
	logger.Warn("late")

	if record := sender.next(t); record.Summary != "late" {
		t.Fatalf("Summary = %q, want \"late\"", record.Summary)
	}
	sender.expectNone(t)
}

func TestTUILogHandlerLevelAndSummary(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	sender := newChannelSender()
	handler.SetProgram(sender)

	logger := slog.New(handler).With("component", "camera")
	logger.Info("ignored")
	logger.Error("fetch failed", "slot", 5)

	record := sender.next(t)
	sender.expectNone(t)
	if record.Summary != "fetch failed (component=camera, slot=5)" {
		t.Errorf("Summary = %q", record.Summary)
	}
	if record.Level != slog.LevelError {
		t.Errorf("Level = %v, want ERROR", record.Level)
	}
}

func TestTUILogHandlerFlattensGroups(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	sender := newChannelSender()
	handler.SetProgram(sender)

	slog.New(handler).Warn("control failed",
		slog.Group("request", "slot", 7, "command", 1),
		slog.Group("empty"),
	)

	record := sender.next(t)
	if record.Summary != "control failed (request.slot=7, request.command=1)" {
		t.Errorf("Summary = %q", record.Summary)
	}
}

func TestTUILogHandlerDerivedSharesProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	derived := slog.New(handler).WithGroup("poll").With("kind", "dashboard")

	sender := newChannelSender()
	handler.SetProgram(sender)
	derived.Warn("slow", "ms", 900)

	if record := sender.next(t); record.Summary != "slow (poll.kind=dashboard, poll.ms=900)" {
		t.Errorf("Summary = %q, want grouped keys", record.Summary)
	}

	handler.SetProgram(nil)
	derived.Warn("after exit")
	sender.expectNone(t)
}

func TestFanout(t *testing.T) {
	var info, errorsOnly bytes.Buffer
	handler := Fanout(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		nil,
		slog.NewJSONHandler(&errorsOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(handler).With("run", 1)
	logger.Info("started")
	logger.Error("broke")

	if got := strings.Count(info.String(), "\n"); got != 2 {
		t.Errorf("info handler got %d lines, want 2", got)
	}
	if got := strings.Count(errorsOnly.String(), "\n"); got != 1 {
		t.Errorf("error handler got %d lines, want 1", got)
	}
	if !strings.Contains(errorsOnly.String(), `"run":1`) {
		t.Errorf("WithAttrs not propagated: %s", errorsOnly.String())
	}
	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(DEBUG) = true, want false")
	}
}

func TestFanoutSingleHandlerIsUnwrapped(t *testing.T) {
	inner := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if Fanout(inner, nil) != slog.Handler(inner) {
		t.Error("Fanout with one handler should return it unchanged")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "slotdeck.jsonl")
	handler, closer, err := OpenFile(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	slog.New(handler).Info("hello", "slot", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &fields); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, data)
	}
	if fields["msg"] != "hello" {
		t.Errorf("msg = %v", fields["msg"])
	}

	if _, _, err := OpenFile("", slog.LevelInfo); err == nil {
		t.Error("OpenFile(\"\") should fail")
	}
}

func TestStreamHandlerFormat(t *testing.T) {
	var text, structured bytes.Buffer
	slog.New(newStreamHandler(&text, true, slog.LevelInfo)).Info("hi")
	slog.New(newStreamHandler(&structured, false, slog.LevelInfo)).Info("hi")
	if !strings.Contains(text.String(), "msg=hi") {
		t.Errorf("terminal output = %q, want text format", text.String())
	}
	if !strings.HasPrefix(structured.String(), "{") {
		t.Errorf("piped output = %q, want JSON", structured.String())
	}
}
