// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for CLI commands.
// When stderr is a terminal it uses slog.TextHandler; when stderr is
// piped or redirected it uses slog.JSONHandler.
//
// Callers scope the logger via With():
//
//	logger := logging.NewCommandLogger(slog.LevelInfo).With("command", "login")
func NewCommandLogger(level slog.Level) *slog.Logger {
	return slog.New(newStreamHandler(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level))
}

func newStreamHandler(w io.Writer, terminal bool, level slog.Level) slog.Handler {
	options := &slog.HandlerOptions{Level: level}
	if terminal {
		return slog.NewTextHandler(w, options)
	}
	return slog.NewJSONHandler(w, options)
}

// OpenFile opens (appending) a JSON log file at path and returns a
// handler writing to it. The caller closes the returned io.Closer
// when the program exits.
func OpenFile(path string, level slog.Level) (slog.Handler, io.Closer, error) {
	if path == "" {
		return nil, nil, errors.New("log output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}), file, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Fanout returns a handler that passes each record to every handler
// that accepts its level. Nil handlers are skipped. Errors from the
// individual handlers are joined.
func Fanout(handlers ...slog.Handler) slog.Handler {
	var kept []slog.Handler
	for _, handler := range handlers {
		if handler != nil {
			kept = append(kept, handler)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &fanoutHandler{handlers: kept}
}

type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range f.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range f.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		// Each handler gets its own copy; Record shares attr storage.
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make([]slog.Handler, len(f.handlers))
	for index, handler := range f.handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: derived}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make([]slog.Handler, len(f.handlers))
	for index, handler := range f.handlers {
		derived[index] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: derived}
}
