// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Slotdeck-mock serves the slot backend HTTP surface from memory so the
// dashboard can be tried without real devices.
//
// It seeds three accounts (admin, operator, and viewer, all with the
// password "slotdeck") and a house of slots covering every kind, then
// perturbs readings and the porch camera frame every --simulate
// interval. Every route the dashboard uses is served:
//   - POST /api/auth/login
//   - GET /api/dashboard/full
//   - GET /api/camera/{slot}
//   - POST /api/control/{slot}
//   - PUT /api/alerts/{id}/read
//   - the /api/slots administration routes
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/slotdeck/lib/logging"
	"github.com/bureau-foundation/slotdeck/lib/mockbackend"
	"github.com/bureau-foundation/slotdeck/lib/process"
	"github.com/bureau-foundation/slotdeck/lib/version"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		address     string
		simulate    time.Duration
		verbose     bool
		showVersion bool
	)
	flagSet := pflag.NewFlagSet("slotdeck-mock", pflag.ContinueOnError)
	flagSet.StringVar(&address, "addr", "localhost:8080", "listen address")
	flagSet.DurationVar(&simulate, "simulate", 2*time.Second, "interval between simulated reading changes (0 disables)")
	flagSet.BoolVar(&verbose, "verbose", false, "log every request")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		version.Current().Print(os.Stdout, "slotdeck-mock")
		return nil
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewCommandLogger(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := mockbackend.New(mockbackend.Options{Logger: logger})
	backend.Seed()
	if simulate > 0 {
		go backend.Simulate(ctx, simulate)
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", address, err)
	}
	server := &http.Server{
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(listener)
	}()

	logger.Info("mock backend running",
		"url", "http://"+listener.Addr().String(),
		"accounts", []string{mockbackend.DemoAdmin, mockbackend.DemoOperator, mockbackend.DemoUser},
		"password", mockbackend.DemoPassword,
	)

	select {
	case <-ctx.Done():
	case err := <-serveDone:
		return fmt.Errorf("serving: %w", err)
	}
	logger.Info("shutting down")

	shutdownContext, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownContext); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveDone; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
