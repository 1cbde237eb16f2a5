// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// TB is the part of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch, failing the test if
// ch is closed or stays empty for timeout.
//
//	tick := testutil.RequireReceive(t, ticks, time.Second, "dashboard tick")
func RequireReceive[T any](t TB, ch <-chan T, timeout time.Duration, msgAndArgs ...any) T {
	t.Helper()
	deadline := time.NewTimer(timeout) //nolint:realclock hung-test guard
	defer deadline.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed before %s", describe(msgAndArgs))
		}
		return value
	case <-deadline.C:
		t.Fatalf("no value after %v: %s", timeout, describe(msgAndArgs))
	}
	var zero T
	return zero
}

// RequireNoReceive fails the test if ch yields a value within window.
//
//	testutil.RequireNoReceive(t, ticks, 50*time.Millisecond, "tick after stop")
func RequireNoReceive[T any](t TB, ch <-chan T, window time.Duration, msgAndArgs ...any) {
	t.Helper()
	quiet := time.NewTimer(window) //nolint:realclock bounded negative wait
	defer quiet.Stop()
	select {
	case value, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value %+v: %s", value, describe(msgAndArgs))
		}
	case <-quiet.C:
	}
}

// describe renders the optional message: a plain value, or a format
// string followed by its arguments.
func describe(msgAndArgs []any) string {
	switch {
	case len(msgAndArgs) == 0:
		return "(no message)"
	case len(msgAndArgs) == 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
