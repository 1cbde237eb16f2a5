// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds channel assertions shared by slotdeck tests.
//
// Timer-driven code runs against the fake clock in lib/clock. The
// wall-clock timeouts here only keep a broken test from hanging, or
// bound the wait for something that must not arrive.
package testutil
