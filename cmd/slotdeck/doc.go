// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// slotdeck is a terminal dashboard for IoT slots.
//
// Run without arguments it opens the live dashboard for the signed-in
// user. "slotdeck login" creates the session it needs, "slotdeck
// logout" removes it, and "slotdeck whoami" shows it. Pair it with
// slotdeck-mock for a self-contained demo.
package main
