// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the slotdeck
// binaries. It centralizes the one legitimate raw write that happens
// after run() returns: reporting the final error to stderr and
// choosing the exit code.
package process
