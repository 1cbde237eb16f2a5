// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mockbackend is an in-memory implementation of the slot
// backend's REST surface. Tests mount it behind httptest.NewServer;
// cmd/slotdeck-mock serves it for demos.
//
// The backend keeps accounts, issued tokens, slot definitions, latest
// readings, alerts and camera frames in memory behind one mutex. Tests
// steer it with Fail (make an endpoint answer success:false), Revoke
// (make every token answer 401), and read Calls to observe how many
// requests each endpoint received.
package mockbackend
