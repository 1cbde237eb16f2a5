// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the wire types exchanged with the slot
// backend: slots and their latest readings, alerts, camera frames,
// the dashboard payload, and the authenticated user record.
//
// Types here carry JSON tags matching the backend exactly. They hold
// no behavior beyond decoding leniency (see [Value] and [Timestamp]);
// classification and display rules live in lib/slot.
//
// This package depends on no other slotdeck packages.
package schema
