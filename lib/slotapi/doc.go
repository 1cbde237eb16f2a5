// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package slotapi is the client for the slot backend's REST surface.
//
// Every call attaches the session's bearer token and expects the
// backend's JSON envelope:
//
//	{"success": true, ...payload...}
//	{"success": false, "error": "device offline"}
//
// Failures are returned as *[Error] carrying a [Category]:
//
//   - CategoryUnauthorized: the backend answered 401. The client runs
//     its OnUnauthorized hook before returning, so every caller gets
//     the same forced logout no matter which timer or key press issued
//     the request.
//   - CategoryTransient: the backend could not be reached, the
//     response was not JSON, or the status was an error without an
//     envelope. The next polling cycle is the retry.
//   - CategoryApplication: the backend answered with success:false.
//     Message carries the backend's text verbatim.
package slotapi
