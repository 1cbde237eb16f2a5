// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the operator's authentication state and the
// guard that every entry point consults before doing work.
//
// The session is a bearer token plus the user record returned at
// login, persisted as a JSON file (mode 0600) at the path returned by
// FilePath. It is created by "slotdeck login" and destroyed by
// "slotdeck logout" or by any unauthorized response from the backend.
//
// [Guard] answers the two questions the rest of the program asks:
// may this command proceed (RequireAuthenticated,
// RequireUnauthenticated), and what may the current user do
// (HasControlPrivilege, HasAdminPrivilege). Navigation is delegated to
// an injected [Redirector] so the CLI and the dashboard each decide
// what leaving means.
package session
