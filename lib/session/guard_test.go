// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

type recordingRedirect struct {
	destinations []Destination
}

func (r *recordingRedirect) redirect(destination Destination) {
	r.destinations = append(r.destinations, destination)
}

func newTestGuard(t *testing.T, session *Session) (*Guard, *Store, *recordingRedirect) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if session != nil {
		if err := store.Save(session); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	recorder := &recordingRedirect{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGuard(store, recorder.redirect, logger), store, recorder
}

func sessionWithRole(role schema.Role) *Session {
	return &Session{Token: "t", User: schema.User{ID: 1, Email: "x@example.com", Role: role}}
}

func TestRequireAuthenticated(t *testing.T) {
	t.Parallel()

	guard, _, recorder := newTestGuard(t, sessionWithRole(schema.RoleUser))
	if !guard.RequireAuthenticated() {
		t.Error("RequireAuthenticated = false with a stored session")
	}
	if len(recorder.destinations) != 0 {
		t.Errorf("unexpected redirects: %v", recorder.destinations)
	}

	guard, _, recorder = newTestGuard(t, nil)
	if guard.RequireAuthenticated() {
		t.Error("RequireAuthenticated = true without a session")
	}
	if !slices.Equal(recorder.destinations, []Destination{EntryPoint}) {
		t.Errorf("redirects = %v, want [login]", recorder.destinations)
	}
}

func TestRequireUnauthenticated(t *testing.T) {
	t.Parallel()

	guard, _, recorder := newTestGuard(t, sessionWithRole(schema.RoleAdmin))
	if guard.RequireUnauthenticated() {
		t.Error("RequireUnauthenticated = true with a session")
	}
	if !slices.Equal(recorder.destinations, []Destination{Dashboard}) {
		t.Errorf("redirects = %v, want [dashboard]", recorder.destinations)
	}

	guard, _, recorder = newTestGuard(t, nil)
	if !guard.RequireUnauthenticated() {
		t.Error("RequireUnauthenticated = false without a session")
	}
	if len(recorder.destinations) != 0 {
		t.Errorf("unexpected redirects: %v", recorder.destinations)
	}
}

func TestPrivileges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role    schema.Role
		control bool
		admin   bool
	}{
		{schema.RoleAdmin, true, true},
		{schema.RoleOperator, true, false},
		{schema.RoleUser, false, false},
		{schema.Role("guest"), false, false},
	}
	for _, test := range tests {
		guard, _, _ := newTestGuard(t, sessionWithRole(test.role))
		if got := guard.HasControlPrivilege(); got != test.control {
			t.Errorf("%s: HasControlPrivilege = %v, want %v", test.role, got, test.control)
		}
		if got := guard.HasAdminPrivilege(); got != test.admin {
			t.Errorf("%s: HasAdminPrivilege = %v, want %v", test.role, got, test.admin)
		}
	}

	guard, _, _ := newTestGuard(t, nil)
	if guard.HasControlPrivilege() || guard.HasAdminPrivilege() {
		t.Error("privileges granted without a session")
	}
	if _, ok := guard.CurrentRole(); ok {
		t.Error("CurrentRole reported a role without a session")
	}
}

func TestHandleUnauthorized(t *testing.T) {
	t.Parallel()

	guard, store, recorder := newTestGuard(t, sessionWithRole(schema.RoleOperator))
	purged := 0
	guard.OnClear(func() { purged++ })

	guard.HandleUnauthorized()

	if _, err := store.Load(); err != ErrNoSession {
		t.Errorf("session still stored after unauthorized: %v", err)
	}
	if purged != 1 {
		t.Errorf("clear hooks ran %d times, want 1", purged)
	}
	if !slices.Equal(recorder.destinations, []Destination{EntryPoint}) {
		t.Errorf("redirects = %v, want [login]", recorder.destinations)
	}
	if guard.Token() != "" {
		t.Error("Token still available after unauthorized")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	guard, _, recorder := newTestGuard(t, sessionWithRole(schema.RoleUser))
	for range 2 {
		if err := guard.Logout(); err != nil {
			t.Fatalf("Logout: %v", err)
		}
	}
	if !slices.Equal(recorder.destinations, []Destination{EntryPoint, EntryPoint}) {
		t.Errorf("redirects = %v, want two to login", recorder.destinations)
	}
	if guard.Session() != nil {
		t.Error("session survived logout")
	}
}

func TestGuardWithoutRedirector(t *testing.T) {
	t.Parallel()

	guard, _, _ := newTestGuard(t, nil)
	guard.SetRedirector(nil)
	if guard.RequireAuthenticated() {
		t.Error("RequireAuthenticated = true without a session")
	}
}
