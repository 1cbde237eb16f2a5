// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"log/slog"
	"sync"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// Destination names where a redirect goes.
type Destination int

const (
	// EntryPoint is the unauthenticated entry point ("slotdeck login").
	EntryPoint Destination = iota
	// Dashboard is the authenticated landing view.
	Dashboard
)

// String returns the destination's command name.
func (d Destination) String() string {
	switch d {
	case EntryPoint:
		return "login"
	case Dashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// Redirector performs navigation. The CLI prints a hint and exits; the
// dashboard stops its timers and quits.
type Redirector func(Destination)

// Guard enforces authentication preconditions and answers privilege
// questions against the stored session.
type Guard struct {
	store    *Store
	logger   *slog.Logger
	mu       sync.Mutex
	redirect Redirector
	onClear  []func()
}

// NewGuard creates a Guard over store. redirect may be nil until
// SetRedirector is called; redirects before then are dropped.
func NewGuard(store *Store, redirect Redirector, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{store: store, redirect: redirect, logger: logger}
}

// SetRedirector replaces the navigation callback. The dashboard
// installs its own once the program is running.
func (g *Guard) SetRedirector(redirect Redirector) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.redirect = redirect
}

// OnClear registers a hook run whenever the session is destroyed,
// before the redirect. The snapshot cache uses it to purge the
// departing user's data.
func (g *Guard) OnClear(hook func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onClear = append(g.onClear, hook)
}

// Session returns the stored session, or nil when none is usable.
// Corrupt session files are logged and treated as absent.
func (g *Guard) Session() *Session {
	session, err := g.store.Load()
	if err != nil {
		// A bare ErrNoSession is the ordinary logged-out state.
		if err != ErrNoSession {
			g.logger.Warn("ignoring unusable session", "path", g.store.Path(), "error", err)
		}
		return nil
	}
	return session
}

// RequireAuthenticated returns true when a session with both token
// and user exists. Otherwise it redirects to the entry point and
// returns false; the caller must abort its initialization.
func (g *Guard) RequireAuthenticated() bool {
	if g.Session() != nil {
		return true
	}
	g.navigate(EntryPoint)
	return false
}

// RequireUnauthenticated is the inverse for the entry point: with a
// session present it redirects to the dashboard and returns false.
func (g *Guard) RequireUnauthenticated() bool {
	if g.Session() == nil {
		return true
	}
	g.navigate(Dashboard)
	return false
}

// CurrentUser returns the stored user, if any.
func (g *Guard) CurrentUser() (schema.User, bool) {
	session := g.Session()
	if session == nil {
		return schema.User{}, false
	}
	return session.User, true
}

// CurrentRole returns the stored user's role. An absent session or a
// role outside the closed set reports false.
func (g *Guard) CurrentRole() (schema.Role, bool) {
	user, ok := g.CurrentUser()
	if !ok || !user.Role.Known() {
		return "", false
	}
	return user.Role, true
}

// HasControlPrivilege reports whether the user may operate control
// slots (operator or admin).
func (g *Guard) HasControlPrivilege() bool {
	role, ok := g.CurrentRole()
	return ok && role.AtLeast(schema.RoleOperator)
}

// HasAdminPrivilege reports whether the user is an admin.
func (g *Guard) HasAdminPrivilege() bool {
	role, ok := g.CurrentRole()
	return ok && role.AtLeast(schema.RoleAdmin)
}

// Token returns the bearer token, or "" without a session. It is the
// token source handed to the backend client.
func (g *Guard) Token() string {
	session := g.Session()
	if session == nil {
		return ""
	}
	return session.Token
}

// HandleUnauthorized is invoked for every unauthorized backend
// response: the session is destroyed and the user sent to the entry
// point. Repeated invocations are harmless.
func (g *Guard) HandleUnauthorized() {
	g.logger.Warn("backend rejected credentials, ending session")
	g.clear()
	g.navigate(EntryPoint)
}

// Logout destroys the session and redirects to the entry point. It is
// idempotent: logging out without a session still redirects.
func (g *Guard) Logout() error {
	err := g.clear()
	g.navigate(EntryPoint)
	return err
}

func (g *Guard) clear() error {
	err := g.store.Clear()
	if err != nil {
		g.logger.Error("clearing session", "error", err)
	}
	g.mu.Lock()
	hooks := append([]func(){}, g.onClear...)
	g.mu.Unlock()
	for _, hook := range hooks {
		hook()
	}
	return err
}

func (g *Guard) navigate(destination Destination) {
	g.mu.Lock()
	redirect := g.redirect
	g.mu.Unlock()
	if redirect == nil {
		g.logger.Debug("redirect dropped, no redirector installed", "destination", destination)
		return
	}
	redirect(destination)
}
