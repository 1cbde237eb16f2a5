// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockbackend

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// Handler returns the HTTP surface of the backend.
func (b *Backend) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(b.logRequests)

	router.HandleFunc("/api/auth/login", b.counted(EndpointLogin, b.handleLogin)).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(b.authenticate)
	api.HandleFunc("/dashboard/full", b.counted(EndpointDashboard, b.handleDashboard)).Methods(http.MethodGet)
	api.HandleFunc("/camera/{slot:[0-9]+}", b.counted(EndpointCamera, b.handleCamera)).Methods(http.MethodGet)
	api.HandleFunc("/control/{slot:[0-9]+}", b.counted(EndpointControl, b.handleControl)).Methods(http.MethodPost)
	api.HandleFunc("/alerts/{id:[0-9]+}/read", b.counted(EndpointAlertRead, b.handleAlertRead)).Methods(http.MethodPut)
	api.HandleFunc("/slots", b.counted(EndpointSlots, b.handleListSlots)).Methods(http.MethodGet)
	api.HandleFunc("/slots", b.counted(EndpointSlots, b.requireRole(schema.RoleAdmin, b.handleCreateSlot))).Methods(http.MethodPost)
	api.HandleFunc("/slots/available", b.counted(EndpointSlots, b.handleAvailableSlots)).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slot:[0-9]+}", b.counted(EndpointSlots, b.handleGetSlot)).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slot:[0-9]+}", b.counted(EndpointSlots, b.requireRole(schema.RoleAdmin, b.handleUpdateSlot))).Methods(http.MethodPut)
	api.HandleFunc("/slots/{slot:[0-9]+}", b.counted(EndpointSlots, b.requireRole(schema.RoleAdmin, b.handleDeleteSlot))).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return router
}

type userKey struct{}

// requestUser returns the authenticated user attached by authenticate.
func requestUser(r *http.Request) schema.User {
	user, _ := r.Context().Value(userKey{}).(schema.User)
	return user
}

func (b *Backend) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.logger.Debug("mock backend request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the bearer token. Unknown or missing tokens
// answer 401, which the client treats as a forced logout.
func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		userID, valid := b.tokens[token]
		var user schema.User
		if valid {
			for _, account := range b.accounts {
				if account.user.ID == userID {
					user = account.user
					break
				}
			}
		}
		b.mu.Unlock()

		if !found || !valid || user.ID == 0 {
			// Count the rejected call against its endpoint so tests
			// can see the request happened.
			if endpoint, ok := endpointForPath(r.URL.Path); ok {
				b.mu.Lock()
				b.calls[endpoint]++
				b.mu.Unlock()
			}
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

func endpointForPath(path string) (Endpoint, bool) {
	switch {
	case strings.HasPrefix(path, "/api/dashboard/"):
		return EndpointDashboard, true
	case strings.HasPrefix(path, "/api/camera/"):
		return EndpointCamera, true
	case strings.HasPrefix(path, "/api/control/"):
		return EndpointControl, true
	case strings.HasPrefix(path, "/api/alerts/"):
		return EndpointAlertRead, true
	case strings.HasPrefix(path, "/api/slots"):
		return EndpointSlots, true
	}
	return "", false
}

// counted increments the endpoint's call counter and answers with the
// injected failure, if one is set, before reaching handler.
func (b *Backend) counted(endpoint Endpoint, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[endpoint]++
		message, failing := b.failures[endpoint]
		dropping := b.disconnected[endpoint]
		b.mu.Unlock()
		if dropping {
			// net/http closes the connection without a response and
			// without logging a stack trace.
			panic(http.ErrAbortHandler)
		}
		if failing {
			writeError(w, http.StatusOK, message)
			return
		}
		handler(w, r)
	}
}

func (b *Backend) requireRole(minimum schema.Role, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requestUser(r).Role.AtLeast(minimum) {
			writeError(w, http.StatusForbidden, "permission denied")
			return
		}
		handler(w, r)
	}
}

func pathInt(r *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return value, err == nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: message, Data: data})
}
