// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockbackend

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/bureau-foundation/slotdeck/lib/clock"
	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// Endpoint names a route for failure injection and call counting.
type Endpoint string

const (
	EndpointLogin     Endpoint = "login"
	EndpointDashboard Endpoint = "dashboard"
	EndpointCamera    Endpoint = "camera"
	EndpointControl   Endpoint = "control"
	EndpointAlertRead Endpoint = "alert-read"
	EndpointSlots     Endpoint = "slots"
)

// MaxSlotNumber is the highest assignable slot number.
const MaxSlotNumber = 16

// Options configures a Backend.
type Options struct {
	// Clock stamps readings and alerts. Defaults to the real clock.
	Clock clock.Clock
	// Logger records requests. Defaults to slog.Default().
	Logger *slog.Logger
}

type account struct {
	user     schema.User
	password string
}

// Backend is the in-memory backend state.
type Backend struct {
	clock  clock.Clock
	logger *slog.Logger

	mu            sync.Mutex
	accounts      map[string]account
	tokens        map[string]int64
	slots         []schema.Slot
	data          map[int]schema.Datum
	alerts        []schema.Alert
	frames        map[int]schema.CameraFrame
	mqttConnected bool
	failures      map[Endpoint]string
	disconnected  map[Endpoint]bool
	calls         map[Endpoint]int
	nextUserID    int64
	nextAlertID   int64
}

// New returns an empty Backend.
func New(options Options) *Backend {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Backend{
		clock:         options.Clock,
		logger:        options.Logger,
		accounts:      make(map[string]account),
		tokens:        make(map[string]int64),
		data:          make(map[int]schema.Datum),
		frames:        make(map[int]schema.CameraFrame),
		failures:      make(map[Endpoint]string),
		disconnected:  make(map[Endpoint]bool),
		calls:         make(map[Endpoint]int),
		mqttConnected: true,
		nextUserID:    1,
		nextAlertID:   1,
	}
}

// AddAccount registers a user that can log in with password and
// returns the stored record.
func (b *Backend) AddAccount(name, email, password string, role schema.Role) schema.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	user := schema.User{ID: b.nextUserID, Name: name, Email: email, Role: role}
	b.nextUserID++
	b.accounts[email] = account{user: user, password: password}
	return user
}

// IssueToken returns a valid token for an existing account without a
// login round trip.
func (b *Backend) IssueToken(email string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	account, ok := b.accounts[email]
	if !ok {
		return "", false
	}
	return b.issueLocked(account.user.ID), true
}

func (b *Backend) issueLocked(userID int64) string {
	token := uuid.NewString()
	b.tokens[token] = userID
	return token
}

// Revoke invalidates every issued token.
func (b *Backend) Revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.tokens)
}

// PutSlot adds or replaces a slot definition. Order of first insertion
// is kept.
func (b *Backend) PutSlot(s schema.Slot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.putSlotLocked(s)
}

func (b *Backend) putSlotLocked(s schema.Slot) {
	for index := range b.slots {
		if b.slots[index].SlotNumber == s.SlotNumber {
			b.slots[index] = s
			return
		}
	}
	b.slots = append(b.slots, s)
}

// RemoveSlot deletes a slot and its reading and frame.
func (b *Backend) RemoveSlot(slotNumber int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeSlotLocked(slotNumber)
}

func (b *Backend) removeSlotLocked(slotNumber int) bool {
	index := slices.IndexFunc(b.slots, func(s schema.Slot) bool { return s.SlotNumber == slotNumber })
	if index < 0 {
		return false
	}
	b.slots = slices.Delete(b.slots, index, index+1)
	delete(b.data, slotNumber)
	delete(b.frames, slotNumber)
	return true
}

// SetReading records the latest value for a slot, stamped now.
func (b *Backend) SetReading(slotNumber int, value schema.Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[slotNumber] = schema.Datum{Value: value, CreatedAt: schema.At(b.clock.Now())}
}

// Reading returns the latest value for a slot.
func (b *Backend) Reading(slotNumber int) (schema.Datum, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	datum, ok := b.data[slotNumber]
	return datum, ok
}

// SetFrame records the latest camera frame for a slot.
func (b *Backend) SetFrame(slotNumber int, frame schema.CameraFrame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if frame.CreatedAt.IsZero() {
		frame.CreatedAt = schema.At(b.clock.Now())
	}
	b.frames[slotNumber] = frame
}

// AddAlert records an unread alert stamped now and returns it.
func (b *Backend) AddAlert(message string) schema.Alert {
	b.mu.Lock()
	defer b.mu.Unlock()
	alert := schema.Alert{ID: b.nextAlertID, Message: message, CreatedAt: schema.At(b.clock.Now())}
	b.nextAlertID++
	b.alerts = append(b.alerts, alert)
	return alert
}

// Alert returns the stored alert with id.
func (b *Backend) Alert(id int64) (schema.Alert, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, alert := range b.alerts {
		if alert.ID == id {
			return alert, true
		}
	}
	return schema.Alert{}, false
}

// SetMQTTConnected sets the reported device link state.
func (b *Backend) SetMQTTConnected(connected bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mqttConnected = connected
}

// Fail makes endpoint answer {success:false, error:message} until
// Recover is called.
func (b *Backend) Fail(endpoint Endpoint, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[endpoint] = message
}

// Disconnect makes endpoint drop the connection without answering,
// the way a crashed server or a broken network looks to the client.
// Calls are still counted.
func (b *Backend) Disconnect(endpoint Endpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected[endpoint] = true
}

// Recover clears failures injected by Fail and Disconnect.
func (b *Backend) Recover(endpoint Endpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, endpoint)
	delete(b.disconnected, endpoint)
}

// Calls returns how many requests endpoint has received, including
// rejected ones.
func (b *Backend) Calls(endpoint Endpoint) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[endpoint]
}
