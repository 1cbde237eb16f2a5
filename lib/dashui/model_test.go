// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/slotdeck/lib/clock"
	"github.com/bureau-foundation/slotdeck/lib/logging"
	"github.com/bureau-foundation/slotdeck/lib/mockbackend"
	"github.com/bureau-foundation/slotdeck/lib/scheduler"
	"github.com/bureau-foundation/slotdeck/lib/schema"
	"github.com/bureau-foundation/slotdeck/lib/session"
	"github.com/bureau-foundation/slotdeck/lib/slotapi"
	"github.com/bureau-foundation/slotdeck/lib/snapcache"
	"github.com/bureau-foundation/slotdeck/lib/testutil"
)

var modelEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// harness runs a Model against lib/mockbackend over HTTP, executing
// returned commands synchronously and feeding their messages back in.
type harness struct {
	t       *testing.T
	backend *mockbackend.Backend
	guard   *session.Guard
	clock   *clock.FakeClock
	ticks   chan scheduler.Tick
	model   Model
	quit    bool

	mu        sync.Mutex
	redirects []session.Destination
}

type harnessOptions struct {
	email string
	cache *snapcache.Cache
	setup func(*mockbackend.Backend)
}

func newHarness(t *testing.T, options harnessOptions) *harness {
	t.Helper()
	logger := logging.Discard()
	backend := mockbackend.New(mockbackend.Options{Logger: logger})
	backend.Seed()
	if options.setup != nil {
		options.setup(backend)
	}
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	h := &harness{
		t:       t,
		backend: backend,
		clock:   clock.Fake(modelEpoch),
		ticks:   make(chan scheduler.Tick, 16),
	}
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	h.guard = session.NewGuard(store, h.redirect, logger)

	client, err := slotapi.New(slotapi.Config{
		BaseURL:        server.URL,
		HTTPClient:     server.Client(),
		Token:          h.guard.Token,
		OnUnauthorized: h.guard.HandleUnauthorized,
		Logger:         logger,
	})
	if err != nil {
		t.Fatalf("slotapi.New: %v", err)
	}
	login, err := client.Login(context.Background(), options.email, mockbackend.DemoPassword)
	if err != nil {
		t.Fatalf("Login(%s): %v", options.email, err)
	}
	if err := store.Save(&session.Session{Token: login.Token, User: login.User, APIURL: server.URL}); err != nil {
		t.Fatalf("Save session: %v", err)
	}

	h.model = NewModel(Options{
		Backend: client,
		Guard:   h.guard,
		Cache:   options.cache,
		Clock:   h.clock,
		Sink:    func(tick scheduler.Tick) { h.ticks <- tick },
		Logger:  logger,
	})
	t.Cleanup(h.model.Stop)
	h.update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return h
}

func (h *harness) redirect(destination session.Destination) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.redirects = append(h.redirects, destination)
}

func (h *harness) redirected() []session.Destination {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.redirects)
}

func (h *harness) update(message tea.Msg) tea.Cmd {
	updated, command := h.model.Update(message)
	h.model = updated.(Model)
	return command
}

// send delivers message and runs every resulting command to
// completion.
func (h *harness) send(message tea.Msg) {
	h.t.Helper()
	h.drain(h.update(message))
}

func (h *harness) drain(command tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{command}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			h.t.Fatal("command queue did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch message := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, message...)
		case tea.QuitMsg:
			h.quit = true
		default:
			queue = append(queue, h.update(message))
		}
	}
}

func (h *harness) start() {
	h.t.Helper()
	h.send(h.model.Init()())
	if h.model.dashboard == nil {
		h.t.Fatal("no dashboard after start")
	}
}

func (h *harness) press(keys string) {
	h.t.Helper()
	for _, character := range keys {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{character}})
	}
}

func (h *harness) pressSpace() {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeySpace})
}

// focusOn moves the focus to the action matching match.
func (h *harness) focusOn(match func(Action) bool) {
	h.t.Helper()
	for _, action := range h.model.current.Actions {
		if match(action) {
			h.model.focus = action.focusKey()
			return
		}
	}
	h.t.Fatalf("no matching action in %+v", h.model.current.Actions)
}

func (h *harness) card(slotNumber int) Card {
	h.t.Helper()
	return findCard(h.t, h.model.current, slotNumber)
}

func (h *harness) noticeText() string {
	if h.model.notice == nil {
		return ""
	}
	return h.model.notice.text
}

func (h *harness) nextTick() scheduler.Tick {
	h.t.Helper()
	return testutil.RequireReceive(h.t, h.ticks, 5*time.Second, "waiting for a scheduler tick")
}

func TestModelStartLoadsDashboardAndCameras(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()

	if got := len(h.model.dashboard.Slots); got != 8 {
		t.Errorf("got %d slots, want 8", got)
	}
	if !h.model.scheduler.Active(scheduler.KindDashboard, scheduler.DashboardKey) {
		t.Error("dashboard timer not running")
	}
	if keys := h.model.scheduler.ActiveKeys(scheduler.KindCamera); !slices.Equal(keys, []int{5, 6}) {
		t.Errorf("camera timers = %v, want [5 6]", keys)
	}
	if h.model.frames[5].Status != FrameCloud {
		t.Errorf("camera 5 = %v, want cloud frame", h.model.frames[5].Status)
	}
	if h.model.frames[6].Status != FrameStream {
		t.Errorf("camera 6 = %v, want stream", h.model.frames[6].Status)
	}

	view := h.model.View()
	for _, want := range []string{"Ceiling fan", "Garden lights", "Front door opened", "Operator"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelOperatorSeesUncheckedToggle(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()

	fan := h.card(3)
	if fan.Toggle == nil || fan.Toggle.On {
		t.Fatalf("slot 3 toggle = %+v, want enabled and unchecked", fan.Toggle)
	}
}

func TestModelViewerHasNoToggles(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoUser})
	h.start()

	for _, action := range h.model.current.Actions {
		if action.Kind == ActionToggle {
			t.Errorf("viewer has toggle action %+v", action)
		}
	}
	if strings.Contains(h.model.View(), "[ ]") || strings.Contains(h.model.View(), "[x]") {
		t.Error("viewer view shows an interactive toggle")
	}
}

func TestModelDashboardFailureKeepsRender(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()
	before := h.model.dashboard

	h.backend.Fail(mockbackend.EndpointDashboard, "DB down")
	h.press("r")

	if h.model.dashboard != before {
		t.Error("failed refresh replaced the snapshot")
	}
	if got := h.noticeText(); got != "DB down" {
		t.Errorf("notice = %q, want %q", got, "DB down")
	}
	view := h.model.View()
	if !strings.Contains(view, "DB down") || !strings.Contains(view, "Ceiling fan") {
		t.Error("view should keep the cards and show the error")
	}
}

func TestModelDashboardNetworkErrorKeepsRender(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()
	before := h.model.dashboard
	fetches := h.backend.Calls(mockbackend.EndpointDashboard)

	h.backend.Disconnect(mockbackend.EndpointDashboard)
	h.press("r")

	if got := h.backend.Calls(mockbackend.EndpointDashboard); got <= fetches {
		t.Fatalf("dashboard fetches = %d, want more than %d", got, fetches)
	}
	if h.model.dashboard != before {
		t.Error("failed refresh replaced the snapshot")
	}
	if got := h.noticeText(); got != English.CannotReach {
		t.Errorf("notice = %q, want %q", got, English.CannotReach)
	}
	view := h.model.View()
	if !strings.Contains(view, English.CannotReach) || !strings.Contains(view, "Ceiling fan") {
		t.Error("view should keep the cards and show the connection notice")
	}
	if !h.model.scheduler.Active(scheduler.KindDashboard, scheduler.DashboardKey) {
		t.Error("dashboard timer stopped after a network error")
	}

	h.backend.Recover(mockbackend.EndpointDashboard)
	h.press("r")
	if h.model.dashboard == before {
		t.Error("refresh after recovery did not replace the snapshot")
	}
}

func TestModelToggleNetworkErrorResyncs(t *testing.T) {
	h := newHarness(t, harnessOptions{
		email: mockbackend.DemoOperator,
		setup: func(backend *mockbackend.Backend) {
			backend.SetReading(7, schema.NumberValue(0))
		},
	})
	h.start()
	fetches := h.backend.Calls(mockbackend.EndpointDashboard)
	h.backend.Disconnect(mockbackend.EndpointControl)

	h.focusOn(func(action Action) bool { return action.Kind == ActionToggle && action.SlotNumber == 7 })
	command := h.update(tea.KeyMsg{Type: tea.KeySpace})
	if lights := h.card(7); lights.Toggle == nil || !lights.Toggle.On {
		t.Fatalf("optimistic toggle = %+v, want on", lights.Toggle)
	}

	h.drain(command)

	if got := h.backend.Calls(mockbackend.EndpointControl); got != 1 {
		t.Errorf("control calls = %d, want 1", got)
	}
	if got := h.noticeText(); got != English.CannotReach {
		t.Errorf("notice = %q, want %q", got, English.CannotReach)
	}
	if got := h.backend.Calls(mockbackend.EndpointDashboard); got != fetches+1 {
		t.Errorf("dashboard fetches = %d, want %d", got, fetches+1)
	}
	lights := h.card(7)
	if lights.Toggle == nil || lights.Toggle.On || lights.Toggle.Pending {
		t.Errorf("after resync toggle = %+v, want authoritative off", lights.Toggle)
	}
}

func TestModelToggleFailureResyncs(t *testing.T) {
	h := newHarness(t, harnessOptions{
		email: mockbackend.DemoOperator,
		setup: func(backend *mockbackend.Backend) {
			backend.SetReading(7, schema.NumberValue(0))
			backend.Fail(mockbackend.EndpointControl, "device offline")
		},
	})
	h.start()
	fetches := h.backend.Calls(mockbackend.EndpointDashboard)

	h.focusOn(func(action Action) bool { return action.Kind == ActionToggle && action.SlotNumber == 7 })
	command := h.update(tea.KeyMsg{Type: tea.KeySpace})

	lights := h.card(7)
	if lights.Toggle == nil || !lights.Toggle.On || !lights.Toggle.Pending {
		t.Fatalf("optimistic toggle = %+v, want pending on", lights.Toggle)
	}

	h.drain(command)

	if got := h.noticeText(); got != "device offline" {
		t.Errorf("notice = %q, want %q", got, "device offline")
	}
	if got := h.backend.Calls(mockbackend.EndpointDashboard); got != fetches+1 {
		t.Errorf("dashboard fetches = %d, want %d", got, fetches+1)
	}
	lights = h.card(7)
	if lights.Toggle == nil || lights.Toggle.On || lights.Toggle.Pending {
		t.Errorf("after resync toggle = %+v, want authoritative off", lights.Toggle)
	}
}

func TestModelToggleSuccess(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoAdmin})
	h.start()
	fetches := h.backend.Calls(mockbackend.EndpointDashboard)

	h.focusOn(func(action Action) bool { return action.Kind == ActionToggle && action.SlotNumber == 3 })
	h.pressSpace()

	if got := h.noticeText(); got != "Ceiling fan turned ON" {
		t.Errorf("notice = %q", got)
	}
	if got := h.backend.Calls(mockbackend.EndpointDashboard); got != fetches {
		t.Errorf("successful toggle fetched the dashboard %d times", got-fetches)
	}
	if datum, _ := h.backend.Reading(3); datum.Value.Text() != "1" {
		t.Errorf("backend slot 3 = %q, want 1", datum.Value.Text())
	}

	h.press("r")
	fan := h.card(3)
	if fan.Toggle == nil || !fan.Toggle.On || fan.Toggle.Pending {
		t.Errorf("after refresh toggle = %+v, want settled on", fan.Toggle)
	}
}

func TestModelMarkReadIsIdempotent(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoUser})
	h.start()
	alert := h.model.current.Alerts[0]
	fetches := h.backend.Calls(mockbackend.EndpointDashboard)

	for range 2 {
		h.focusOn(func(action Action) bool { return action.Kind == ActionMarkRead && action.AlertID == alert.ID })
		h.pressSpace()
	}

	stored, ok := h.backend.Alert(alert.ID)
	if !ok || !stored.IsRead {
		t.Fatalf("alert %d = %+v, want read", alert.ID, stored)
	}
	if got := h.backend.Calls(mockbackend.EndpointAlertRead); got != 2 {
		t.Errorf("mark-read calls = %d, want 2", got)
	}
	if got := h.backend.Calls(mockbackend.EndpointDashboard); got != fetches+2 {
		t.Errorf("dashboard fetches = %d, want %d", got, fetches+2)
	}
	for _, row := range h.model.current.Alerts {
		if row.ID == alert.ID && !row.Read {
			t.Error("rendered alert is still unread")
		}
	}
	if h.model.current.Unread != 1 {
		t.Errorf("Unread = %d, want 1", h.model.current.Unread)
	}
}

func TestModelUnauthorizedCameraEndsSession(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()

	h.backend.Revoke()
	h.clock.Advance(scheduler.DefaultIntervals().Camera)
	tick := h.nextTick()
	if tick.Kind != scheduler.KindCamera {
		t.Fatalf("first tick = %+v, want a camera tick", tick)
	}
	h.send(TickMsg{Tick: tick})

	if h.guard.Session() != nil {
		t.Error("session not cleared")
	}
	if got := h.redirected(); !slices.Equal(got, []session.Destination{session.EntryPoint}) {
		t.Errorf("redirects = %v, want [login]", got)
	}
	if !h.quit || !h.model.Ended() {
		t.Error("model did not leave the dashboard")
	}
	if got := h.model.scheduler.ActiveCount(); got != 0 {
		t.Errorf("%d timers still running", got)
	}

	// Results still in flight are dropped.
	h.send(dashboardResultMsg{sequence: 99, dashboard: &schema.Dashboard{}})
	if len(h.model.dashboard.Slots) == 0 {
		t.Error("result applied after the session ended")
	}
}

func TestModelStaleDashboardResultIsDropped(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()

	older := h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	newer := h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	h.drain(newer)
	h.backend.PutSlot(schema.Slot{SlotNumber: 9, Name: "Late arrival", Type: schema.KindValue})
	h.drain(older)

	for _, s := range h.model.dashboard.Slots {
		if s.SlotNumber == 9 {
			t.Fatal("older fetch overwrote a newer snapshot")
		}
	}
}

func TestModelRemovedCameraStopsTimer(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()

	h.backend.RemoveSlot(6)
	h.press("r")

	if keys := h.model.scheduler.ActiveKeys(scheduler.KindCamera); !slices.Equal(keys, []int{5}) {
		t.Errorf("camera timers = %v, want [5]", keys)
	}
	if _, ok := h.model.frames[6]; ok {
		t.Error("frame state kept for a removed camera")
	}

	// A late result for the removed camera is ignored.
	h.send(cameraResultMsg{slotNumber: 6, frame: FrameState{Status: FrameStream}})
	if _, ok := h.model.frames[6]; ok {
		t.Error("late camera result applied")
	}
}

func TestModelRefreshRestartsCameraTimers(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()
	cameraFetches := h.backend.Calls(mockbackend.EndpointCamera)

	h.press("r")

	if got := h.model.scheduler.ActiveCount(); got != 3 {
		t.Errorf("ActiveCount = %d, want dashboard plus two cameras", got)
	}
	if got := h.backend.Calls(mockbackend.EndpointCamera); got != cameraFetches+2 {
		t.Errorf("camera fetches = %d, want an immediate fetch per camera", got-cameraFetches)
	}
}

func TestModelQuitStopsTimers(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()

	command := h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if command == nil {
		t.Fatal("q should return a command")
	}
	if _, isQuit := command().(tea.QuitMsg); !isQuit {
		t.Error("q did not quit")
	}
	if got := h.model.scheduler.ActiveCount(); got != 0 {
		t.Errorf("%d timers still running after quit", got)
	}
	if h.model.Ended() {
		t.Error("quitting is not a session end")
	}
}

func TestModelCachedSnapshot(t *testing.T) {
	cache := snapcache.New(t.TempDir())
	h := newHarness(t, harnessOptions{
		email: mockbackend.DemoOperator,
		cache: cache,
		setup: func(backend *mockbackend.Backend) {
			backend.Fail(mockbackend.EndpointDashboard, "DB down")
		},
	})
	user, _ := h.guard.CurrentUser()
	cached := &schema.Dashboard{Slots: []schema.Slot{{SlotNumber: 2, Name: "Cached humidity", Type: schema.KindValue}}}
	if err := cache.Save(user.ID, cached, modelEpoch.Add(-time.Hour)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	h.start()
	if !h.model.cached {
		t.Fatal("cached snapshot not shown")
	}
	if view := h.model.View(); !strings.Contains(view, "Cached humidity") || !strings.Contains(view, "cached") {
		t.Error("view does not show the cached snapshot")
	}

	h.backend.Recover(mockbackend.EndpointDashboard)
	h.press("r")
	if h.model.cached || len(h.model.dashboard.Slots) != 8 {
		t.Error("live snapshot did not replace the cached one")
	}

	saved, err := cache.Load(user.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(saved.Dashboard.Slots) != 8 {
		t.Errorf("cache holds %d slots, want the live 8", len(saved.Dashboard.Slots))
	}
}

func TestModelFetchInFlightAtPurgeIsNotCached(t *testing.T) {
	cache := snapcache.New(t.TempDir())
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator, cache: cache})
	h.start()
	user, _ := h.guard.CurrentUser()
	if _, err := cache.Load(user.ID); err != nil {
		t.Fatalf("Load after start: %v", err)
	}

	fetch := h.model.resync()
	// The session ends while the fetch is outstanding; the guard's
	// clear hook purges the cache.
	if err := cache.Purge(); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	h.drain(fetch)

	if h.model.applied != h.model.issued {
		t.Fatalf("fetch result not applied: applied %d, issued %d", h.model.applied, h.model.issued)
	}
	if _, err := cache.Load(user.ID); err != snapcache.ErrNotFound {
		t.Errorf("Load after purge = %v, want ErrNotFound", err)
	}

	// A fetch issued after the purge saves normally.
	h.press("r")
	if _, err := cache.Load(user.ID); err != nil {
		t.Errorf("Load after a post-purge refresh: %v", err)
	}
}

func TestModelNoticesExpire(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()

	h.send(logging.RecordMsg{Summary: "camera slow", Level: slog.LevelWarn})
	if got := h.noticeText(); got != "camera slow" {
		t.Fatalf("notice = %q", got)
	}
	h.clock.Advance(noticeDuration)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 60})
	if h.model.notice != nil {
		t.Errorf("notice %q did not expire", h.noticeText())
	}
}

func TestModelBlankControlMessageShowsNothing(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()

	h.send(controlResultMsg{slotNumber: 3, desiredOn: true, message: "  "})
	if h.model.notice != nil {
		t.Errorf("blank success message produced notice %q", h.noticeText())
	}
}

func TestModelFilterKeys(t *testing.T) {
	h := newHarness(t, harnessOptions{email: mockbackend.DemoOperator})
	h.start()

	h.press("/gard")
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.model.filter.Active || h.model.filter.Input != "gard" {
		t.Fatalf("filter = %+v", h.model.filter)
	}
	if h.model.current.Hidden == 0 {
		t.Error("filter hid nothing")
	}
	if !strings.Contains(h.model.View(), "filter: gard") {
		t.Error("view does not show the applied filter")
	}
	if strings.Contains(h.model.View(), "Ceiling fan") {
		t.Error("filtered-out card still rendered")
	}

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	if h.model.filter.Input != "" || h.model.current.Hidden != 0 {
		t.Errorf("esc did not clear the filter: %+v", h.model.filter)
	}
}

func TestModelAdminHint(t *testing.T) {
	viewer := newHarness(t, harnessOptions{email: mockbackend.DemoUser})
	viewer.start()
	viewer.press("a")
	if got := viewer.noticeText(); got != English.AdminOnly {
		t.Errorf("viewer notice = %q", got)
	}

	admin := newHarness(t, harnessOptions{email: mockbackend.DemoAdmin})
	admin.start()
	admin.press("a")
	if got := admin.noticeText(); got != English.SlotsHelp {
		t.Errorf("admin notice = %q", got)
	}
}
