// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

var renderNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func float(value float64) *float64 { return &value }

// testDashboard has one slot of every kind plus three alerts.
func testDashboard() *schema.Dashboard {
	return &schema.Dashboard{
		Stats: schema.Stats{TotalSlots: 6, TotalCameras: 1, TotalControls: 2, UnreadAlerts: 2},
		Slots: []schema.Slot{
			{SlotNumber: 1, Name: "Temperature", Type: schema.KindValue, Unit: "°C", ThresholdMin: float(16), ThresholdMax: float(30)},
			{SlotNumber: 3, Name: "Ceiling fan", Type: schema.KindControl, Location: "Bedroom"},
			{SlotNumber: 4, Name: "Front door", Type: schema.KindStatus},
			{SlotNumber: 5, Name: "Porch camera", Type: schema.KindCamera},
			{SlotNumber: 7, Name: "Garden lights", Type: schema.KindControl, Location: "Garden"},
			{SlotNumber: 8, Name: "Power usage", Type: schema.KindChart, Unit: "W"},
		},
		Data: map[int]schema.Datum{
			1: {Value: schema.NumberValue(34), CreatedAt: schema.At(renderNow.Add(-5 * time.Minute))},
			3: {Value: schema.NumberValue(0), CreatedAt: schema.At(renderNow)},
			4: {Value: schema.TextValue("1"), CreatedAt: schema.At(renderNow)},
			7: {Value: schema.NumberValue(1), CreatedAt: schema.At(renderNow)},
		},
		Alerts: []schema.Alert{
			{ID: 1, Message: "oldest", CreatedAt: schema.At(renderNow.Add(-3 * time.Hour)), IsRead: true},
			{ID: 2, Message: "newest", CreatedAt: schema.At(renderNow.Add(-time.Minute))},
			{ID: 3, Message: "middle", CreatedAt: schema.At(renderNow.Add(-time.Hour))},
		},
		MQTT: &schema.MQTTStatus{Connected: true},
	}
}

func screenFor(dashboard *schema.Dashboard, canControl bool) Screen {
	return BuildScreen(ScreenInput{
		Dashboard:  dashboard,
		CanControl: canControl,
		Now:        renderNow,
		AlertLimit: 5,
		Labels:     English,
	})
}

func findCard(t *testing.T, screen Screen, slotNumber int) Card {
	t.Helper()
	for _, section := range screen.Sections {
		for _, card := range section.Cards {
			if card.SlotNumber == slotNumber {
				return card
			}
		}
	}
	t.Fatalf("no card for slot %d", slotNumber)
	return Card{}
}

func toggleActions(screen Screen) []Action {
	var toggles []Action
	for _, action := range screen.Actions {
		if action.Kind == ActionToggle {
			toggles = append(toggles, action)
		}
	}
	return toggles
}

func TestControlCardForOperator(t *testing.T) {
	screen := screenFor(testDashboard(), true)

	fan := findCard(t, screen, 3)
	if fan.Toggle == nil {
		t.Fatal("operator should get a toggle on slot 3")
	}
	if fan.Toggle.On || fan.Toggle.Pending {
		t.Errorf("slot 3 toggle = %+v, want unchecked and settled", *fan.Toggle)
	}
	if fan.Action == NoAction {
		t.Fatal("slot 3 toggle has no registered action")
	}
	action := screen.Actions[fan.Action]
	if action.Kind != ActionToggle || action.SlotNumber != 3 || !action.DesiredOn {
		t.Errorf("slot 3 action = %+v, want toggle on", action)
	}

	lights := findCard(t, screen, 7)
	if lights.Toggle == nil || !lights.Toggle.On {
		t.Errorf("slot 7 toggle = %+v, want checked", lights.Toggle)
	}
	if screen.Actions[lights.Action].DesiredOn {
		t.Error("slot 7 action should turn the lights off")
	}
}

func TestControlCardForViewer(t *testing.T) {
	screen := screenFor(testDashboard(), false)

	for _, slotNumber := range []int{3, 7} {
		card := findCard(t, screen, slotNumber)
		if card.Toggle != nil {
			t.Errorf("slot %d: viewer got a toggle", slotNumber)
		}
		if card.Action != NoAction {
			t.Errorf("slot %d: viewer got action %d", slotNumber, card.Action)
		}
	}
	if toggles := toggleActions(screen); len(toggles) != 0 {
		t.Errorf("viewer action table has toggles: %+v", toggles)
	}
	if got := findCard(t, screen, 7).Reading; got != "ON" {
		t.Errorf("slot 7 read-only text = %q, want ON", got)
	}
	if got := findCard(t, screen, 3).Reading; got != "OFF" {
		t.Errorf("slot 3 read-only text = %q, want OFF", got)
	}
}

func TestAbsentDatumRendersPlaceholders(t *testing.T) {
	dashboard := testDashboard()
	dashboard.Data = nil

	screen := screenFor(dashboard, true)
	temperature := findCard(t, screen, 1)
	if temperature.Reading != "--" || temperature.Age != "no data" {
		t.Errorf("value card = %q / %q, want placeholders", temperature.Reading, temperature.Age)
	}
	if temperature.Breach != "" {
		t.Errorf("absent datum breach = %q, want none", temperature.Breach)
	}
	door := findCard(t, screen, 4)
	if door.On || door.Reading != "OFF" {
		t.Errorf("status card without datum = %+v, want OFF", door)
	}
	fan := findCard(t, screen, 3)
	if fan.Toggle == nil || fan.Toggle.On {
		t.Errorf("control without datum = %+v, want unchecked toggle", fan.Toggle)
	}
	chart := findCard(t, screen, 8)
	if chart.Reading != "--" {
		t.Errorf("chart card = %q, want --", chart.Reading)
	}
}

func TestValueCardFormatting(t *testing.T) {
	screen := screenFor(testDashboard(), false)
	temperature := findCard(t, screen, 1)
	if temperature.Reading != "34 °C" {
		t.Errorf("Reading = %q", temperature.Reading)
	}
	if temperature.Age != "5 minutes ago" {
		t.Errorf("Age = %q", temperature.Age)
	}
	if temperature.Breach != English.AboveMaximum {
		t.Errorf("Breach = %q, want above max", temperature.Breach)
	}
	if door := findCard(t, screen, 4); !door.On || door.Reading != "ON" {
		t.Errorf("status \"1\" = %+v, want ON", door)
	}
}

func TestSectionsFollowKindOrderAndHideEmpty(t *testing.T) {
	dashboard := testDashboard()
	var kept []schema.Slot
	for _, s := range dashboard.Slots {
		if s.Type != schema.KindStatus {
			kept = append(kept, s)
		}
	}
	dashboard.Slots = kept

	screen := screenFor(dashboard, true)
	var kinds []schema.Kind
	for _, section := range screen.Sections {
		kinds = append(kinds, section.Kind)
	}
	want := []schema.Kind{schema.KindValue, schema.KindControl, schema.KindCamera, schema.KindChart}
	if len(kinds) != len(want) {
		t.Fatalf("sections = %v, want %v", kinds, want)
	}
	for index := range want {
		if kinds[index] != want[index] {
			t.Errorf("section %d = %s, want %s", index, kinds[index], want[index])
		}
	}
	if screen.Empty != "" {
		t.Errorf("non-empty slot set rendered empty notice %q", screen.Empty)
	}
}

func TestEmptySlotSet(t *testing.T) {
	dashboard := &schema.Dashboard{}

	admin := BuildScreen(ScreenInput{Dashboard: dashboard, IsAdmin: true, Now: renderNow, Labels: English})
	if admin.Empty == "" || admin.EmptyHint == "" {
		t.Errorf("admin empty state = %q / %q, want notice and hint", admin.Empty, admin.EmptyHint)
	}
	if len(admin.Sections) != 0 {
		t.Errorf("empty slot set rendered %d sections", len(admin.Sections))
	}

	viewer := BuildScreen(ScreenInput{Dashboard: dashboard, Now: renderNow, Labels: English})
	if viewer.Empty == "" {
		t.Error("viewer should see the empty notice")
	}
	if viewer.EmptyHint != "" {
		t.Errorf("viewer got admin hint %q", viewer.EmptyHint)
	}
	if viewer.NoAlerts != "No new alerts" || len(viewer.Alerts) != 0 {
		t.Errorf("alerts = %+v / %q", viewer.Alerts, viewer.NoAlerts)
	}
}

func TestStatsLineShowsAllCounters(t *testing.T) {
	screen := screenFor(testDashboard(), false)
	if screen.Stats != "Slots 6 · Cameras 1 · Controls 2 · Unread alerts 2" {
		t.Errorf("Stats = %q", screen.Stats)
	}

	vietnamese := BuildScreen(ScreenInput{Dashboard: testDashboard(), Now: renderNow, AlertLimit: 5, Labels: Vietnamese})
	if vietnamese.Stats != "Tổng slot 6 · Camera 1 · Điều khiển 2 · Cảnh báo 2" {
		t.Errorf("Vietnamese Stats = %q", vietnamese.Stats)
	}

	if loading := BuildScreen(ScreenInput{Now: renderNow, Labels: English}); loading.Stats != "" {
		t.Errorf("loading screen Stats = %q, want empty", loading.Stats)
	}
}

func TestLoadingBeforeFirstSnapshot(t *testing.T) {
	screen := BuildScreen(ScreenInput{Now: renderNow, Labels: English})
	if !screen.Loading || len(screen.Actions) != 0 {
		t.Errorf("screen = %+v, want loading with no actions", screen)
	}
}

func TestAlertsNewestFirst(t *testing.T) {
	screen := BuildScreen(ScreenInput{
		Dashboard:  testDashboard(),
		Now:        renderNow,
		AlertLimit: 2,
		Labels:     English,
	})
	if len(screen.Alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(screen.Alerts))
	}
	if screen.Alerts[0].Message != "newest" || screen.Alerts[1].Message != "middle" {
		t.Errorf("alerts = %q, %q", screen.Alerts[0].Message, screen.Alerts[1].Message)
	}
	if screen.Unread != 2 {
		t.Errorf("Unread = %d, want the stats count 2", screen.Unread)
	}
	for _, row := range screen.Alerts {
		action := screen.Actions[row.Action]
		if action.Kind != ActionMarkRead || action.AlertID != row.ID {
			t.Errorf("alert %d action = %+v", row.ID, action)
		}
	}
}

func TestRecentAlertsTieBreak(t *testing.T) {
	at := schema.At(renderNow)
	alerts := []schema.Alert{{ID: 4, CreatedAt: at}, {ID: 9, CreatedAt: at}, {ID: 6, CreatedAt: at}}
	got := RecentAlerts(alerts, 0)
	if got[0].ID != 9 || got[1].ID != 6 || got[2].ID != 4 {
		t.Errorf("order = %d %d %d, want 9 6 4", got[0].ID, got[1].ID, got[2].ID)
	}
	if alerts[0].ID != 4 {
		t.Error("RecentAlerts modified its input")
	}
}

func TestOptimisticOverride(t *testing.T) {
	screen := BuildScreen(ScreenInput{
		Dashboard:  testDashboard(),
		Optimistic: map[int]bool{3: true},
		CanControl: true,
		Now:        renderNow,
		Labels:     English,
	})
	fan := findCard(t, screen, 3)
	if fan.Toggle == nil || !fan.Toggle.On || !fan.Toggle.Pending {
		t.Fatalf("slot 3 toggle = %+v, want pending on", fan.Toggle)
	}
	if screen.Actions[fan.Action].DesiredOn {
		t.Error("pending-on toggle should offer turning off")
	}
}

func TestCameraCardStates(t *testing.T) {
	camera := schema.Slot{SlotNumber: 5, Name: "Porch", Type: schema.KindCamera}
	tests := []struct {
		name  string
		frame FrameState
		want  string
	}{
		{"loading", FrameState{Status: FrameLoading}, "loading…"},
		{"empty", FrameState{Status: FrameEmpty}, "no image yet"},
		{"failed", FrameState{Status: FrameFailed}, "failed to load image"},
		{"stream", FrameState{Status: FrameStream, StreamURL: "http://cam/stream"}, "● Local Stream http://cam/stream"},
		{"cloud", FrameState{Status: FrameCloud, Size: 2048, CreatedAt: schema.At(renderNow)}, "● Cloud · 2.0 kB"},
	}
	for _, test := range tests {
		card := RenderCamera(camera, test.frame, renderNow, English)
		if card.Reading != test.want {
			t.Errorf("%s: Reading = %q, want %q", test.name, card.Reading, test.want)
		}
	}

	screen := screenFor(testDashboard(), true)
	if got := findCard(t, screen, 5).Reading; got != "loading…" {
		t.Errorf("camera without frame = %q, want loading placeholder", got)
	}
}

func TestFilterHidesCards(t *testing.T) {
	filter := &FilterModel{Input: "garden"}
	screen := BuildScreen(ScreenInput{
		Dashboard:  testDashboard(),
		CanControl: true,
		Now:        renderNow,
		Filter:     filter,
		Labels:     English,
	})
	if len(screen.Sections) != 1 || len(screen.Sections[0].Cards) != 1 {
		t.Fatalf("sections = %+v, want only the garden lights", screen.Sections)
	}
	if screen.Sections[0].Cards[0].SlotNumber != 7 {
		t.Errorf("matched slot %d, want 7", screen.Sections[0].Cards[0].SlotNumber)
	}
	if screen.Hidden != 5 {
		t.Errorf("Hidden = %d, want 5", screen.Hidden)
	}
	if toggles := toggleActions(screen); len(toggles) != 1 {
		t.Errorf("toggles = %+v, want one", toggles)
	}
}

func TestDuplicateSlotNumbersRenderOnce(t *testing.T) {
	dashboard := testDashboard()
	dashboard.Slots = append(dashboard.Slots, schema.Slot{SlotNumber: 3, Name: "Impostor", Type: schema.KindControl})
	screen := screenFor(dashboard, true)
	if toggles := toggleActions(screen); len(toggles) != 2 {
		t.Errorf("got %d toggles, want 2", len(toggles))
	}
	if findCard(t, screen, 3).Title != "Ceiling fan" {
		t.Error("first occurrence of slot 3 should win")
	}
}

func TestVietnameseLabels(t *testing.T) {
	screen := BuildScreen(ScreenInput{Dashboard: testDashboard(), Now: renderNow, Labels: Vietnamese})
	if got := findCard(t, screen, 7).Reading; got != "BẬT" {
		t.Errorf("slot 7 = %q, want BẬT", got)
	}
	if !strings.Contains(findCard(t, screen, 1).Age, "phút") {
		t.Errorf("age = %q, want Vietnamese wording", findCard(t, screen, 1).Age)
	}
}
