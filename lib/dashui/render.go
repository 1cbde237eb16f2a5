// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/slotdeck/lib/schema"
	"github.com/bureau-foundation/slotdeck/lib/slot"
)

// ActionKind identifies what an Action does.
type ActionKind int

const (
	// ActionToggle sends a control command.
	ActionToggle ActionKind = iota + 1
	// ActionMarkRead marks an alert read.
	ActionMarkRead
)

// Action is one thing the user can trigger from the screen. Actions
// exist only for elements that are interactive for the current user:
// a control card rendered read-only has none.
type Action struct {
	Kind       ActionKind
	SlotNumber int
	DesiredOn  bool
	AlertID    int64
}

// NoAction marks a card or row without an entry in Screen.Actions.
const NoAction = -1

// Toggle is the interactive switch on a control card.
type Toggle struct {
	On bool
	// Pending is set while the displayed state is an optimistic
	// override awaiting the next authoritative fetch.
	Pending bool
}

// Card is one rendered slot.
type Card struct {
	SlotNumber int
	Kind       schema.Kind
	Icon       string
	Title      string
	Location   string

	// Reading is the primary line: the formatted value, ON/OFF, or
	// the camera status.
	Reading string
	// On is the coerced state for status and control cards.
	On bool
	// Age is the relative age of the datum or frame.
	Age string
	// Breach is the threshold marker, empty when within range.
	Breach string

	// Toggle is nil unless the user may control this slot.
	Toggle *Toggle

	// Preview holds camera preview rows.
	Preview []string

	// Action indexes Screen.Actions, or NoAction.
	Action int
}

// Section groups the cards of one kind. Sections with no cards are
// never produced.
type Section struct {
	Kind  schema.Kind
	Title string
	Cards []Card
}

// AlertRow is one rendered alert.
type AlertRow struct {
	ID      int64
	Message string
	Age     string
	Read    bool
	Action  int
}

// Screen is the complete render of one dashboard snapshot.
type Screen struct {
	// Loading is set before the first snapshot arrives.
	Loading bool

	Sections []Section

	// Empty is the empty-state notice, set only when the slot set is
	// empty. EmptyHint is the admin-only follow-up.
	Empty     string
	EmptyHint string

	// Hidden counts slots excluded by the filter.
	Hidden int

	// Stats is the backend's counter line, empty while loading.
	Stats string

	Alerts   []AlertRow
	NoAlerts string
	Unread   int

	// MQTT is the broker line, empty when the payload has no status.
	MQTT          string
	MQTTConnected bool

	Actions []Action
}

// ScreenInput is everything BuildScreen reads.
type ScreenInput struct {
	Dashboard *schema.Dashboard

	// Frames holds the latest camera state per slot number. A camera
	// without an entry renders as loading.
	Frames map[int]FrameState

	// Optimistic holds the desired state of controls whose command is
	// in flight or not yet confirmed by a fetch.
	Optimistic map[int]bool

	CanControl bool
	IsAdmin    bool

	Now        time.Time
	AlertLimit int

	// Filter may be nil.
	Filter *FilterModel

	Labels Labels
}

// BuildScreen renders a snapshot. It never fails: absent data renders
// as placeholders.
func BuildScreen(input ScreenInput) Screen {
	labels := input.Labels
	screen := Screen{NoAlerts: labels.NoAlerts}
	if input.Dashboard == nil {
		screen.Loading = true
		return screen
	}
	dashboard := input.Dashboard

	slots, _ := slot.Dedupe(dashboard.Slots)
	if len(slots) == 0 {
		screen.Empty = labels.EmptySlots
		if input.IsAdmin {
			screen.EmptyHint = labels.AddSlotsHint
		}
	}

	partition := slot.Classify(slots)
	for _, kind := range schema.Kinds {
		var cards []Card
		for _, s := range partition.Bucket(kind) {
			if input.Filter != nil && !input.Filter.Matches(s) {
				screen.Hidden++
				continue
			}
			card := renderCard(s, input)
			if card.Toggle != nil {
				screen.Actions = append(screen.Actions, Action{
					Kind:       ActionToggle,
					SlotNumber: s.SlotNumber,
					DesiredOn:  !card.Toggle.On,
				})
				card.Action = len(screen.Actions) - 1
			}
			cards = append(cards, card)
		}
		if len(cards) == 0 {
			continue
		}
		screen.Sections = append(screen.Sections, Section{
			Kind:  kind,
			Title: labels.Sections[kind],
			Cards: cards,
		})
	}

	for _, alert := range RecentAlerts(dashboard.Alerts, input.AlertLimit) {
		screen.Actions = append(screen.Actions, Action{Kind: ActionMarkRead, AlertID: alert.ID})
		screen.Alerts = append(screen.Alerts, AlertRow{
			ID:      alert.ID,
			Message: alert.Message,
			Age:     slot.RelativeAge(alert.CreatedAt, input.Now, labels.Age),
			Read:    alert.IsRead,
			Action:  len(screen.Actions) - 1,
		})
	}
	screen.Unread = dashboard.Stats.UnreadAlerts
	screen.Stats = labels.statsLine(dashboard.Stats)

	if dashboard.MQTT != nil {
		screen.MQTTConnected = dashboard.MQTT.Connected
		screen.MQTT = labels.MQTTDisconnected
		if dashboard.MQTT.Connected {
			screen.MQTT = labels.MQTTConnected
		}
	}
	return screen
}

func renderCard(s schema.Slot, input ScreenInput) Card {
	datum := slot.Lookup(input.Dashboard, s.SlotNumber)
	switch s.Type {
	case schema.KindValue:
		return RenderValue(s, datum, input.Now, input.Labels)
	case schema.KindStatus:
		return RenderStatus(s, datum, input.Now, input.Labels)
	case schema.KindControl:
		card := RenderControl(s, datum, input.CanControl, input.Now, input.Labels)
		if desired, ok := input.Optimistic[s.SlotNumber]; ok {
			card.On = desired
			card.Reading = input.Labels.State(desired)
			if card.Toggle != nil {
				card.Toggle = &Toggle{On: desired, Pending: true}
			}
		}
		return card
	case schema.KindCamera:
		frame, ok := input.Frames[s.SlotNumber]
		if !ok {
			frame = FrameState{Status: FrameLoading}
		}
		return RenderCamera(s, frame, input.Now, input.Labels)
	default:
		return RenderChart(s, datum, input.Now, input.Labels)
	}
}

func baseCard(s schema.Slot) Card {
	return Card{
		SlotNumber: s.SlotNumber,
		Kind:       s.Type,
		Icon:       iconFor(s),
		Title:      s.Name,
		Location:   s.Location,
		Action:     NoAction,
	}
}

func datumAge(datum *schema.Datum, now time.Time, labels Labels) string {
	if datum == nil {
		return labels.NoData
	}
	return slot.RelativeAge(datum.CreatedAt, now, labels.Age)
}

// RenderValue renders a reading with its unit, its age, and a
// threshold marker when the reading is out of range.
func RenderValue(s schema.Slot, datum *schema.Datum, now time.Time, labels Labels) Card {
	card := baseCard(s)
	card.Reading = slot.FormatReading(s, datum)
	card.Age = datumAge(datum, now, labels)
	card.Breach = labels.BreachMarker(slot.CheckThresholds(s, datum))
	return card
}

// RenderStatus renders a read-only sensor as ON or OFF.
func RenderStatus(s schema.Slot, datum *schema.Datum, now time.Time, labels Labels) Card {
	card := baseCard(s)
	card.On = slot.IsOn(datum)
	card.Reading = labels.State(card.On)
	card.Age = datumAge(datum, now, labels)
	return card
}

// RenderControl renders an actuator. With canControl the card carries
// a Toggle reflecting the current state; without it the card is
// read-only ON/OFF text.
func RenderControl(s schema.Slot, datum *schema.Datum, canControl bool, now time.Time, labels Labels) Card {
	card := RenderStatus(s, datum, now, labels)
	if canControl {
		card.Toggle = &Toggle{On: card.On}
	}
	return card
}

// RenderCamera renders a camera card from its latest frame state.
func RenderCamera(s schema.Slot, frame FrameState, now time.Time, labels Labels) Card {
	card := baseCard(s)
	switch frame.Status {
	case FrameLoading:
		card.Reading = labels.Loading
	case FrameCloud:
		card.Reading = labels.Cloud
		if frame.Size > 0 {
			card.Reading += " · " + humanize.Bytes(uint64(frame.Size))
		}
		card.Age = slot.RelativeAge(frame.CreatedAt, now, labels.Age)
		card.Preview = frame.Preview
	case FrameStream:
		card.Reading = labels.LocalStream + " " + frame.StreamURL
	case FrameEmpty:
		card.Reading = labels.NoImage
	case FrameFailed:
		card.Reading = labels.FailedImage
	}
	return card
}

// RenderChart renders the latest point of a chart slot. The consumed
// surface carries no history, so the card is a summary.
func RenderChart(s schema.Slot, datum *schema.Datum, now time.Time, labels Labels) Card {
	return RenderValue(s, datum, now, labels)
}

// RecentAlerts returns at most limit alerts, newest first. Ties on
// created_at are broken by descending id. A non-positive limit keeps
// every alert. The input is not modified.
func RecentAlerts(alerts []schema.Alert, limit int) []schema.Alert {
	sorted := slices.Clone(alerts)
	slices.SortStableFunc(sorted, func(a, b schema.Alert) int {
		if c := b.CreatedAt.Time.Compare(a.CreatedAt.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// statsLine formats the four backend counters.
func (labels Labels) statsLine(stats schema.Stats) string {
	return fmt.Sprintf(labels.Stats, stats.TotalSlots, stats.TotalCameras, stats.TotalControls, stats.UnreadAlerts)
}

// unreadLabel formats the unread counter.
func (labels Labels) unreadLabel(count int) string {
	return fmt.Sprintf(labels.Unread, count)
}
