// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package slot

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// NoReading is shown in place of a value that has never been reported.
const NoReading = "--"

// FormatReading returns the reading with its unit suffix, or NoReading
// when the datum is absent or null.
func FormatReading(s schema.Slot, datum *schema.Datum) string {
	if datum == nil || datum.Value.IsNull() {
		return NoReading
	}
	text := datum.Value.Text()
	if text == "" {
		return NoReading
	}
	if s.Unit != "" {
		return text + " " + s.Unit
	}
	return text
}

// AgeLabels holds the words used by RelativeAge, so the display
// language can change without touching the thresholds.
type AgeLabels struct {
	JustNow string
	Ago     string
	FromNow string
	Minute  string
	Minutes string
	Hour    string
	Hours   string
}

// EnglishAge is the default AgeLabels.
var EnglishAge = AgeLabels{
	JustNow: "just now",
	Ago:     "ago",
	FromNow: "from now",
	Minute:  "minute",
	Minutes: "minutes",
	Hour:    "hour",
	Hours:   "hours",
}

// VietnameseAge matches the wording of the web dashboard.
var VietnameseAge = AgeLabels{
	JustNow: "vừa xong",
	Ago:     "trước",
	FromNow: "nữa",
	Minute:  "phút",
	Minutes: "phút",
	Hour:    "giờ",
	Hours:   "giờ",
}

// RelativeAge describes how long ago ts was relative to now: under a
// minute reads "just now", under a day reads as minutes or hours ago,
// anything older is the absolute local time. A timestamp that could
// not be parsed is returned as the backend sent it; an empty one
// yields "".
func RelativeAge(ts schema.Timestamp, now time.Time, labels AgeLabels) string {
	if ts.Time.IsZero() {
		return ts.Raw
	}
	elapsed := now.Sub(ts.Time)
	switch {
	case elapsed < time.Minute && elapsed > -time.Minute:
		return labels.JustNow
	case elapsed < 24*time.Hour && elapsed > -24*time.Hour:
		return humanize.CustomRelTime(ts.Time, now, labels.Ago, labels.FromNow, labels.magnitudes())
	default:
		return ts.Time.Local().Format("2006-01-02 15:04")
	}
}

// magnitudes limits humanize to minute and hour granularity; the day
// boundary is handled by RelativeAge itself.
func (labels AgeLabels) magnitudes() []humanize.RelTimeMagnitude {
	return []humanize.RelTimeMagnitude{
		{D: time.Minute, Format: labels.JustNow, DivBy: time.Second},
		{D: 2 * time.Minute, Format: "1 " + labels.Minute + " %s", DivBy: 1},
		{D: time.Hour, Format: "%d " + labels.Minutes + " %s", DivBy: time.Minute},
		{D: 2 * time.Hour, Format: "1 " + labels.Hour + " %s", DivBy: 1},
		{D: humanize.Day, Format: "%d " + labels.Hours + " %s", DivBy: time.Hour},
	}
}
