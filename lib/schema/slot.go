// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Kind is the backend-declared type of a slot.
type Kind string

const (
	// KindValue is a numeric or text reading (temperature, humidity).
	KindValue Kind = "value"
	// KindStatus is a read-only boolean sensor (motion, door contact).
	KindStatus Kind = "status"
	// KindControl is a switchable actuator (relay, light, fan). The
	// only kind the control dispatcher ever targets.
	KindControl Kind = "control"
	// KindCamera is a camera whose frames are fetched separately.
	KindCamera Kind = "camera"
	// KindChart is a reading displayed as a trend summary.
	KindChart Kind = "chart"
)

// Kinds lists every known slot kind in display order.
var Kinds = []Kind{KindValue, KindStatus, KindControl, KindCamera, KindChart}

// Known reports whether k is one of the five slot kinds.
func (k Kind) Known() bool {
	switch k {
	case KindValue, KindStatus, KindControl, KindCamera, KindChart:
		return true
	}
	return false
}

// Slot describes one device endpoint. SlotNumber is unique across the
// slot set. Optional fields are pointers or empty strings when the
// backend omits them.
type Slot struct {
	SlotNumber   int      `json:"slot_number"`
	Name         string   `json:"name"`
	Type         Kind     `json:"type"`
	Icon         string   `json:"icon,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	Location     string   `json:"location,omitempty"`
	ThresholdMin *float64 `json:"threshold_min,omitempty"`
	ThresholdMax *float64 `json:"threshold_max,omitempty"`
	StreamURL    string   `json:"stream_url,omitempty"`
}

// Datum is the latest observed value for a slot.
type Datum struct {
	Value     Value     `json:"value"`
	CreatedAt Timestamp `json:"created_at"`
}

// Value is a reading exactly as the backend sent it: a JSON number, a
// JSON string, or null. Devices report through a loosely typed
// pipeline, so the same slot may deliver 1, "1", or "21.5" depending
// on firmware; Value keeps the raw encoding and interprets on demand.
type Value struct {
	raw json.RawMessage
}

// NumberValue returns a Value holding a JSON number.
func NumberValue(number float64) Value {
	return Value{raw: json.RawMessage(strconv.FormatFloat(number, 'f', -1, 64))}
}

// TextValue returns a Value holding a JSON string.
func TextValue(text string) Value {
	encoded, _ := json.Marshal(text)
	return Value{raw: encoded}
}

// UnmarshalJSON keeps the raw encoding.
func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// MarshalJSON returns the raw encoding, or null for the zero Value.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// IsNull reports whether the value is absent or JSON null.
func (v Value) IsNull() bool {
	trimmed := bytes.TrimSpace(v.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Number interprets the value as a float. JSON numbers and strings
// holding a decimal number both succeed; everything else reports
// false.
func (v Value) Number() (float64, bool) {
	if v.IsNull() {
		return 0, false
	}
	var number float64
	if err := json.Unmarshal(v.raw, &number); err == nil {
		return number, true
	}
	var text string
	if err := json.Unmarshal(v.raw, &text); err != nil {
		return 0, false
	}
	number, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return number, true
}

// Text renders the value for display: numbers in shortest form,
// strings verbatim, null as the empty string. Other JSON (objects,
// booleans) is shown as encoded.
func (v Value) Text() string {
	if v.IsNull() {
		return ""
	}
	var number float64
	if err := json.Unmarshal(v.raw, &number); err == nil {
		return strconv.FormatFloat(number, 'f', -1, 64)
	}
	var text string
	if err := json.Unmarshal(v.raw, &text); err == nil {
		return text
	}
	return string(bytes.TrimSpace(v.raw))
}

// Timestamp is a backend time value. The backend emits ISO 8601 with
// or without a zone offset and sometimes with a space separator;
// Timestamp accepts all of these. Zone-less values are read in local
// time. An unparseable value keeps Raw and leaves Time zero.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// timestampLayouts are tried in order when decoding.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses a backend time string.
func ParseTimestamp(raw string) Timestamp {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return Timestamp{Time: parsed, Raw: raw}
		}
	}
	return Timestamp{Raw: raw}
}

// At returns a Timestamp for a known time.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t, Raw: t.Format(time.RFC3339Nano)}
}

// IsZero reports whether the timestamp carries neither a time nor raw
// text.
func (ts Timestamp) IsZero() bool {
	return ts.Time.IsZero() && ts.Raw == ""
}

// UnmarshalJSON accepts a string or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// Numeric epochs and other shapes are kept as text.
		*ts = Timestamp{Raw: string(data)}
		return nil
	}
	*ts = ParseTimestamp(raw)
	return nil
}

// MarshalJSON writes the raw text, or null when empty.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	raw := ts.Raw
	if raw == "" {
		raw = ts.Time.Format(time.RFC3339Nano)
	}
	return json.Marshal(raw)
}
