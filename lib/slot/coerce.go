// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package slot

import "github.com/bureau-foundation/slotdeck/lib/schema"

// IsOn is the one place a reading becomes a boolean. A datum is on
// when its value is numerically exactly 1, sent either as a JSON
// number or as a numeric string. A nil datum, null, non-numeric text,
// and every other number are off. IsOn never fails.
func IsOn(datum *schema.Datum) bool {
	if datum == nil {
		return false
	}
	number, ok := datum.Value.Number()
	return ok && number == 1
}

// Lookup returns a pointer to the slot's datum in the payload, or nil
// when the slot has never reported.
func Lookup(dashboard *schema.Dashboard, slotNumber int) *schema.Datum {
	datum, ok := dashboard.Datum(slotNumber)
	if !ok {
		return nil
	}
	return &datum
}

// Breach describes a reading outside its configured thresholds.
type Breach int

const (
	// WithinThresholds covers readings inside the range and readings
	// that cannot be compared (absent, non-numeric, no thresholds).
	WithinThresholds Breach = iota
	// BelowMinimum means the reading is under threshold_min.
	BelowMinimum
	// AboveMaximum means the reading is over threshold_max.
	AboveMaximum
)

// CheckThresholds compares a numeric reading against the slot's
// thresholds.
func CheckThresholds(s schema.Slot, datum *schema.Datum) Breach {
	if datum == nil {
		return WithinThresholds
	}
	number, ok := datum.Value.Number()
	if !ok {
		return WithinThresholds
	}
	if s.ThresholdMin != nil && number < *s.ThresholdMin {
		return BelowMinimum
	}
	if s.ThresholdMax != nil && number > *s.ThresholdMax {
		return AboveMaximum
	}
	return WithinThresholds
}
