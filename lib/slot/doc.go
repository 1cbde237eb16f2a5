// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package slot holds the display rules shared by every slotdeck view:
// the taxonomy that partitions a slot set by kind ([Classify]), the
// single boolean coercion applied to status and control readings
// ([IsOn]), threshold checks, and the text formatting of readings and
// their age.
//
// All functions are total. Absent readings, malformed values, and
// unknown kinds produce defined results rather than errors, because a
// dashboard must keep rendering whatever the backend sends.
package slot
