// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// Dashboard is the payload of GET /api/dashboard/full: everything the
// dashboard view shows, fetched in one request and applied as a whole.
type Dashboard struct {
	Stats  Stats         `json:"stats"`
	Slots  []Slot        `json:"slots"`
	Data   map[int]Datum `json:"data"`
	Alerts []Alert       `json:"alerts"`
	MQTT   *MQTTStatus   `json:"mqtt,omitempty"`
}

// Datum returns the latest reading for a slot. The second result is
// false when the slot has never reported.
func (d *Dashboard) Datum(slotNumber int) (Datum, bool) {
	if d == nil || d.Data == nil {
		return Datum{}, false
	}
	datum, ok := d.Data[slotNumber]
	return datum, ok
}

// Stats are the backend's aggregate counters. UnreadAlerts counts the
// full alert set, not just the alerts included in the payload.
type Stats struct {
	TotalSlots    int `json:"total_slots"`
	TotalCameras  int `json:"total_cameras"`
	TotalControls int `json:"total_controls"`
	UnreadAlerts  int `json:"unread_alerts"`
}

// MQTTStatus reports whether the backend's upstream device link is
// up. Display only.
type MQTTStatus struct {
	Connected bool `json:"connected"`
}

// Alert is a backend notification about a slot or the system.
type Alert struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt Timestamp `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

// CameraFrame is the latest picture for a camera slot. Exactly one of
// ImageData (a snapshot relayed through the backend, as a data URL,
// bare base64, or http URL) and StreamURL (a direct stream on the
// camera's network) is set; a frame with neither means the camera has
// not produced an image yet.
type CameraFrame struct {
	ImageData string    `json:"image_data,omitempty"`
	StreamURL string    `json:"stream_url,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}
