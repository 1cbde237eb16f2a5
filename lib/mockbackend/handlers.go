// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockbackend

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// dashboardAlertCount is how many alerts the dashboard payload
// carries. The client truncates further.
const dashboardAlertCount = 10

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	account, ok := b.accounts[request.Email]
	if !ok || account.password != request.Password {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		Token   string      `json:"token"`
		User    schema.User `json:"user"`
	}{true, b.issueLocked(account.user.ID), account.user})
}

type dashboardResponse struct {
	Success bool `json:"success"`
	schema.Dashboard
}

func (b *Backend) handleDashboard(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	dashboard := schema.Dashboard{
		Slots:  slices.Clone(b.slots),
		Data:   make(map[int]schema.Datum, len(b.data)),
		Alerts: b.recentAlertsLocked(dashboardAlertCount),
		MQTT:   &schema.MQTTStatus{Connected: b.mqttConnected},
	}
	for slotNumber, datum := range b.data {
		dashboard.Data[slotNumber] = datum
	}
	for _, s := range b.slots {
		dashboard.Stats.TotalSlots++
		switch s.Type {
		case schema.KindCamera:
			dashboard.Stats.TotalCameras++
		case schema.KindControl:
			dashboard.Stats.TotalControls++
		}
	}
	for _, alert := range b.alerts {
		if !alert.IsRead {
			dashboard.Stats.UnreadAlerts++
		}
	}
	writeJSON(w, http.StatusOK, dashboardResponse{Success: true, Dashboard: dashboard})
}

// recentAlertsLocked returns up to limit alerts, newest first. Alerts
// are appended in creation order, so reversing the tail suffices.
func (b *Backend) recentAlertsLocked(limit int) []schema.Alert {
	alerts := slices.Clone(b.alerts)
	slices.Reverse(alerts)
	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts
}

func (b *Backend) slotLocked(slotNumber int) (schema.Slot, bool) {
	for _, s := range b.slots {
		if s.SlotNumber == slotNumber {
			return s, true
		}
	}
	return schema.Slot{}, false
}

func (b *Backend) handleCamera(w http.ResponseWriter, r *http.Request) {
	slotNumber, _ := pathInt(r, "slot")
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.slotLocked(int(slotNumber))
	if !ok || s.Type != schema.KindCamera {
		writeError(w, http.StatusNotFound, "camera not found")
		return
	}
	frame, ok := b.frames[s.SlotNumber]
	if !ok {
		if s.StreamURL != "" {
			writeSuccess(w, "", schema.CameraFrame{StreamURL: s.StreamURL})
			return
		}
		writeSuccess(w, "", nil)
		return
	}
	writeSuccess(w, "", frame)
}

func (b *Backend) handleControl(w http.ResponseWriter, r *http.Request) {
	if !requestUser(r).Role.AtLeast(schema.RoleOperator) {
		writeError(w, http.StatusForbidden, "permission denied")
		return
	}
	slotNumber, _ := pathInt(r, "slot")
	var request struct {
		Command *int `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Command == nil {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}
	if *request.Command != 0 && *request.Command != 1 {
		writeError(w, http.StatusBadRequest, "command must be 0 or 1")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.slotLocked(int(slotNumber))
	if !ok || s.Type != schema.KindControl {
		writeError(w, http.StatusNotFound, fmt.Sprintf("slot %d is not a control", slotNumber))
		return
	}
	b.data[s.SlotNumber] = schema.Datum{
		Value:     schema.NumberValue(float64(*request.Command)),
		CreatedAt: schema.At(b.clock.Now()),
	}
	state := "OFF"
	if *request.Command == 1 {
		state = "ON"
	}
	writeSuccess(w, fmt.Sprintf("%s turned %s", s.Name, state), nil)
}

func (b *Backend) handleAlertRead(w http.ResponseWriter, r *http.Request) {
	id, _ := pathInt(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for index := range b.alerts {
		if b.alerts[index].ID == id {
			b.alerts[index].IsRead = true
			writeSuccess(w, "", nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "alert not found")
}

func (b *Backend) handleListSlots(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	slots := slices.Clone(b.slots)
	slices.SortFunc(slots, func(x, y schema.Slot) int { return cmp.Compare(x.SlotNumber, y.SlotNumber) })
	writeSuccess(w, "", slots)
}

func (b *Backend) handleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	available := []int{}
	for slotNumber := 1; slotNumber <= MaxSlotNumber; slotNumber++ {
		if _, taken := b.slotLocked(slotNumber); !taken {
			available = append(available, slotNumber)
		}
	}
	writeSuccess(w, "", available)
}

func (b *Backend) handleGetSlot(w http.ResponseWriter, r *http.Request) {
	slotNumber, _ := pathInt(r, "slot")
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.slotLocked(int(slotNumber))
	if !ok {
		writeError(w, http.StatusNotFound, "slot not found")
		return
	}
	writeSuccess(w, "", s)
}

func decodeSlot(r *http.Request) (schema.Slot, string) {
	var s schema.Slot
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		return s, "invalid request body"
	}
	if s.Name == "" || !s.Type.Known() {
		return s, "name and a valid type are required"
	}
	if s.SlotNumber < 1 || s.SlotNumber > MaxSlotNumber {
		return s, fmt.Sprintf("slot_number must be between 1 and %d", MaxSlotNumber)
	}
	return s, ""
}

func (b *Backend) handleCreateSlot(w http.ResponseWriter, r *http.Request) {
	s, problem := decodeSlot(r)
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.slotLocked(s.SlotNumber); taken {
		writeError(w, http.StatusConflict, fmt.Sprintf("slot %d already exists", s.SlotNumber))
		return
	}
	b.putSlotLocked(s)
	writeSuccess(w, "slot created", s)
}

func (b *Backend) handleUpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotNumber, _ := pathInt(r, "slot")
	s, problem := decodeSlot(r)
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}
	if int64(s.SlotNumber) != slotNumber {
		writeError(w, http.StatusBadRequest, "slot_number cannot change")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.slotLocked(s.SlotNumber); !ok {
		writeError(w, http.StatusNotFound, "slot not found")
		return
	}
	b.putSlotLocked(s)
	writeSuccess(w, "slot updated", s)
}

func (b *Backend) handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	slotNumber, _ := pathInt(r, "slot")
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.removeSlotLocked(int(slotNumber)) {
		writeError(w, http.StatusNotFound, "slot not found")
		return
	}
	writeSuccess(w, "slot deleted", nil)
}
