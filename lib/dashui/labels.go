// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"github.com/bureau-foundation/slotdeck/lib/config"
	"github.com/bureau-foundation/slotdeck/lib/schema"
	"github.com/bureau-foundation/slotdeck/lib/slot"
)

// Labels is the fixed text shown by the dashboard in one language.
// Backend-provided text (slot names, alert messages, error strings)
// is always shown verbatim.
type Labels struct {
	Sections map[schema.Kind]string
	Roles    map[schema.Role]string

	Alerts       string
	NoAlerts     string
	NoData       string
	On           string
	Off          string
	BelowMinimum string
	AboveMaximum string

	Loading     string
	NoImage     string
	FailedImage string
	Cloud       string
	LocalStream string

	EmptySlots   string
	AddSlotsHint string
	SlotsHelp    string
	AdminOnly    string

	CannotReach   string
	LoadFailed    string
	ControlFailed string
	Cached        string

	MQTTConnected    string
	MQTTDisconnected string

	// Stats is a format with four %d verbs: slots, cameras, controls,
	// unread alerts.
	Stats string

	// Unread is a format with one %d verb.
	Unread string
	// Hidden is a format with one %d verb, for slots the filter hides.
	Hidden string

	SessionEnded string

	Age slot.AgeLabels
}

// English is the default label set.
var English = Labels{
	Sections: map[schema.Kind]string{
		schema.KindValue:   "Readings",
		schema.KindStatus:  "Sensors",
		schema.KindControl: "Controls",
		schema.KindCamera:  "Cameras",
		schema.KindChart:   "Charts",
	},
	Roles: map[schema.Role]string{
		schema.RoleAdmin:    "Administrator",
		schema.RoleOperator: "Operator",
		schema.RoleUser:     "User",
	},
	Alerts:           "Alerts",
	NoAlerts:         "No new alerts",
	NoData:           "no data",
	On:               "ON",
	Off:              "OFF",
	BelowMinimum:     "▼ below min",
	AboveMaximum:     "▲ above max",
	Loading:          "loading…",
	NoImage:          "no image yet",
	FailedImage:      "failed to load image",
	Cloud:            "● Cloud",
	LocalStream:      "● Local Stream",
	EmptySlots:       "📭 No devices configured yet",
	AddSlotsHint:     "Press a to add slots",
	SlotsHelp:        "Slots are managed from the web console or through /api/slots",
	AdminOnly:        "slot management requires an administrator",
	CannotReach:      "Cannot reach the server!",
	LoadFailed:       "Could not load data!",
	ControlFailed:    "Could not control the device!",
	Cached:           "cached",
	MQTTConnected:    "● MQTT Connected",
	MQTTDisconnected: "● MQTT Disconnected",
	Stats:            "Slots %d · Cameras %d · Controls %d · Unread alerts %d",
	Unread:           "%d unread",
	Hidden:           "%d slots hidden by filter",
	SessionEnded:     "Session ended. Run `slotdeck login` to sign in again.",
	Age:              slot.EnglishAge,
}

// Vietnamese matches the wording of the web dashboard.
var Vietnamese = Labels{
	Sections: map[schema.Kind]string{
		schema.KindValue:   "Giá trị",
		schema.KindStatus:  "Trạng thái",
		schema.KindControl: "Điều khiển",
		schema.KindCamera:  "Camera",
		schema.KindChart:   "Biểu đồ",
	},
	Roles: map[schema.Role]string{
		schema.RoleAdmin:    "Quản trị viên",
		schema.RoleOperator: "Vận hành",
		schema.RoleUser:     "Người dùng",
	},
	Alerts:           "Cảnh báo",
	NoAlerts:         "Không có cảnh báo mới",
	NoData:           "chưa có dữ liệu",
	On:               "BẬT",
	Off:              "TẮT",
	BelowMinimum:     "▼ dưới ngưỡng",
	AboveMaximum:     "▲ vượt ngưỡng",
	Loading:          "Đang tải...",
	NoImage:          "Chưa có ảnh",
	FailedImage:      "Không thể tải ảnh",
	Cloud:            "● Cloud",
	LocalStream:      "● Local Stream",
	EmptySlots:       "📭 Chưa có thiết bị nào được cấu hình",
	AddSlotsHint:     "Nhấn a để thêm thiết bị mới",
	SlotsHelp:        "Quản lý slot qua trang web hoặc API /api/slots",
	AdminOnly:        "chỉ quản trị viên được quản lý slot",
	CannotReach:      "Không thể kết nối đến server!",
	LoadFailed:       "Không thể tải dữ liệu!",
	ControlFailed:    "Không thể điều khiển thiết bị!",
	Cached:           "bộ nhớ đệm",
	MQTTConnected:    "● MQTT Connected",
	MQTTDisconnected: "● MQTT Disconnected",
	Stats:            "Tổng slot %d · Camera %d · Điều khiển %d · Cảnh báo %d",
	Unread:           "%d chưa đọc",
	Hidden:           "%d slot bị ẩn bởi bộ lọc",
	SessionEnded:     "Phiên đăng nhập đã kết thúc. Chạy `slotdeck login` để đăng nhập lại.",
	Age:              slot.VietnameseAge,
}

// LabelsFor returns the label set for a language, English when the
// language is unknown.
func LabelsFor(language config.Language) Labels {
	if language == config.Vietnamese {
		return Vietnamese
	}
	return English
}

// RoleName returns the display name of a role, or the raw string for
// a role the client does not recognize.
func (labels Labels) RoleName(role schema.Role) string {
	if name, ok := labels.Roles[role]; ok {
		return name
	}
	return string(role)
}

// State returns On or Off.
func (labels Labels) State(on bool) string {
	if on {
		return labels.On
	}
	return labels.Off
}

// BreachMarker returns the marker for a threshold breach, or "".
func (labels Labels) BreachMarker(breach slot.Breach) string {
	switch breach {
	case slot.BelowMinimum:
		return labels.BelowMinimum
	case slot.AboveMaximum:
		return labels.AboveMaximum
	default:
		return ""
	}
}

var defaultIcons = map[schema.Kind]string{
	schema.KindValue:   "📊",
	schema.KindStatus:  "📡",
	schema.KindControl: "💡",
	schema.KindCamera:  "📷",
	schema.KindChart:   "📈",
}

func iconFor(s schema.Slot) string {
	if s.Icon != "" {
		return s.Icon
	}
	return defaultIcons[s.Type]
}
