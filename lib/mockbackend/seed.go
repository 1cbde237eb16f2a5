// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockbackend

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand/v2"
	"time"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "slotdeck"

// Demo account emails created by Seed.
const (
	DemoAdmin    = "admin@slotdeck.local"
	DemoOperator = "operator@slotdeck.local"
	DemoUser     = "viewer@slotdeck.local"
)

func float(value float64) *float64 { return &value }

// Seed fills the backend with one account per role and a small house
// of slots covering every kind.
func (b *Backend) Seed() {
	b.AddAccount("Admin", DemoAdmin, DemoPassword, schema.RoleAdmin)
	b.AddAccount("Operator", DemoOperator, DemoPassword, schema.RoleOperator)
	b.AddAccount("Viewer", DemoUser, DemoPassword, schema.RoleUser)

	slots := []schema.Slot{
		{SlotNumber: 1, Name: "Living room temperature", Type: schema.KindValue, Icon: "🌡", Unit: "°C", Location: "Living room", ThresholdMin: float(16), ThresholdMax: float(30)},
		{SlotNumber: 2, Name: "Humidity", Type: schema.KindValue, Icon: "💧", Unit: "%", Location: "Living room"},
		{SlotNumber: 3, Name: "Ceiling fan", Type: schema.KindControl, Icon: "🌀", Location: "Bedroom"},
		{SlotNumber: 4, Name: "Front door", Type: schema.KindStatus, Icon: "🚪", Location: "Hall"},
		{SlotNumber: 5, Name: "Porch camera", Type: schema.KindCamera, Icon: "📷", Location: "Porch"},
		{SlotNumber: 6, Name: "Garage camera", Type: schema.KindCamera, Icon: "📷", Location: "Garage", StreamURL: "http://192.168.1.40:8080/stream"},
		{SlotNumber: 7, Name: "Garden lights", Type: schema.KindControl, Icon: "💡", Location: "Garden"},
		{SlotNumber: 8, Name: "Power usage", Type: schema.KindChart, Icon: "📈", Unit: "W", Location: "Utility room"},
	}
	for _, s := range slots {
		b.PutSlot(s)
	}
	b.SetReading(1, schema.NumberValue(24.5))
	b.SetReading(2, schema.TextValue("61"))
	b.SetReading(3, schema.NumberValue(0))
	b.SetReading(4, schema.TextValue("1"))
	b.SetReading(7, schema.NumberValue(1))
	b.SetReading(8, schema.NumberValue(412))
	b.SetFrame(5, schema.CameraFrame{ImageData: TestPattern(32, 16, 0)})

	b.AddAlert("Front door opened")
	b.AddAlert("Living room temperature above 30 °C")
}

// Simulate perturbs readings and camera frames every tick until ctx
// is done. It drives cmd/slotdeck-mock so the dashboard has something
// to show changing.
func (b *Backend) Simulate(ctx context.Context, interval time.Duration) {
	ticker := b.clock.NewTicker(interval)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		frame++
		temperature := 22 + 9*math.Sin(float64(frame)/6)
		humidity := 55 + rand.IntN(15)

		b.SetReading(1, schema.NumberValue(math.Round(temperature*10)/10))
		b.SetReading(2, schema.TextValue(fmt.Sprint(humidity)))
		b.SetReading(8, schema.NumberValue(float64(300+rand.IntN(250))))
		if rand.IntN(4) == 0 {
			b.SetReading(4, schema.NumberValue(float64(rand.IntN(2))))
		}
		if temperature > 30 && frame%6 == 0 {
			b.AddAlert(fmt.Sprintf("Living room temperature %.1f °C above 30 °C", temperature))
		}
		b.SetFrame(5, schema.CameraFrame{ImageData: TestPattern(32, 16, frame)})
	}
}

// TestPattern returns a PNG data URL of a moving gradient, shifted by
// phase.
func TestPattern(width, height, phase int) string {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			shift := (x + phase) % width
			img.Set(x, y, color.RGBA{
				R: uint8(255 * shift / width),
				G: uint8(255 * y / height),
				B: uint8(128 + 127*((x+y+phase)%2)),
				A: 255,
			})
		}
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(encoded.Bytes())
}
