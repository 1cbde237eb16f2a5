// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// FrameStatus is where a camera card is in its load cycle.
type FrameStatus int

const (
	// FrameLoading is the placeholder shown from card creation until
	// the first camera fetch completes.
	FrameLoading FrameStatus = iota
	// FrameCloud means the backend returned an uploaded image.
	FrameCloud
	// FrameStream means the backend returned a stream URL.
	FrameStream
	// FrameEmpty means the camera has never produced a frame.
	FrameEmpty
	// FrameFailed means the last fetch failed.
	FrameFailed
)

// Preview dimensions in terminal cells. Each cell carries two pixel
// rows through the upper half block.
const (
	PreviewWidth  = 32
	PreviewHeight = 8
)

// MaxPreviewPixels caps the declared size of an image the preview
// decodes. Larger frames still report their byte size.
const MaxPreviewPixels = 4096 * 4096

// FrameState is the renderable result of one camera fetch.
type FrameState struct {
	Status    FrameStatus
	StreamURL string
	CreatedAt schema.Timestamp

	// Size is the decoded image payload in bytes.
	Size int

	// Preview holds pre-styled rows, nil when the image could not be
	// decoded.
	Preview []string
}

// DecodeFrame converts a camera response into a FrameState. A nil
// frame means the camera has nothing yet. Decoding is done here,
// inside the fetch command, so the event loop never decodes images.
func DecodeFrame(frame *schema.CameraFrame) FrameState {
	if frame == nil {
		return FrameState{Status: FrameEmpty}
	}
	switch {
	case frame.ImageData != "":
		state := FrameState{Status: FrameCloud, CreatedAt: frame.CreatedAt}
		payload, err := decodeImageData(frame.ImageData)
		if err != nil {
			return state
		}
		state.Size = len(payload)
		config, _, err := image.DecodeConfig(bytes.NewReader(payload))
		if err != nil || !previewable(config) {
			return state
		}
		if img, _, err := image.Decode(bytes.NewReader(payload)); err == nil {
			state.Preview = halfBlockPreview(img, PreviewWidth, PreviewHeight)
		}
		return state
	case frame.StreamURL != "":
		return FrameState{Status: FrameStream, StreamURL: frame.StreamURL, CreatedAt: frame.CreatedAt}
	default:
		return FrameState{Status: FrameEmpty}
	}
}

// previewable reports whether an image header is small enough to
// decode. The pixel buffer is allocated from the declared dimensions,
// so the check runs before any pixel data is read.
func previewable(config image.Config) bool {
	if config.Width <= 0 || config.Height <= 0 {
		return false
	}
	return int64(config.Width)*int64(config.Height) <= MaxPreviewPixels
}

// decodeImageData accepts a data URL or bare base64.
func decodeImageData(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		header, encoded, found := strings.Cut(data, ",")
		if !found {
			return nil, fmt.Errorf("data URL has no payload")
		}
		if !strings.HasSuffix(header, ";base64") {
			return []byte(encoded), nil
		}
		data = encoded
	}
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return payload, nil
}

// halfBlockPreview samples img down to width x height cells, drawing
// each cell as "▀" with the upper pixel as foreground and the lower
// pixel as background.
func halfBlockPreview(img image.Image, width, height int) []string {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil
	}
	// Keep the aspect ratio; a cell is roughly twice as tall as wide.
	if scaled := width * bounds.Dy() / bounds.Dx() / 2; scaled > 0 && scaled < height {
		height = scaled
	}
	pixelRows := height * 2

	sample := func(column, row int) lipgloss.Color {
		x := bounds.Min.X + column*bounds.Dx()/width
		y := bounds.Min.Y + row*bounds.Dy()/pixelRows
		r, g, b, _ := img.At(x, y).RGBA()
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
	}

	rows := make([]string, 0, height)
	for cellRow := range height {
		var line strings.Builder
		for column := range width {
			style := lipgloss.NewStyle().
				Foreground(sample(column, cellRow*2)).
				Background(sample(column, cellRow*2+1))
			line.WriteString(style.Render("▀"))
		}
		rows = append(rows, line.String())
	}
	return rows
}
