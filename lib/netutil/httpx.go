// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers shared by the backend
// client and the mock backend.
//
// Response bodies are read through ReadResponse, which bounds the read
// at MaxResponseSize and reports ErrResponseTooLarge instead of
// silently truncating. Camera frames arrive inline as base64 data URLs,
// so the bound is generous, but a misbehaving server still cannot
// exhaust memory.
//
// IsTransient classifies errors from http.Client.Do: connection
// refused, resets, timeouts and similar failures that the next polling
// cycle may not see again.
package netutil

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxResponseSize bounds response body reads: 32 MB.
const MaxResponseSize int64 = 32 << 20

// ErrResponseTooLarge is returned when a body exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("response body exceeds size limit")

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return ReadLimited(body, MaxResponseSize)
}

// ReadLimited reads body up to limit bytes and fails with
// ErrResponseTooLarge when more remain.
func ReadLimited(body io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, limit)
	}
	return data, nil
}

// Snippet returns the start of a body for use in error messages, with
// whitespace collapsed.
func Snippet(body []byte, maxLength int) string {
	text := strings.Join(strings.Fields(string(body)), " ")
	if len(text) > maxLength {
		return text[:maxLength] + "..."
	}
	return text
}
