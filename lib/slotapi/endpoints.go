// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package slotapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// FullDashboard fetches the complete dashboard payload.
func (c *Client) FullDashboard(ctx context.Context) (*schema.Dashboard, error) {
	var dashboard schema.Dashboard
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/dashboard/full", nil, &dashboard, true); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// Camera fetches the latest frame for a camera slot. A successful
// response without a frame returns (nil, nil).
func (c *Client) Camera(ctx context.Context, slotNumber int) (*schema.CameraFrame, error) {
	var response struct {
		Data *schema.CameraFrame `json:"data"`
	}
	path := fmt.Sprintf("/api/camera/%d", slotNumber)
	if _, err := c.doRequest(ctx, http.MethodGet, path, nil, &response, true); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// ControlRequest is the body of a control command.
type ControlRequest struct {
	Command int `json:"command"`
}

// Control switches a control slot on or off and returns the backend's
// confirmation message, which may be empty.
func (c *Client) Control(ctx context.Context, slotNumber int, on bool) (string, error) {
	request := ControlRequest{Command: 0}
	if on {
		request.Command = 1
	}
	path := fmt.Sprintf("/api/control/%d", slotNumber)
	status, err := c.doRequest(ctx, http.MethodPost, path, request, nil, true)
	if err != nil {
		return "", err
	}
	return status.Message, nil
}

// MarkAlertRead marks one alert as read. Marking an already read alert
// succeeds.
func (c *Client) MarkAlertRead(ctx context.Context, alertID int64) error {
	path := fmt.Sprintf("/api/alerts/%d/read", alertID)
	_, err := c.doRequest(ctx, http.MethodPut, path, nil, nil, true)
	return err
}

// Slots lists every configured slot.
func (c *Client) Slots(ctx context.Context) ([]schema.Slot, error) {
	var response struct {
		Data []schema.Slot `json:"data"`
	}
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/slots", nil, &response, true); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Slot fetches one slot definition.
func (c *Client) Slot(ctx context.Context, slotNumber int) (*schema.Slot, error) {
	var response struct {
		Data *schema.Slot `json:"data"`
	}
	path := fmt.Sprintf("/api/slots/%d", slotNumber)
	if _, err := c.doRequest(ctx, http.MethodGet, path, nil, &response, true); err != nil {
		return nil, err
	}
	if response.Data == nil {
		return nil, &Error{Category: CategoryApplication, Method: http.MethodGet, Path: path, Message: "slot not found"}
	}
	return response.Data, nil
}

// AvailableSlots lists slot numbers not yet assigned.
func (c *Client) AvailableSlots(ctx context.Context) ([]int, error) {
	var response struct {
		Data []int `json:"data"`
	}
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/slots/available", nil, &response, true); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// CreateSlot defines a new slot. Admin only on the backend.
func (c *Client) CreateSlot(ctx context.Context, slot schema.Slot) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/api/slots", slot, nil, true)
	return err
}

// UpdateSlot replaces a slot definition. Admin only on the backend.
func (c *Client) UpdateSlot(ctx context.Context, slotNumber int, slot schema.Slot) error {
	_, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/slots/%d", slotNumber), slot, nil, true)
	return err
}

// DeleteSlot removes a slot definition. Admin only on the backend.
func (c *Client) DeleteSlot(ctx context.Context, slotNumber int) error {
	_, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/slots/%d", slotNumber), nil, nil, true)
	return err
}

// LoginRequest is the body of the login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is what a successful login returns.
type LoginResult struct {
	Token string      `json:"token"`
	User  schema.User `json:"user"`
}

// Login exchanges credentials for a token. It never triggers the
// unauthorized hook: a rejected password is an application error.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	request := LoginRequest{Email: email, Password: password}
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", request, &result, false); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, &Error{Category: CategoryApplication, Method: http.MethodPost, Path: "/api/auth/login", Message: "login response carried no token"}
	}
	return &result, nil
}
