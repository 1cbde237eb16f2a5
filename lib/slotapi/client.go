// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package slotapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bureau-foundation/slotdeck/lib/netutil"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the backend root (e.g., "http://localhost:5000").
	BaseURL string

	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client

	// Timeout bounds each request. Zero means no per-request bound
	// beyond the caller's context.
	Timeout time.Duration

	// Token returns the current bearer token. It is consulted on
	// every call so that a cleared session stops authenticating
	// immediately. Nil means no token.
	Token func() string

	// OnUnauthorized runs whenever an authenticated call receives
	// 401, before the error is returned.
	OnUnauthorized func()

	// UserAgent is sent on every request when non-empty.
	UserAgent string

	// Logger is used for request diagnostics. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client talks to the slot backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	token          func() string
	onUnauthorized func()
	userAgent      string
	logger         *slog.Logger
}

// New creates a Client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("slotapi: BaseURL is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("slotapi: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("slotapi: BaseURL %q must be http or https", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	token := config.Token
	if token == nil {
		token = func() string { return "" }
	}

	return &Client{
		baseURL:        strings.TrimRight(config.BaseURL, "/"),
		httpClient:     httpClient,
		timeout:        config.Timeout,
		token:          token,
		onUnauthorized: config.OnUnauthorized,
		userAgent:      config.UserAgent,
		logger:         logger,
	}, nil
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// envelope is the status part of every backend response.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// doRequest performs one call and decodes the body into out (when
// non-nil). authenticated selects whether the bearer token is attached
// and whether a 401 triggers the unauthorized hook; only login is
// unauthenticated.
func (c *Client) doRequest(ctx context.Context, method, path string, requestBody, out any, authenticated bool) (*envelope, error) {
	fail := func(category Category, status int, message string, err error) error {
		return &Error{Category: category, Method: method, Path: path, StatusCode: status, Message: message, Err: err}
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("slotapi: encoding request body for %s %s: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("slotapi: creating request %s %s: %w", method, path, err)
	}
	request.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		if token := c.token(); token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fail(CategoryTransient, 0, "", err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fail(CategoryTransient, response.StatusCode, "", fmt.Errorf("reading response: %w", err))
	}

	if response.StatusCode == http.StatusUnauthorized && authenticated {
		c.logger.Debug("backend returned unauthorized", "method", method, "path", path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, fail(CategoryUnauthorized, response.StatusCode, "", nil)
	}

	var status envelope
	if err := json.Unmarshal(responseBody, &status); err != nil {
		return nil, fail(CategoryTransient, response.StatusCode, "",
			fmt.Errorf("non-JSON response (status %d): %s", response.StatusCode, netutil.Snippet(responseBody, 120)))
	}

	// An explicit success:false is an application error whatever the
	// status code; the backend sends its error text either way.
	if status.Success != nil && !*status.Success {
		message := status.Error
		if message == "" {
			message = status.Message
		}
		return &status, fail(CategoryApplication, response.StatusCode, message, nil)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		if status.Error != "" {
			return &status, fail(CategoryApplication, response.StatusCode, status.Error, nil)
		}
		return nil, fail(CategoryTransient, response.StatusCode, "", nil)
	}

	if out != nil {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return &status, fail(CategoryTransient, response.StatusCode, "", fmt.Errorf("decoding response: %w", err))
		}
	}
	return &status, nil
}
