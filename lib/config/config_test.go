// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DashboardInterval.Std() != 5*time.Second {
		t.Errorf("dashboard_interval = %s, want 5s", cfg.DashboardInterval)
	}
	if cfg.CameraInterval.Std() != 2*time.Second {
		t.Errorf("camera_interval = %s, want 2s", cfg.CameraInterval)
	}
	if cfg.AlertLimit != 5 {
		t.Errorf("alert_limit = %d, want 5", cfg.AlertLimit)
	}
	if cfg.Language != English {
		t.Errorf("language = %q, want en", cfg.Language)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestResolveWithoutFile(t *testing.T) {
	t.Setenv("SLOTDECK_CONFIG", "")
	t.Setenv("SLOTDECK_API_URL", "")
	t.Setenv("XDG_CACHE_HOME", "/var/cache/test")

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("api_url = %q, want default", cfg.APIURL)
	}
	if cfg.CacheDir != "/var/cache/test/slotdeck" {
		t.Errorf("cache_dir = %q, want /var/cache/test/slotdeck", cfg.CacheDir)
	}
}

func TestResolveFromEnvironment(t *testing.T) {
	path := writeConfig(t, "slotdeck.yaml", "api_url: https://iot.example.com\n")
	t.Setenv("SLOTDECK_CONFIG", path)
	t.Setenv("SLOTDECK_API_URL", "")

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.APIURL != "https://iot.example.com" {
		t.Errorf("api_url = %q", cfg.APIURL)
	}
}

func TestExplicitPathWins(t *testing.T) {
	fromEnv := writeConfig(t, "env.yaml", "alert_limit: 3\n")
	fromFlag := writeConfig(t, "flag.yaml", "alert_limit: 9\n")
	t.Setenv("SLOTDECK_CONFIG", fromEnv)

	cfg, err := Resolve(fromFlag)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.AlertLimit != 9 {
		t.Errorf("alert_limit = %d, want 9 from the explicit file", cfg.AlertLimit)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("SLOTDECK_API_URL", "")
	path := writeConfig(t, "slotdeck.yaml", `
api_url: http://gateway.local:5000
dashboard_interval: 10s
camera_interval: 1.5
request_timeout: 3s
alert_limit: 8
language: vi
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.APIURL != "http://gateway.local:5000" {
		t.Errorf("api_url = %q", cfg.APIURL)
	}
	if cfg.DashboardInterval.Std() != 10*time.Second {
		t.Errorf("dashboard_interval = %s", cfg.DashboardInterval)
	}
	if cfg.CameraInterval.Std() != 1500*time.Millisecond {
		t.Errorf("camera_interval = %s, want 1.5s from a bare number", cfg.CameraInterval)
	}
	if cfg.AlertLimit != 8 || cfg.Language != Vietnamese {
		t.Errorf("alert_limit %d language %q", cfg.AlertLimit, cfg.Language)
	}
	// Unset fields keep their defaults.
	if cfg.CacheDir == "" {
		t.Error("cache_dir default lost")
	}
}

func TestLoadJSONC(t *testing.T) {
	t.Setenv("SLOTDECK_API_URL", "")
	path := writeConfig(t, "slotdeck.jsonc", `{
  // backend on the LAN
  "api_url": "http://10.0.0.2:8080",
  "camera_interval": "500ms",
  "alert_limit": 2, // trailing comma below
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.2:8080" || cfg.CameraInterval.Std() != 500*time.Millisecond || cfg.AlertLimit != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	for name, content := range map[string]string{
		"typo.yaml":  "dashbaord_interval: 5s\n",
		"typo.jsonc": `{"alert_limt": 3}`,
	} {
		if _, err := LoadFile(writeConfig(t, name, content)); err == nil {
			t.Errorf("%s: unknown field accepted", name)
		}
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "bad.yaml", "dashboard_interval: soon\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("err = %v, want invalid duration", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	t.Setenv("SLOTDECK_API_URL", "")
	cfg, err := LoadFile(writeConfig(t, "empty.yaml", ""))
	if err != nil {
		t.Fatalf("LoadFile of empty file: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("api_url = %q", cfg.APIURL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFile of a missing file succeeded")
	}
}

func TestAPIURLEnvironmentOverride(t *testing.T) {
	t.Setenv("SLOTDECK_API_URL", "https://override.example.com")
	cfg, err := LoadFile(writeConfig(t, "slotdeck.yaml", "api_url: http://file.example.com\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "https://override.example.com" {
		t.Errorf("api_url = %q, want the environment value", cfg.APIURL)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("SLOTDECK_TEST_DIR", "/srv/slotdeck")
	t.Setenv("SLOTDECK_UNSET", "")

	tests := []struct {
		input, want string
	}{
		{"${SLOTDECK_TEST_DIR}/cache", "/srv/slotdeck/cache"},
		{"${SLOTDECK_UNSET:-/fallback}/cache", "/fallback/cache"},
		{"${SLOTDECK_UNSET:-${SLOTDECK_TEST_DIR}/inner}", "/srv/slotdeck/inner"},
		{"/plain/path", "/plain/path"},
		{"${SLOTDECK_UNSET}", ""},
	}
	for _, test := range tests {
		if got := expandVars(test.input); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty api url", func(c *Config) { c.APIURL = "" }, "api_url is required"},
		{"bad scheme", func(c *Config) { c.APIURL = "ftp://x" }, "must be an http or https URL"},
		{"zero dashboard interval", func(c *Config) { c.DashboardInterval = 0 }, "dashboard_interval must be positive"},
		{"negative camera interval", func(c *Config) { c.CameraInterval = -1 }, "camera_interval must be positive"},
		{"zero alert limit", func(c *Config) { c.AlertLimit = 0 }, "alert_limit must be at least 1"},
		{"unknown language", func(c *Config) { c.Language = "fr" }, "language must be"},
	}
	for _, test := range tests {
		cfg := Default()
		test.mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: Validate = %v, want error containing %q", test.name, err, test.want)
		}
	}

	cfg := Default()
	cfg.APIURL = ""
	cfg.AlertLimit = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "api_url") || !strings.Contains(err.Error(), "alert_limit") {
		t.Errorf("Validate should report every problem, got %v", err)
	}
}
