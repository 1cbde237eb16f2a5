// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Language selects the label set shown in the dashboard.
type Language string

const (
	English    Language = "en"
	Vietnamese Language = "vi"
)

// Config is the complete slotdeck configuration.
type Config struct {
	// APIURL is the backend root, e.g. "https://iot.example.com".
	APIURL string `yaml:"api_url" json:"api_url"`

	// DashboardInterval is the period of the full dashboard refresh.
	// Default: 5s
	DashboardInterval Duration `yaml:"dashboard_interval" json:"dashboard_interval"`

	// CameraInterval is the period of each camera's frame refresh.
	// Default: 2s
	CameraInterval Duration `yaml:"camera_interval" json:"camera_interval"`

	// RequestTimeout bounds every backend call.
	// Default: 10s
	RequestTimeout Duration `yaml:"request_timeout" json:"request_timeout"`

	// AlertLimit is how many alerts the dashboard lists.
	// Default: 5
	AlertLimit int `yaml:"alert_limit" json:"alert_limit"`

	// SessionFile overrides the session file location. Empty means
	// the standard location (see session.FilePath).
	SessionFile string `yaml:"session_file" json:"session_file"`

	// CacheDir is where the last dashboard snapshot is kept. Empty
	// disables the snapshot cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Language is "en" or "vi".
	Language Language `yaml:"language" json:"language"`
}

// DefaultAPIURL is the backend assumed when nothing is configured; it
// is where slotdeck-mock listens by default.
const DefaultAPIURL = "http://localhost:8080"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:            DefaultAPIURL,
		DashboardInterval: Duration(5 * time.Second),
		CameraInterval:    Duration(2 * time.Second),
		RequestTimeout:    Duration(10 * time.Second),
		AlertLimit:        5,
		CacheDir:          "${XDG_CACHE_HOME:-${HOME}/.cache}/slotdeck",
		Language:          English,
	}
}

// Resolve loads the configuration named by explicit (the --config
// flag), else by SLOTDECK_CONFIG, else returns Default. The result
// has variables expanded and environment overrides applied but is not
// validated; callers apply flags and then call Validate.
func Resolve(explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = os.Getenv("SLOTDECK_CONFIG")
	}
	if path == "" {
		cfg := Default()
		cfg.finish()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path on top of Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.finish()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}

// finish expands path variables and applies environment overrides.
func (c *Config) finish() {
	c.SessionFile = expandVars(c.SessionFile)
	c.CacheDir = expandVars(c.CacheDir)
	if apiURL := os.Getenv("SLOTDECK_API_URL"); apiURL != "" {
		c.APIURL = apiURL
	}
}

// varPattern matches ${VAR} and ${VAR:-default}. Defaults may nest
// one level of ${...}, which expandVars resolves by expanding the
// default recursively.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^{}]|\{[^{}]*\})*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if parts[1] == "HOME" {
			if home, err := os.UserHomeDir(); err == nil {
				return home
			}
		}
		return expandVars(parts[2])
	})
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.APIURL == "" {
		errs = append(errs, fmt.Errorf("api_url is required"))
	} else if parsed, err := url.Parse(c.APIURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api_url %q must be an http or https URL", c.APIURL))
	}
	if c.DashboardInterval <= 0 {
		errs = append(errs, fmt.Errorf("dashboard_interval must be positive, got %s", c.DashboardInterval))
	}
	if c.CameraInterval <= 0 {
		errs = append(errs, fmt.Errorf("camera_interval must be positive, got %s", c.CameraInterval))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout))
	}
	if c.AlertLimit < 1 {
		errs = append(errs, fmt.Errorf("alert_limit must be at least 1, got %d", c.AlertLimit))
	}
	if c.Language != English && c.Language != Vietnamese {
		errs = append(errs, fmt.Errorf("language must be %q or %q, got %q", English, Vietnamese, c.Language))
	}

	return errors.Join(errs...)
}
