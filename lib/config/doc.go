// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for slotdeck.
//
// Configuration comes from at most one file, named by the --config
// flag or the SLOTDECK_CONFIG environment variable. There is no
// automatic discovery: without either, [Default] is used as is. Files
// ending in .json or .jsonc are read as JSON with comments and
// trailing commas allowed; anything else is YAML.
//
// After the file is read, ${VAR} and ${VAR:-default} patterns in the
// path fields (session_file, cache_dir) are expanded, and
// SLOTDECK_API_URL, if set, replaces api_url. Command-line flags are
// applied by the caller after that.
//
// Key exports:
//
//   - [Config] -- the settings
//   - [Default] -- built-in values
//   - [Resolve] -- the entry point used by the CLI
//   - [Duration] -- a time.Duration that reads "5s" from YAML or JSON
package config
