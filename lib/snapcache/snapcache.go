// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapcache keeps the last dashboard payload that rendered
// successfully, so the next launch can draw something before the
// first live fetch completes.
//
// The cache holds one snapshot, tagged with the user it was fetched
// for. Loading for a different user reports ErrNotFound: a snapshot
// fetched with one account's privileges is never shown to another.
// Logout and forced logout call Purge. A save that began before a
// purge carries the older Generation and is dropped, so a fetch still
// in flight when the session ends cannot restore the snapshot.
//
// The file is the backend's JSON payload inside a CBOR envelope,
// zstd-compressed, written atomically (temporary file then rename).
package snapcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bureau-foundation/slotdeck/lib/codec"
	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// FileName is the cache file inside the cache directory.
const FileName = "snapshot.cbor.zst"

// formatVersion is bumped when the envelope changes incompatibly.
const formatVersion = 2

// ErrNotFound is returned when no usable snapshot exists for the user.
var ErrNotFound = errors.New("no cached snapshot")

// ErrPurged is returned by SaveAt when the cache was purged after the
// caller read its generation.
var ErrPurged = errors.New("snapshot cache purged since save began")

// envelope is the on-disk record.
type envelope struct {
	Version int       `cbor:"version"`
	UserID  int64     `cbor:"user_id"`
	SavedAt time.Time `cbor:"saved_at"`
	Payload []byte    `cbor:"payload"`
}

// Snapshot is a cached dashboard with the time it was fetched.
type Snapshot struct {
	Dashboard *schema.Dashboard
	SavedAt   time.Time
}

// Cache reads and writes the snapshot file.
type Cache struct {
	path string

	// mu serializes writes with Purge and guards generation.
	mu         sync.Mutex
	generation uint64
}

// New returns a Cache storing its file in directory.
func New(directory string) *Cache {
	return &Cache{path: filepath.Join(directory, FileName)}
}

// Path returns the cache file path.
func (c *Cache) Path() string { return c.path }

// Generation returns the number of purges so far.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Save replaces the cached snapshot.
func (c *Cache) Save(userID int64, dashboard *schema.Dashboard, savedAt time.Time) error {
	return c.SaveAt(c.Generation(), userID, dashboard, savedAt)
}

// SaveAt replaces the cached snapshot unless Purge ran after the
// caller read generation, in which case it writes nothing and returns
// ErrPurged.
func (c *Cache) SaveAt(generation uint64, userID int64, dashboard *schema.Dashboard, savedAt time.Time) error {
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encoding snapshot payload: %w", err)
	}
	sealed, err := codec.MarshalCompressed(envelope{
		Version: formatVersion,
		UserID:  userID,
		SavedAt: savedAt,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return ErrPurged
	}

	directory := filepath.Dir(c.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", directory, err)
	}
	temporary, err := os.CreateTemp(directory, FileName+".*")
	if err != nil {
		return fmt.Errorf("creating temporary snapshot: %w", err)
	}
	temporaryPath := temporary.Name()
	if _, err := temporary.Write(sealed); err != nil {
		temporary.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(temporaryPath, c.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("installing snapshot: %w", err)
	}
	return nil
}

// Load returns the cached snapshot for userID. A missing file, a
// snapshot for another user, and a snapshot in an older format all
// report ErrNotFound; a corrupt file reports a wrapped ErrNotFound.
func (c *Cache) Load(userID int64) (*Snapshot, error) {
	sealed, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var record envelope
	if err := codec.UnmarshalCompressed(sealed, &record); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrNotFound, c.path, err)
	}
	if record.Version != formatVersion || record.UserID != userID {
		return nil, ErrNotFound
	}

	var dashboard schema.Dashboard
	if err := json.Unmarshal(record.Payload, &dashboard); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %v", ErrNotFound, err)
	}
	return &Snapshot{Dashboard: &dashboard, SavedAt: record.SavedAt}, nil
}

// Purge deletes the cached snapshot and advances the generation.
// Purging an empty cache is not an error.
func (c *Cache) Purge() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}

// DefaultDirectory returns $XDG_CACHE_HOME/slotdeck, falling back to
// ~/.cache/slotdeck.
func DefaultDirectory() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "slotdeck")
	}
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "slotdeck-cache")
	}
	return filepath.Join(homeDirectory, ".cache", "slotdeck")
}
