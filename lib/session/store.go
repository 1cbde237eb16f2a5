// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/slotdeck/lib/schema"
)

// ErrNoSession is returned by Store.Load when no usable session is
// stored.
var ErrNoSession = errors.New("no session")

// Session is the persisted authentication state.
type Session struct {
	// Token is the bearer token attached to every backend call.
	Token string `json:"token"`

	// User is the account record returned by the login endpoint.
	User schema.User `json:"user"`

	// APIURL is the backend the token was issued by. Commands fall
	// back to it when no api_url is configured.
	APIURL string `json:"api_url,omitempty"`
}

// Valid reports whether both the token and the user are present. A
// session missing either is treated as absent.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && (s.User.ID != 0 || s.User.Email != "")
}

// FilePath resolves the session file location. An explicit path
// (from --session-file) wins, then SLOTDECK_SESSION_FILE, then
// $XDG_CONFIG_HOME/slotdeck/session.json.
func FilePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if envPath := os.Getenv("SLOTDECK_SESSION_FILE"); envPath != "" {
		return envPath
	}
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "slotdeck-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "slotdeck", "session.json")
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file path.
func (s *Store) Path() string { return s.path }

// Load reads the session. A missing file, an unparseable file, and a
// file lacking a token or user all return ErrNoSession; corruption is
// wrapped so callers can log it.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading session file %s: %w", s.path, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: parsing session file %s: %v", ErrNoSession, s.path, err)
	}
	if !session.Valid() {
		return nil, fmt.Errorf("%w: session file %s lacks a token or user", ErrNoSession, s.path)
	}
	return &session, nil
}

// Save replaces the session file with mode 0600, creating the parent
// directory with mode 0700. The file is written under a temporary
// name and renamed into place, so a reader sees the old session or
// the new one, never a partial write.
func (s *Store) Save(session *Session) error {
	if !session.Valid() {
		return fmt.Errorf("refusing to save a session without token and user")
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}
	temporary, err := os.CreateTemp(directory, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary session file: %w", err)
	}
	temporaryPath := temporary.Name()
	if err := writeAndClose(temporary, data); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("writing session file %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, s.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("installing session file %s: %w", s.path, err)
	}
	return nil
}

// writeAndClose writes data to file with mode 0600 and flushes it to
// disk before closing.
func writeAndClose(file *os.File, data []byte) error {
	if err := file.Chmod(0600); err != nil {
		file.Close()
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Clear removes the session file. Clearing an absent session is not
// an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file %s: %w", s.path, err)
	}
	return nil
}
