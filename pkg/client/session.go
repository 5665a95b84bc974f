package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Session is the locally persisted credential: the bearer token plus a
// snapshot of the user it belongs to, the analogue of the web client's
// local storage. The snapshot may lag behind the server; Me is the source
// of truth.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SessionFile persists the session as JSON on disk.
type SessionFile struct {
	path string
}

// NewSessionFile stores the session at path.
func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// DefaultSessionFile stores the session under the user config directory.
func DefaultSessionFile() (*SessionFile, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewSessionFile(filepath.Join(dir, "user-management", "session.json")), nil
}

// Load returns the persisted session, or nil when none exists.
func (f *SessionFile) Load() (*Session, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt session file is treated as logged out rather than a
		// hard failure.
		return nil, nil
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

// Save writes the session, creating parent directories as needed. The file
// holds a credential, hence 0600.
func (f *SessionFile) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

// Clear removes the persisted session. Clearing an absent file is not an
// error.
func (f *SessionFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
