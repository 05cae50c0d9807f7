package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/baechuer/user-management/internal/transport/http/dto"
)

// Session is what survives a console restart: the bearer token and the logged-in user.
type Session struct {
	Token string        `json:"token"`
	User  dto.LoginUser `json:"user"`
}

func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID > 0
}

// SessionStore persists a Session as a JSON file.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionPath is <user config dir>/user-management/session.json.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "user-management", "session.json"), nil
}

func (s *SessionStore) Path() string { return s.path }

// Load returns ok=false when no usable session is stored.
func (s *SessionStore) Load() (Session, bool, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, false, fmt.Errorf("parse session: %w", err)
	}
	if !sess.Valid() {
		return Session{}, false, nil
	}
	return sess, true, nil
}

func (s *SessionStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the stored session. A missing file is not an error.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
