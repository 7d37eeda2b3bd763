package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/newsroomhq/newsroom/internal/errors"
)

// Slot is the durable storage for the bearer token. The store is its only
// writer; the gateway never touches it directly.
type Slot interface {
	// Read returns the stored token, or "" when none is stored
	Read() (string, error)
	// Write persists the token
	Write(token string) error
	// Clear removes the stored token
	Clear() error
}

// credentials is the on-disk shape of the token slot
type credentials struct {
	Token string `json:"token"`
}

// FileSlot persists the token as a JSON file readable only by the owner
type FileSlot struct {
	path string
}

// NewFileSlot creates a slot backed by the given file path
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Read returns the stored token; a missing file means no token
func (s *FileSlot) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeSlotReadFailed, "read credentials", err)
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", errors.Wrap(errors.ErrCodeSlotReadFailed, "parse credentials", err)
	}
	return creds.Token, nil
}

// Write persists the token with owner-only permissions
func (s *FileSlot) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeStateDirFailed, "create state directory", err)
	}

	data, err := json.MarshalIndent(credentials{Token: token}, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSlotWriteFailed, "encode credentials", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeSlotWriteFailed, "write credentials", err)
	}
	return nil
}

// Clear removes the credentials file
func (s *FileSlot) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeSlotWriteFailed, "remove credentials", err)
	}
	return nil
}

// MemorySlot is an in-memory slot for tests
type MemorySlot struct {
	mu    sync.Mutex
	token string
	set   bool
}

// Read returns the stored token
func (s *MemorySlot) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", nil
	}
	return s.token, nil
}

// Write persists the token
func (s *MemorySlot) Write(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

// Clear removes the stored token
func (s *MemorySlot) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}
