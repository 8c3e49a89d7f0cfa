// Package session keeps the client's credential in a YAML file between runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/blockedby/interview-list/internal/models"
)

// FileStore stores one credential in a YAML file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path. The file is created on Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored credential, or nil when there is none.
func (s *FileStore) Load() (*models.Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var cred models.Credential
	if err := yaml.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if cred.Token == "" {
		return nil, nil
	}
	return &cred, nil
}

// Save writes cred, readable only by the current user.
func (s *FileStore) Save(cred *models.Credential) error {
	data, err := yaml.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
