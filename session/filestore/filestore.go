// Package filestore keeps the credential in a JSON file, the durable store
// used by the command line client.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/jrsteele09/studentdesk/session"
)

const credentialsFileName = "credentials.json"

var _ session.Store = (*Store)(nil)

type credentials struct {
	Token string `json:"token"`
}

type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store backed by the file at path. The file is created on the first Save.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.studentdesk/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".studentdesk", credentialsFileName), nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", errors.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("read credentials: %w", err)
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", errors.Wrapf(errors.ErrMalformedCredential, "parse %s: %v", s.path, err)
	}
	if creds.Token == "" {
		return "", errors.ErrNoCredential
	}
	return creds.Token, nil
}

func (s *Store) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(credentials{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	// Write then rename so a crash never leaves a half written credential.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
