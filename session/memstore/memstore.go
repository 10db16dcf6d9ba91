// Package memstore keeps the credential in process memory.
package memstore

import (
	"context"
	"sync"

	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/jrsteele09/studentdesk/session"
)

var _ session.Store = (*Store)(nil)

type Store struct {
	mu    sync.RWMutex
	token string
}

func New() *Store {
	return &Store{}
}

func (s *Store) Load(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return "", errors.ErrNoCredential
	}
	return s.token, nil
}

func (s *Store) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	return nil
}
