// Package store persists the bearer token between runs so a shopper stays signed in.
package store

import (
	"context"
	"sync"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
)

// TokenStore keeps at most one token. Load returns ErrNotFound when none is stored.
type TokenStore interface {
	Load(c context.Context) (string, error)
	Save(c context.Context, token string) error
	Delete(c context.Context) error
}

type MemoryTokenStore struct {
	token string
	mu    sync.Mutex
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", commonErrors.ErrNotFound
	}
	return s.token, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
