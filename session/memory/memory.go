// Package memory provides an in-memory session store, used in tests and for
// throwaway runs.
package memory

import (
	"context"
	"sync"

	"github.com/gosom/saas-funnel-demo/session"
)

type store struct {
	mu    *sync.RWMutex
	items map[string][]byte
}

func New() session.Store {
	ans := store{
		mu:    &sync.RWMutex{},
		items: make(map[string][]byte),
	}

	return &ans
}

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, session.ErrNotFound
	}

	cp := make([]byte, len(value))
	copy(cp, value)

	return cp, nil
}

func (s *store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)

	s.items[key] = cp

	return nil
}

func (s *store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return session.ErrNotFound
	}

	delete(s.items, key)

	return nil
}
