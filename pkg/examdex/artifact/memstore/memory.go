// Package memstore keeps a bundle in memory. Useful for tests and for
// building and querying within one process.
package memstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cognicore/examdex/pkg/examdex/artifact"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
)

// Store is an in-memory implementation of artifact.Store.
type Store struct {
	mu     sync.RWMutex
	bundle []byte
	saves  int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements artifact.Store.
func (s *Store) Close() error { return nil }

// Save stores a copy of the bundle; later changes to b are not visible.
func (s *Store) Save(ctx context.Context, b *artifact.Bundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundle = data
	s.saves++
	return nil
}

// Load returns a fresh copy of the stored bundle.
func (s *Store) Load(ctx context.Context) (*artifact.Bundle, error) {
	s.mu.RLock()
	data := s.bundle
	s.mu.RUnlock()

	if data == nil {
		return nil, internalerr.ErrNoData
	}

	var b artifact.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
