// Package store implements the device-local key/value stores that back a
// session: in memory, a SQLite file, or Redis.
package store

import (
	"context"
	"sync"

	"realtyref/pkg/platform/sentinel"
)

// InMemory keeps values for the life of the process.
type InMemory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemory() *InMemory {
	return &InMemory{values: make(map[string]string)}
}

func (s *InMemory) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", sentinel.ErrNotFound
}

func (s *InMemory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes keys; absent keys are ignored.
func (s *InMemory) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
