package stub

import (
	"context"
	"sort"
	"sync"

	"realtyref/pkg/domain"
	"realtyref/pkg/platform/sentinel"
)

// InMemoryStore keeps records in process memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.Collection]map[string]*Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.Collection]map[string]*Record)}
}

func (s *InMemoryStore) Create(_ context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.records[r.Collection]
	if coll == nil {
		coll = make(map[string]*Record)
		s.records[r.Collection] = coll
	}
	if _, ok := coll[r.ID]; ok {
		return sentinel.ErrConflict
	}
	if s.mobileTaken(coll, r.Mobile, r.ID) {
		return sentinel.ErrConflict
	}
	coll[r.ID] = r.clone()
	return nil
}

func (s *InMemoryStore) mobileTaken(coll map[string]*Record, mobile, exceptID string) bool {
	if mobile == "" {
		return false
	}
	for id, existing := range coll {
		if id != exceptID && existing.Mobile == mobile {
			return true
		}
	}
	return false
}

func (s *InMemoryStore) Get(_ context.Context, c domain.Collection, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[c][id]; ok {
		return r.clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByMobile(_ context.Context, c domain.Collection, mobile string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records[c] {
		if r.Mobile == mobile {
			return r.clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns records oldest first.
func (s *InMemoryStore) List(_ context.Context, c domain.Collection, f ListFilter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.records[c]))
	for _, r := range s.records[c] {
		if f.matches(r) {
			out = append(out, r.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Replace(_ context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.records[r.Collection]
	if _, ok := coll[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if s.mobileTaken(coll, r.Mobile, r.ID) {
		return sentinel.ErrConflict
	}
	coll[r.ID] = r.clone()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, c domain.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[c][id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records[c], id)
	return nil
}
