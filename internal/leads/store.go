// Package leads holds the console's local belief about lead records and
// the read-modify-write primitive that keeps it consistent with the
// server of record.
package leads

import (
	"sync"

	"leadconsole/internal/api"
)

// Store is the local cache of lead records backing the list view.
// Successful saves patch entries in place; a failed save never touches
// the cache, so the view keeps showing what the server last confirmed.
type Store struct {
	mu    sync.RWMutex
	leads map[int64]api.Lead
}

// NewStore creates an empty lead store.
func NewStore() *Store {
	return &Store{leads: make(map[int64]api.Lead)}
}

// Get returns the cached lead, if present.
func (s *Store) Get(id int64) (api.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.leads[id]
	return lead, ok
}

// Put inserts or replaces one cached lead.
func (s *Store) Put(lead api.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[lead.ID] = lead
}

// Replace swaps the whole cache for a fresh list-fetch result.
func (s *Store) Replace(leads []api.Lead) {
	next := make(map[int64]api.Lead, len(leads))
	for _, lead := range leads {
		next[lead.ID] = lead
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = next
}

// Len returns the number of cached leads.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}
