// Package store holds the single current snapshot. One writer (the
// scheduler) and any number of concurrent readers (HTTP handlers) meet
// here; the critical section on either side is one pointer move.
package store

import (
	"sync"

	"perfmon-agent/models"
)

type Store struct {
	mu   sync.RWMutex
	snap *models.Snapshot
}

func New() *Store { return &Store{} }

// Publish replaces the current snapshot. Snapshots are immutable after
// construction, so swapping the pointer is the whole publication.
func (s *Store) Publish(snap *models.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Read returns the current snapshot, or nil before the first publish.
// Readers get the same immutable object the writer published; they
// never see a half-merged one.
func (s *Store) Read() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
