// Package store keeps the most recent pipeline artifacts in memory so the
// individual pipeline endpoints can operate on the output of a previous step.
package store

import (
	"sync"
	"time"

	"github.com/rfpflow/backend/internal/domain"
)

// snapshot wraps stored data with the time it was taken
type snapshot[T any] struct {
	data  []T
	taken time.Time
}

// MemoryStore is a thread-safe run store. Snapshots older than the TTL are
// treated as absent; a zero TTL disables expiry.
type MemoryStore struct {
	mu      sync.RWMutex
	rfps    snapshot[domain.RFPRequirement]
	results snapshot[domain.BatchItem]
	ttl     time.Duration
}

// NewMemoryStore creates a run store with the given snapshot TTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl}
}

// SaveRFPs stores the latest scrape result
func (s *MemoryStore) SaveRFPs(rfps []domain.RFPRequirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rfps = snapshot[domain.RFPRequirement]{data: copySlice(rfps), taken: time.Now()}
}

// RFPs returns the latest scrape result, if present and fresh
func (s *MemoryStore) RFPs() ([]domain.RFPRequirement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getSnapshot(s.rfps, s.ttl)
}

// SaveResults stores the latest matching run
func (s *MemoryStore) SaveResults(items []domain.BatchItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = snapshot[domain.BatchItem]{data: copySlice(items), taken: time.Now()}
}

// Results returns the latest matching run, if present and fresh
func (s *MemoryStore) Results() ([]domain.BatchItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getSnapshot(s.results, s.ttl)
}

// Clear drops all stored snapshots
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rfps = snapshot[domain.RFPRequirement]{}
	s.results = snapshot[domain.BatchItem]{}
}

// getSnapshot returns a defensive copy of a snapshot so callers keep working
// with immutable data even if a new pipeline run replaces it concurrently.
func getSnapshot[T any](snap snapshot[T], ttl time.Duration) ([]T, bool) {
	if snap.data == nil {
		return nil, false
	}
	if ttl > 0 && time.Since(snap.taken) > ttl {
		return nil, false
	}
	return copySlice(snap.data), true
}

// copySlice duplicates a snapshot slice
func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
