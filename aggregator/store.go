package aggregator

import (
	"sync"
	"time"
)

// SeriesStore holds the current merged series for the lifetime of the
// process. There is exactly one writer (the tick loop) replacing the
// snapshot and any number of readers taking it; a reader always sees
// either the initial empty series or a fully merged one.
type SeriesStore struct {
	mu        sync.RWMutex
	series    Series
	updatedAt time.Time
}

// Replace swaps in a new merged series
func (s *SeriesStore) Replace(series Series) {
	s.mu.Lock()
	s.series = series
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// Snapshot returns the current series and the time of the last update.
// The returned slice is never mutated after Replace, so callers may
// read it without copying.
func (s *SeriesStore) Snapshot() (Series, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.series, s.updatedAt
}

// NewSeriesStore creates a new empty SeriesStore
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{}
}
